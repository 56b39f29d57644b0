package falcon9

import (
	"github.com/shopspring/decimal"
)

// FuelTank is a single propellant store. The level never leaves [0, capacity].
type FuelTank struct {
	Name string

	capacity decimal.Decimal
	level    decimal.Decimal
}

// NewFuelTank returns a full tank of the given capacity.
func NewFuelTank(name string, capacity decimal.Decimal) (*FuelTank, error) {
	if capacity.IsNegative() {
		return nil, invalidArgument("create", "tank "+name, capacity, "capacity must not be negative")
	}
	return &FuelTank{Name: name, capacity: capacity, level: capacity}, nil
}

// Consume removes min(amount, remaining) from the tank and returns what was
// actually removed. Callers compare the result with amount to detect a
// short burn.
func (t *FuelTank) Consume(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, invalidArgument("consume", "tank "+t.Name, amount, "amount must not be negative")
	}
	taken := decimal.Min(amount, t.level)
	t.level = t.level.Sub(taken)
	return taken, nil
}

func (t *FuelTank) Remaining() decimal.Decimal {
	return t.level
}

func (t *FuelTank) Capacity() decimal.Decimal {
	return t.capacity
}

func (t *FuelTank) IsEmpty() bool {
	return t.level.IsZero()
}
