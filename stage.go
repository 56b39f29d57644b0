package falcon9

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/reddec/falcon9/internal/present"
	"github.com/shopspring/decimal"
)

// Stage is a jettisonable section of the rocket carrying its own engines and
// propellant. Once separated it is inert: only queries are allowed.
type Stage struct {
	Name       string
	EngineType string

	engines     []*Engine
	tanks       []*FuelTank
	burnRate    decimal.Decimal
	recoverable bool
	tolerance   int
	separated   bool
}

// NewStage builds a stage from its specification. The engine count is fixed
// for the lifetime of the stage.
func NewStage(spec StageSpec) (*Stage, error) {
	if spec.Name == "" {
		return nil, invalidArgument("create", "stage", spec.Name, "name is required")
	}
	target := "stage " + spec.Name
	if spec.Engines < 1 {
		return nil, invalidArgument("create", target, spec.Engines, "at least one engine is required")
	}
	if len(spec.Tanks) == 0 {
		return nil, invalidArgument("create", target, len(spec.Tanks), "at least one fuel tank is required")
	}
	if spec.BurnRate.IsNegative() {
		return nil, invalidArgument("create", target, spec.BurnRate, "burn rate must not be negative")
	}
	if spec.EngineOutTolerance < 0 || spec.EngineOutTolerance > spec.Engines {
		return nil, invalidArgument("create", target, spec.EngineOutTolerance, "engine-out tolerance must be between 0 and the engine count")
	}
	engineType := spec.EngineType
	if engineType == "" {
		engineType = DefaultEngineType
	}
	burnRate := spec.BurnRate
	if burnRate.IsZero() {
		burnRate = MerlinBurnRate
	}

	s := &Stage{
		Name:        spec.Name,
		EngineType:  engineType,
		burnRate:    burnRate,
		recoverable: spec.Recoverable,
		tolerance:   spec.EngineOutTolerance,
	}
	for i := 0; i < spec.Engines; i++ {
		s.engines = append(s.engines, newEngine(engineType, i))
	}
	for i, tank := range spec.Tanks {
		name := tank.Name
		if name == "" {
			name = fmt.Sprintf("%s/tank-%d", spec.Name, i)
		}
		t, err := NewFuelTank(name, tank.Capacity)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %s", spec.Name)
		}
		s.tanks = append(s.tanks, t)
	}
	return s, nil
}

func (s *Stage) String() string {
	return fmt.Sprintf("%s: consisting of %d %s %s", s.Name, len(s.engines), s.EngineType, present.Noun(len(s.engines), "engine"))
}

// IgniteEngines ignites every engine in order. The first engine that refuses
// aborts the operation; engines ignited before it stay ignited.
func (s *Stage) IgniteEngines() error {
	if s.separated {
		return invalidState("ignite", s.target(), "stage already separated")
	}
	if !s.HasFuel() {
		return invalidState("ignite", s.target(), "stage has no fuel")
	}
	for _, e := range s.engines {
		if err := e.Ignite(); err != nil {
			return errors.Wrapf(err, "stage %s", s.Name)
		}
	}
	return nil
}

// ShutdownEngines shuts down every engine in order, fail-fast like IgniteEngines.
func (s *Stage) ShutdownEngines() error {
	if s.separated {
		return invalidState("shutdown", s.target(), "stage already separated")
	}
	for _, e := range s.engines {
		if err := e.Shutdown(); err != nil {
			return errors.Wrapf(err, "stage %s", s.Name)
		}
	}
	return nil
}

// BurnFuel drains the tanks in order until amount is consumed or every tank
// is empty and returns the total consumed.
func (s *Stage) BurnFuel(amount decimal.Decimal) (decimal.Decimal, error) {
	if s.separated {
		return decimal.Zero, invalidState("burn", s.target(), "stage already separated")
	}
	if amount.IsNegative() {
		return decimal.Zero, invalidArgument("burn", s.target(), amount, "amount must not be negative")
	}
	total := decimal.Zero
	left := amount
	for _, t := range s.tanks {
		if left.IsZero() {
			break
		}
		taken, err := t.Consume(left)
		if err != nil {
			return total, errors.Wrapf(err, "stage %s", s.Name)
		}
		total = total.Add(taken)
		left = left.Sub(taken)
	}
	return total, nil
}

// Fire burns fuel for the given number of seconds at throttle (0..1). Each
// running engine burns its share of the stage capacity at the stage burn rate.
// A burn that needs at least the remaining fuel burns out every running
// engine; if that exceeds the stage tolerance Fire returns a
// CatastrophicFailureError along with the amount burned.
func (s *Stage) Fire(throttle float64, seconds int) (decimal.Decimal, error) {
	if math.IsNaN(throttle) || throttle < 0 || throttle > 1 {
		return decimal.Zero, invalidArgument("fire", s.target(), throttle, "throttle must be between 0.0 and 1.0")
	}
	if seconds < 0 {
		return decimal.Zero, invalidArgument("fire", s.target(), seconds, "duration must not be negative")
	}
	if s.separated {
		return decimal.Zero, invalidState("fire", s.target(), "stage already separated")
	}
	running := s.EnginesRunning()
	if running == 0 {
		return decimal.Zero, invalidState("fire", s.target(), "no engines running")
	}
	amount := s.Capacity().
		Mul(s.burnRate).
		Mul(decimal.NewFromFloat(throttle)).
		Mul(decimal.New(int64(seconds), 0)).
		Mul(decimal.New(int64(running), 0)).
		Div(decimal.New(int64(len(s.engines)), 0))
	starved := !amount.LessThan(s.Remaining())
	burned, err := s.BurnFuel(amount)
	if err != nil || !starved {
		return burned, err
	}
	for _, e := range s.engines {
		if e.IsIgnited() {
			e.burnOut()
		}
	}
	if out := s.BurnedOut(); out > s.tolerance {
		return burned, catastrophicFailure(s.Name, out, s.tolerance)
	}
	return burned, nil
}

// Separate jettisons the stage, shutting down any engine still running.
func (s *Stage) Separate() error {
	if s.separated {
		return invalidState("separate", s.target(), "stage already separated")
	}
	for _, e := range s.engines {
		if e.IsIgnited() {
			if err := e.Shutdown(); err != nil {
				return errors.Wrapf(err, "stage %s", s.Name)
			}
		}
	}
	s.separated = true
	return nil
}

// readyToIgnite reports why IgniteEngines would fail without touching any state.
func (s *Stage) readyToIgnite() error {
	if s.separated {
		return invalidState("ignite", s.target(), "stage already separated")
	}
	if !s.HasFuel() {
		return invalidState("ignite", s.target(), "stage has no fuel")
	}
	for _, e := range s.engines {
		if e.IsBurnedOut() {
			return errors.Wrapf(invalidState("ignite", e.String(), "engine burned out"), "stage %s", s.Name)
		}
		if e.IsIgnited() {
			return errors.Wrapf(invalidState("ignite", e.String(), "engine already ignited"), "stage %s", s.Name)
		}
	}
	return nil
}

func (s *Stage) HasFuel() bool {
	for _, t := range s.tanks {
		if !t.IsEmpty() {
			return true
		}
	}
	return false
}

func (s *Stage) IsSeparated() bool {
	return s.separated
}

func (s *Stage) Recoverable() bool {
	return s.recoverable
}

// EnginesRunning returns the number of ignited engines.
func (s *Stage) EnginesRunning() int {
	var n int
	for _, e := range s.engines {
		if e.IsIgnited() {
			n++
		}
	}
	return n
}

// BurnedOut returns the number of engines that ran out of propellant.
func (s *Stage) BurnedOut() int {
	var n int
	for _, e := range s.engines {
		if e.IsBurnedOut() {
			n++
		}
	}
	return n
}

func (s *Stage) EngineOutTolerance() int {
	return s.tolerance
}

func (s *Stage) Engines() []*Engine {
	return s.engines
}

func (s *Stage) Tanks() []*FuelTank {
	return s.tanks
}

// Remaining is the fuel left across all tanks.
func (s *Stage) Remaining() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.tanks {
		total = total.Add(t.Remaining())
	}
	return total
}

// Capacity is the combined capacity of all tanks.
func (s *Stage) Capacity() decimal.Decimal {
	total := decimal.Zero
	for _, t := range s.tanks {
		total = total.Add(t.Capacity())
	}
	return total
}

func (s *Stage) target() string {
	return "stage " + s.Name
}
