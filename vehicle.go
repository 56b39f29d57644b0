package falcon9

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DefaultEngineType = "Merlin"

	// Falcon9 engine counts per stage.
	FirstStageEngines  = 9
	SecondStageEngines = 1

	// The first stage survives two burned-out engines; the second stage has
	// only one.
	FirstStageEngineOutTolerance  = 2
	SecondStageEngineOutTolerance = 0
)

// MerlinBurnRate is the share of capacity one Merlin burns per second at full
// throttle (0.5%).
var MerlinBurnRate = decimal.New(5, -3)

// TankSpec describes one fuel tank of a stage.
type TankSpec struct {
	Name     string
	Capacity decimal.Decimal
}

// StageSpec is everything needed to build a Stage.
type StageSpec struct {
	Name        string
	EngineType  string
	Engines     int
	Tanks       []TankSpec
	BurnRate    decimal.Decimal // zero means MerlinBurnRate
	Recoverable bool

	// EngineOutTolerance is how many burned-out engines the stage survives.
	EngineOutTolerance int
}

// Payload is what the rocket carries on top of the last stage. Dimensions in
// meters.
type Payload struct {
	Kind     string
	Height   float64
	Diameter float64
}

var (
	// DragonSpacecraft is the Dragon cargo or crew capsule.
	DragonSpacecraft = Payload{Kind: "DragonSpacecraft", Height: 8.1, Diameter: 3.7}
	// CompositeFairing delivers satellites into LEO, GTO and beyond.
	CompositeFairing = Payload{Kind: "CompositeFairing", Height: 13.1, Diameter: 5.2}
)

func (p Payload) String() string {
	return "Payload: " + p.Kind
}

func (p Payload) IsZero() bool {
	return p.Kind == ""
}

// PayloadByKind looks up a catalogued payload.
func PayloadByKind(kind string) (Payload, error) {
	switch kind {
	case DragonSpacecraft.Kind:
		return DragonSpacecraft, nil
	case CompositeFairing.Kind:
		return CompositeFairing, nil
	}
	return Payload{}, invalidArgument("lookup", "payload", kind, "unknown payload kind")
}

// Falcon9Stages returns the stage specifications of the real vehicle,
// propellant in tonnes.
func Falcon9Stages() []StageSpec {
	return []StageSpec{
		{
			Name:       "FirstStage",
			EngineType: DefaultEngineType,
			Engines:    FirstStageEngines,
			Tanks: []TankSpec{
				{Name: "FirstStage/LOX", Capacity: decimal.New(2874, -1)},
				{Name: "FirstStage/RP-1", Capacity: decimal.New(1235, -1)},
			},
			Recoverable:        true,
			EngineOutTolerance: FirstStageEngineOutTolerance,
		},
		{
			Name:       "SecondStage",
			EngineType: DefaultEngineType,
			Engines:    SecondStageEngines,
			Tanks: []TankSpec{
				{Name: "SecondStage/LOX", Capacity: decimal.New(752, -1)},
				{Name: "SecondStage/RP-1", Capacity: decimal.New(323, -1)},
			},
			EngineOutTolerance: SecondStageEngineOutTolerance,
		},
	}
}

// ValidateFalcon9 checks that specs describe a two-stage vehicle with the
// real engine counts.
func ValidateFalcon9(specs []StageSpec) error {
	if len(specs) != 2 {
		return invalidArgument("validate", "Falcon9", len(specs), "Falcon9 has exactly 2 stages")
	}
	want := []int{FirstStageEngines, SecondStageEngines}
	for i, spec := range specs {
		if spec.Engines != want[i] {
			return invalidArgument("validate", "Falcon9 stage "+spec.Name, spec.Engines,
				fmt.Sprintf("stage %d must have %d engines", i+1, want[i]))
		}
	}
	return nil
}

// NewFalcon9 builds the Falcon9 vehicle carrying payload.
func NewFalcon9(payload Payload, opts ...Option) (*Rocket, error) {
	specs := Falcon9Stages()
	if err := ValidateFalcon9(specs); err != nil {
		return nil, err
	}
	r, err := NewRocket("Falcon9", specs, append([]Option{WithPayload(payload)}, opts...)...)
	if err != nil {
		return nil, errors.Wrap(err, "build Falcon9")
	}
	return r, nil
}
