package config

import (
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver"
	"github.com/imdario/mergo"
	"github.com/pkg/errors"
	"github.com/reddec/falcon9"
	"github.com/reddec/falcon9/internal/flight"
	"github.com/reddec/falcon9/internal/present"
	"github.com/shopspring/decimal"
)

// SupportedVersions is the manifest schema range this build understands.
const SupportedVersions = "^1.0"

// Manifest describes a vehicle and its flight plan.
type Manifest struct {
	Version    string        `toml:"version"`
	Name       string        `toml:"name"`
	Separation string        `toml:"separation"`
	Payload    PayloadConfig `toml:"payload"`
	Stages     []StageConfig `toml:"stage"`
}

type PayloadConfig struct {
	Kind string `toml:"kind"`
}

type StageConfig struct {
	ID          string       `toml:"id"`
	Name        string       `toml:"name"`
	Engine      string       `toml:"engine"`
	Engines     int          `toml:"engines"`
	Tanks       []TankConfig `toml:"tank"`
	BurnRate    float64      `toml:"burn_rate"`
	Recoverable bool         `toml:"recoverable"`

	// burned-out engines the stage survives
	EngineOutTolerance int `toml:"engine_out_tolerance"`

	// flight plan
	Burn     *float64 `toml:"burn"`
	Throttle float64  `toml:"throttle"`
	BurnTime int      `toml:"burn_time"`
}

type TankConfig struct {
	Name     string  `toml:"name"`
	Capacity float64 `toml:"capacity"`
}

// DefaultManifest is the built-in Falcon9 flight: 85% throttle for 162 s on
// the first stage, 50% for 397 s on the second.
func DefaultManifest() Manifest {
	return Manifest{
		Version:    "1.0.0",
		Name:       "Falcon9",
		Separation: falcon9.PolicyOnCommand,
		Payload:    PayloadConfig{Kind: falcon9.DragonSpacecraft.Kind},
		Stages: []StageConfig{
			{
				ID: "first_stage", Engine: falcon9.DefaultEngineType, Engines: falcon9.FirstStageEngines,
				Tanks:              []TankConfig{{Name: "LOX", Capacity: 287.4}, {Name: "RP-1", Capacity: 123.5}},
				Recoverable:        true,
				EngineOutTolerance: falcon9.FirstStageEngineOutTolerance,
				Throttle:           0.85,
				BurnTime:           162,
			},
			{
				ID: "second_stage", Engine: falcon9.DefaultEngineType, Engines: falcon9.SecondStageEngines,
				Tanks:              []TankConfig{{Name: "LOX", Capacity: 75.2}, {Name: "RP-1", Capacity: 32.3}},
				EngineOutTolerance: falcon9.SecondStageEngineOutTolerance,
				Throttle:           0.5,
				BurnTime:           397,
			},
		},
	}
}

// LoadManifest decodes a TOML manifest. The vehicle name is mandatory, other
// missing top-level fields come from DefaultManifest; unknown keys are
// rejected.
func LoadManifest(path string) (Manifest, error) {
	var m Manifest
	md, err := toml.DecodeFile(path, &m)
	if err != nil {
		return Manifest{}, errors.Wrapf(err, "manifest parse failed (%s)", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Manifest{}, errors.Errorf("manifest %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if strings.TrimSpace(m.Name) == "" {
		return Manifest{}, errors.Errorf("manifest %s: name is required", path)
	}
	if err := mergo.Merge(&m, DefaultManifest()); err != nil {
		return Manifest{}, errors.Wrapf(err, "manifest defaults (%s)", path)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, errors.Wrapf(err, "manifest %s", path)
	}
	return m, nil
}

// Validate checks the schema version and every stage entry.
func (m Manifest) Validate() error {
	version, err := semver.NewVersion(m.Version)
	if err != nil {
		return errors.Wrapf(err, "invalid version %q", m.Version)
	}
	supported, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return err
	}
	if !supported.Check(version) {
		return errors.Errorf("unsupported manifest version %s (want %s)", version, SupportedVersions)
	}
	if strings.TrimSpace(m.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := falcon9.PolicyByName(m.Separation); err != nil {
		return err
	}
	if m.Payload.Kind != "" {
		if _, err := falcon9.PayloadByKind(m.Payload.Kind); err != nil {
			return err
		}
	}
	if len(m.Stages) == 0 {
		return errors.New("at least one stage is required")
	}
	seen := make(map[string]bool)
	for i, s := range m.Stages {
		if err := validateStage(s); err != nil {
			return errors.Wrapf(err, "stage[%d] invalid", i)
		}
		if seen[s.ID] {
			return errors.Errorf("stage[%d] duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
	}
	if m.Name == "Falcon9" {
		return falcon9.ValidateFalcon9(m.Specs())
	}
	return nil
}

func validateStage(s StageConfig) error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("id is required")
	}
	if s.Engines < 1 {
		return errors.New("engines must be at least 1")
	}
	if len(s.Tanks) == 0 {
		return errors.New("at least one tank is required")
	}
	for j, t := range s.Tanks {
		if !finite(t.Capacity) || t.Capacity < 0 {
			return errors.Errorf("tank[%d] capacity must be a non-negative number (got %v)", j, t.Capacity)
		}
	}
	if !finite(s.BurnRate) || s.BurnRate < 0 {
		return errors.Errorf("burn_rate must be a non-negative number (got %v)", s.BurnRate)
	}
	if s.Burn != nil && (!finite(*s.Burn) || *s.Burn < 0) {
		return errors.Errorf("burn must be a non-negative number (got %v)", *s.Burn)
	}
	if !finite(s.Throttle) || s.Throttle < 0 || s.Throttle > 1 {
		return errors.Errorf("throttle must be between 0.0 and 1.0 (got %v)", s.Throttle)
	}
	if s.BurnTime < 0 {
		return errors.New("burn_time must not be negative")
	}
	if s.EngineOutTolerance < 0 || s.EngineOutTolerance > s.Engines {
		return errors.Errorf("engine_out_tolerance must be between 0 and %d", s.Engines)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Specs converts the stage entries into model specifications.
func (m Manifest) Specs() []falcon9.StageSpec {
	specs := make([]falcon9.StageSpec, 0, len(m.Stages))
	for _, s := range m.Stages {
		name := s.Name
		if name == "" {
			name = present.DisplayName(s.ID)
		}
		spec := falcon9.StageSpec{
			Name:        name,
			EngineType:  s.Engine,
			Engines:     s.Engines,
			BurnRate:    decimal.NewFromFloat(s.BurnRate),
			Recoverable: s.Recoverable,

			EngineOutTolerance: s.EngineOutTolerance,
		}
		for _, t := range s.Tanks {
			tank := falcon9.TankSpec{Capacity: decimal.NewFromFloat(t.Capacity)}
			if t.Name != "" {
				tank.Name = name + "/" + t.Name
			}
			spec.Tanks = append(spec.Tanks, tank)
		}
		specs = append(specs, spec)
	}
	return specs
}

// Plan is the per-stage flight plan.
func (m Manifest) Plan() []flight.Burn {
	plan := make([]flight.Burn, 0, len(m.Stages))
	for _, s := range m.Stages {
		b := flight.Burn{Throttle: s.Throttle, Seconds: s.BurnTime}
		if s.Burn != nil {
			b.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(*s.Burn))
		}
		plan = append(plan, b)
	}
	return plan
}

// Build constructs the rocket the manifest describes.
func (m Manifest) Build() (*falcon9.Rocket, error) {
	policy, err := falcon9.PolicyByName(m.Separation)
	if err != nil {
		return nil, err
	}
	opts := []falcon9.Option{falcon9.WithSeparationPolicy(policy)}
	if m.Payload.Kind != "" {
		payload, err := falcon9.PayloadByKind(m.Payload.Kind)
		if err != nil {
			return nil, err
		}
		opts = append(opts, falcon9.WithPayload(payload))
	}
	return falcon9.NewRocket(m.Name, m.Specs(), opts...)
}
