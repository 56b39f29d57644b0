package config

import (
	"math"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/reddec/falcon9"
	"github.com/spf13/viper"
)

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	assert.Nil(t, m.Validate())

	r, err := m.Build()
	assert.Nil(t, err)
	f9, err := falcon9.NewFalcon9(falcon9.DragonSpacecraft)
	assert.Nil(t, err)
	assert.Equal(t, f9.String(), r.String())
	assert.Equal(t, "FirstStage/LOX", r.Stages()[0].Tanks()[0].Name)
	assert.Equal(t, "410.9", r.Stages()[0].Capacity().String())
}

func TestLoadManifest(t *testing.T) {
	m, err := LoadManifest("../../test/falcon9.toml")
	assert.Nil(t, err, "failed to load manifest")
	assert.Equal(t, "Falcon9", m.Name)
	assert.Len(t, m.Stages, 2)
	assert.Equal(t, "CompositeFairing", m.Payload.Kind)

	r, err := m.Build()
	assert.Nil(t, err)
	assert.Equal(t, "FirstStage", r.Stages()[0].Name)
	assert.Equal(t, "SecondStage", r.Stages()[1].Name)
	assert.Equal(t, falcon9.CompositeFairing, r.Payload())

	plan := m.Plan()
	assert.Len(t, plan, 2)
	assert.Equal(t, 162, plan[0].Seconds)
	assert.Equal(t, 0.85, plan[0].Throttle)
	assert.False(t, plan[0].Amount.Valid)
}

func TestLoadManifest_customVehicle(t *testing.T) {
	m, err := LoadManifest("../../test/stack.toml")
	assert.Nil(t, err)
	assert.Equal(t, falcon9.PolicyEmptyTanks, m.Separation)
	// omitted payload falls back to the default manifest
	assert.Equal(t, "DragonSpacecraft", m.Payload.Kind)

	plan := m.Plan()
	assert.True(t, plan[0].Amount.Valid)
	assert.Equal(t, "150", plan[0].Amount.Decimal.String())
	assert.False(t, plan[1].Amount.Valid)

	r, err := m.Build()
	assert.Nil(t, err)
	assert.Equal(t, "Booster", r.Stages()[0].Name)
	assert.Equal(t, "Merlin", r.Stages()[0].EngineType)
	assert.Equal(t, "Upper", r.Stages()[1].Name)
	assert.Equal(t, "Rutherford", r.Stages()[1].EngineType)

	assert.Nil(t, r.Launch())
	assert.True(t, falcon9.IsInvalidState(r.AdvanceStage()), "empty-tanks policy refuses a fuelled stage")
}

func TestLoadManifest_errors(t *testing.T) {
	_, err := LoadManifest("../../test/missing.toml")
	assert.Error(t, err)

	_, err = LoadManifest("../../test/bad_version.toml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest version")

	_, err = LoadManifest("../../test/unknown_key.toml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "stages")

	_, err = LoadManifest("../../test/eight_engines.toml")
	assert.True(t, falcon9.IsInvalidArgument(err))
}

func TestLoadManifest_nonFinite(t *testing.T) {
	_, err := LoadManifest("../../test/nan_throttle.toml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "throttle must be between 0.0 and 1.0 (got NaN)")

	_, err = LoadManifest("../../test/inf_capacity.toml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tank[0] capacity must be a non-negative number (got +Inf)")
}

func TestLoadManifest_requiresName(t *testing.T) {
	_, err := LoadManifest("../../test/unnamed.toml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
	assert.False(t, falcon9.IsInvalidArgument(err), "must not fall back to the Falcon9 engine check")
}

func TestLoadManifest_engineOutTolerance(t *testing.T) {
	m, err := LoadManifest("../../test/falcon9.toml")
	assert.Nil(t, err)
	r, err := m.Build()
	assert.Nil(t, err)
	assert.Equal(t, 2, r.Stages()[0].EngineOutTolerance())
	assert.Equal(t, 0, r.Stages()[1].EngineOutTolerance())

	m, err = LoadManifest("../../test/burn_out.toml")
	assert.Nil(t, err)
	r, err = m.Build()
	assert.Nil(t, err)
	assert.Nil(t, r.Launch())
	stage, _ := r.ActiveStage()
	_, err = stage.Fire(m.Plan()[0].Throttle, m.Plan()[0].Seconds)
	assert.True(t, falcon9.IsCatastrophicFailure(err))
}

func TestManifest_Validate(t *testing.T) {
	cases := map[string]func(m *Manifest){
		"bad version":     func(m *Manifest) { m.Version = "one" },
		"no name":         func(m *Manifest) { m.Name = " " },
		"bad separation":  func(m *Manifest) { m.Separation = "altitude" },
		"bad payload":     func(m *Manifest) { m.Payload.Kind = "Starlink" },
		"no stages":       func(m *Manifest) { m.Stages = nil },
		"no id":           func(m *Manifest) { m.Stages[0].ID = "" },
		"duplicate id":    func(m *Manifest) { m.Stages[1].ID = m.Stages[0].ID },
		"no tanks":        func(m *Manifest) { m.Stages[1].Tanks = nil },
		"negative tank":   func(m *Manifest) { m.Stages[1].Tanks[0].Capacity = -1 },
		"throttle":        func(m *Manifest) { m.Stages[0].Throttle = 1.2 },
		"burn time":       func(m *Manifest) { m.Stages[0].BurnTime = -1 },
		"negative burn":   func(m *Manifest) { v := -1.0; m.Stages[0].Burn = &v },
		"negative rate":   func(m *Manifest) { m.Stages[0].BurnRate = -0.1 },
		"nan throttle":    func(m *Manifest) { m.Stages[0].Throttle = math.NaN() },
		"inf capacity":    func(m *Manifest) { m.Stages[1].Tanks[0].Capacity = math.Inf(1) },
		"nan capacity":    func(m *Manifest) { m.Stages[1].Tanks[0].Capacity = math.NaN() },
		"inf burn":        func(m *Manifest) { v := math.Inf(1); m.Stages[0].Burn = &v },
		"nan burn rate":   func(m *Manifest) { m.Stages[0].BurnRate = math.NaN() },
		"tolerance":       func(m *Manifest) { m.Stages[1].EngineOutTolerance = 2 },
		"no engines":      func(m *Manifest) { m.Stages[0].Engines = 0 },
		"falcon9 engines": func(m *Manifest) { m.Stages[1].Engines = 2 },
	}
	for name, mutate := range cases {
		m := DefaultManifest()
		mutate(&m)
		assert.Error(t, m.Validate(), name)
	}
}

func TestLoadSettings(t *testing.T) {
	v := viper.New()
	InitSettings(v)
	s, err := LoadSettings(v, "")
	assert.Nil(t, err)
	assert.Equal(t, Settings{LogLevel: "info", Countdown: 3}, s)
}

func TestLoadSettings_file(t *testing.T) {
	v := viper.New()
	InitSettings(v)
	s, err := LoadSettings(v, "../../test/settings.yaml")
	assert.Nil(t, err)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 5, s.Countdown)
	assert.Equal(t, "test/falcon9.toml", s.Manifest)

	_, err = LoadSettings(viper.New(), "../../test/missing.yaml")
	assert.Error(t, err)
}

func TestLoadSettings_precedence(t *testing.T) {
	t.Setenv("FALCON9_COUNTDOWN", "7")
	t.Setenv("FALCON9_NO_COLOR", "true")
	v := viper.New()
	InitSettings(v)
	s, err := LoadSettings(v, "")
	assert.Nil(t, err)
	assert.Equal(t, 7, s.Countdown)
	assert.True(t, s.NoColor)

	v.Set("countdown", 1)
	s, err = LoadSettings(v, "")
	assert.Nil(t, err)
	assert.Equal(t, 1, s.Countdown)

	v.Set("countdown", -1)
	_, err = LoadSettings(v, "")
	assert.Error(t, err)
}
