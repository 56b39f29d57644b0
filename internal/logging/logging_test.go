package logging

import (
	"bytes"
	"testing"

	"github.com/alecthomas/assert"
	"github.com/rs/zerolog"
)

func TestNew_testProfile(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	t.Setenv(EnvLogNoColor, "")
	var buf bytes.Buffer
	log := New(Options{Profile: ProfileTest, Out: &buf})
	log.Debug().Str("stage", "FirstStage").Msg("separated")

	out := buf.String()
	assert.Contains(t, out, "separated")
	assert.Contains(t, out, "stage=FirstStage")
	assert.Contains(t, out, "app=falcon9")
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not be coloured")
}

func TestNew_envLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "error")
	var buf bytes.Buffer
	log := New(Options{Profile: ProfileTest, Out: &buf})
	log.Info().Msg("hidden")
	assert.Equal(t, "", buf.String())
	assert.Equal(t, zerolog.ErrorLevel, log.GetLevel())
}

func TestNew_explicitLevelBeatsEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "debug")
	var buf bytes.Buffer
	log := New(Options{Profile: ProfileTest, Level: "off", Out: &buf})
	log.Error().Msg("silenced")
	assert.Equal(t, "", buf.String())
	assert.Equal(t, zerolog.Disabled, log.GetLevel())
}

func TestNew_noColorOption(t *testing.T) {
	t.Setenv(EnvLogNoColor, "false")
	var buf bytes.Buffer
	log := New(Options{Profile: ProfileTest, NoColor: true, Out: &buf})
	log.Info().Msg("plain")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestParseLevel(t *testing.T) {
	lvl, ok := ParseLevel(" WARNING ")
	assert.True(t, ok)
	assert.Equal(t, zerolog.WarnLevel, lvl)

	lvl, ok = ParseLevel("off")
	assert.True(t, ok)
	assert.Equal(t, zerolog.Disabled, lvl)

	_, ok = ParseLevel("loud")
	assert.False(t, ok)
	_, ok = ParseLevel("")
	assert.False(t, ok)
}
