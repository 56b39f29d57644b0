package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const EnvPrefix = "FALCON9"

// Settings are the runtime knobs of the CLI. Precedence: flags (v.Set),
// FALCON9_* environment, settings file, defaults.
type Settings struct {
	LogLevel  string `mapstructure:"log_level"`
	NoColor   bool   `mapstructure:"no_color"`
	Countdown int    `mapstructure:"countdown"`
	Manifest  string `mapstructure:"manifest"`
	Template  string `mapstructure:"template"`
}

// InitSettings registers defaults and environment binding on v.
func InitSettings(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("no_color", false)
	v.SetDefault("countdown", 3)
	v.SetDefault("manifest", "")
	v.SetDefault("template", "")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
}

// LoadSettings reads the optional settings file and decodes v.
func LoadSettings(v *viper.Viper, file string) (Settings, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, errors.Wrapf(err, "settings load failed (%s)", file)
		}
	}
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, errors.Wrap(err, "settings decode failed")
	}
	if s.Countdown < 0 {
		return Settings{}, errors.Errorf("settings: countdown must not be negative (got %d)", s.Countdown)
	}
	return s, nil
}
