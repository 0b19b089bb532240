// Package config loads the client configuration from a YAML file, the
// PULSE_* environment variables and defaults, in decreasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configName = "pulse"
	envPrefix  = "pulse"
)

// Load reads the configuration.
//
// If path is empty, a pulse.yaml file is searched in the current directory
// and then in the user config directory; none is fine. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "pulse"))
		}
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("cannot decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:5000")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.poll_interval", "1s")

	v.SetDefault("render.style", "plain")
	v.SetDefault("render.width", 100)
	v.SetDefault("render.raw", false)

	v.SetDefault("pipeline.step_delay", "2s")
	v.SetDefault("pipeline.simulate", false)

	// registered so that PULSE_CREDENTIALS_* variables are seen.
	v.SetDefault("credentials.nord.email", "")
	v.SetDefault("credentials.nord.password", "")
	v.SetDefault("credentials.levante.email", "")
	v.SetDefault("credentials.levante.password", "")

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.encoding", "console")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.output_paths", []string{"stderr"})
	v.SetDefault("logging.error_output_paths", []string{"stderr"})

	v.SetDefault("assist.model", "gemini-2.5-flash")
	v.SetDefault("assist.api_key", "")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}
