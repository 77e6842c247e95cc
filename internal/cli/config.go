package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys, shared by flags, CRYPTOWILL_* environment variables and
// the config file
const (
	keyConfig    = "config"
	keyThreshold = "threshold"
	keyTrustees  = "trustees"
	keyDigest    = "digest"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
	keyOutput    = "output"

	envPrefix = "CRYPTOWILL"
)

// Config holds the resolved CLI configuration
type Config struct {
	ConfigFile   string `mapstructure:"config"`
	Threshold    int    `mapstructure:"threshold"`
	Trustees     int    `mapstructure:"trustees"`
	Digest       string `mapstructure:"digest"`
	LogLevel     string `mapstructure:"log-level"`
	LogFormat    string `mapstructure:"log-format"`
	OutputFormat string `mapstructure:"output"`
}

// NewConfig returns the defaults
func NewConfig() *Config {
	return &Config{
		Threshold:    3,
		Trustees:     5,
		Digest:       "sha256",
		LogLevel:     "info",
		LogFormat:    "text",
		OutputFormat: "text",
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	defaults := NewConfig()
	v.SetDefault(keyThreshold, defaults.Threshold)
	v.SetDefault(keyTrustees, defaults.Trustees)
	v.SetDefault(keyDigest, defaults.Digest)
	v.SetDefault(keyLogLevel, defaults.LogLevel)
	v.SetDefault(keyLogFormat, defaults.LogFormat)
	v.SetDefault(keyOutput, defaults.OutputFormat)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// loadConfig resolves flags > environment > config file > defaults for cmd
func loadConfig(v *viper.Viper, cmd *cobra.Command) (*Config, error) {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	if err := v.BindPFlags(cmd.InheritedFlags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if file := v.GetString(keyConfig); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}

	cfg := NewConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
