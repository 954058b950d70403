package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings is the hierarchical application configuration: defaults, then an
// optional config file, then REIM_-prefixed environment variables.
type Settings struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Audit struct {
		LookbackDays   int     `mapstructure:"lookback_days" yaml:"lookback_days"`
		AmountCeiling  float64 `mapstructure:"amount_ceiling" yaml:"amount_ceiling"`
		ReceiptAgeDays int     `mapstructure:"receipt_age_days" yaml:"receipt_age_days"`
	} `mapstructure:"audit" yaml:"audit"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`
}

// LoadSettings initializes the Viper configuration hierarchy.
func LoadSettings() (*Settings, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("audit.lookback_days", 30)
	v.SetDefault("audit.amount_ceiling", 300.0)
	v.SetDefault("audit.receipt_age_days", 30)
	v.SetDefault("rules.file", "rules.yaml")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.reim-audit")
	v.AddConfigPath(".reim-audit")
	v.AddConfigPath(".")

	v.SetEnvPrefix("REIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling configuration: %w", err)
	}
	return &settings, nil
}
