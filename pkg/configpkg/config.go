// Package configpkg provides parsing functionality for environment variables.
package configpkg

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
//
// The values are read by viper from a config file or environment variables.
// Environment variables take precedence over the file. TOKEN_SYMMETRIC_KEY has no
// default and must be set to 32 characters before the HTTP server can start.
type Config struct {
	BankName            string        `mapstructure:"BANK_NAME"`
	ServerAddress       string        `mapstructure:"SERVER_ADDRESS"`
	TokenMaker          string        `mapstructure:"TOKEN_MAKER"`
	TokenSymmetricKey   string        `mapstructure:"TOKEN_SYMMETRIC_KEY"`
	AccessTokenDuration time.Duration `mapstructure:"ACCESS_TOKEN_DURATION"`
	SeedDemoAccount     bool          `mapstructure:"SEED_DEMO_ACCOUNT"`
	Environment         string        `mapstructure:"GO_ENV"`
}

var defaults = map[string]any{
	"BANK_NAME":             "abc Bank",
	"SERVER_ADDRESS":        "0.0.0.0:8080",
	"TOKEN_MAKER":           "paseto",
	"TOKEN_SYMMETRIC_KEY":   "",
	"ACCESS_TOKEN_DURATION": 15 * time.Minute,
	"SEED_DEMO_ACCOUNT":     true,
	"GO_ENV":                "production",
}

// Load reads configuration from path/app.env or environment variables.
//
// A missing app.env is not an error, the defaults and the environment are used instead.
func Load(path string) (Config, error) {
	var c Config

	v := viper.New()

	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, err
		}
	}

	err = v.Unmarshal(&c)
	if err != nil {
		return c, err
	}

	return c, nil
}
