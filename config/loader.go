// Package config loads service configuration from a YAML file, an
// optional .env file and environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load populates cfg for the named service. Resolution order:
// YAML config file, then .env, then process environment (highest wins).
//
// When no explicit path is given, config.yml is searched in
// ./cmd/<service>/, ./config/ and the working directory; .env is searched
// next to it.
func Load(service string, cfg any, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	configFile := o.configFile
	if configFile == "" {
		configFile = findFirst(
			fmt.Sprintf("./cmd/%s/config.yml", service),
			"./config/config.yml",
			"./config.yml",
		)
	}
	envFile := o.envFile
	if envFile == "" {
		envFile = findFirst(fmt.Sprintf(".env.%s", service), ".env")
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: loading %s: %v\n", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(service))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: reading %s: %w", configFile, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal for %s: %w", service, err)
	}
	return nil
}

type options struct {
	configFile string
	envFile    string
}

// Option overrides loader behavior.
type Option func(*options)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(o *options) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(o *options) { o.envFile = path }
}

func findFirst(paths ...string) string {
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
