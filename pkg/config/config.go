// Package config loads taskodos settings from .taskodos.yaml, an optional
// .env file and TASKODOS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/taskodos/pkg/api"
)

// EnvConfigPath names a directory searched first for .taskodos.yaml.
const EnvConfigPath = "TASKODOS_CONFIG_PATH"

// Config is the resolved configuration.
type Config struct {
	APIURL   string        `mapstructure:"api_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Timezone string        `mapstructure:"timezone"`
	DataPath string        `mapstructure:"data_path"`
	LogFile  string        `mapstructure:"log_file"`
	LogLevel string        `mapstructure:"log_level"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-"`
}

// Location resolves Timezone. Empty means the machine's local zone.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Timezone)
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", tz, err)
	}
	return loc, nil
}

// Load reads the configuration. A missing config file is not an error.
func Load() (*Config, error) {
	// .env only seeds variables that are not already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	v.SetDefault("api_url", api.DefaultBaseURL)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("timezone", "")
	v.SetDefault("data_path", "~/.taskodos")
	v.SetDefault("log_file", "~/.taskodos/taskodos.log")
	v.SetDefault("log_level", "info")

	v.SetConfigName(".taskodos") // .yaml is implicit
	v.SetEnvPrefix("TASKODOS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if override := os.Getenv(EnvConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	var err error
	if cfg.DataPath, err = expand(cfg.DataPath); err != nil {
		return nil, err
	}
	if cfg.LogFile, err = expand(cfg.LogFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expand(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	out, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("config: expand %q: %w", path, err)
	}
	return filepath.Clean(out), nil
}
