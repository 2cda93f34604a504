// Package config handles loading and parsing application configuration.
// The config file path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every value in the file can be overridden by its environment variable.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure shared by the command-line
// front end and the development backend.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// StoragePath is the SQLite file of the development backend.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-default:"storage/restaurants.db"`

	// HTTPServer is where the development backend listens.
	HTTPServer `yaml:"http_server"`

	// Backend is the REST backend the front end talks to.
	Backend Backend `yaml:"backend"`
}

// HTTPServer holds settings of the development backend's listener.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:5112"`
}

// Backend locates the restaurant resource: requests go to
// {BaseURL}/{Resource}[/{id}].
type Backend struct {
	BaseURL  string `yaml:"base_url" env:"BACKEND_BASE_URL" env-default:"http://localhost:5112/api"`
	Resource string `yaml:"resource" env:"BACKEND_RESOURCE" env-default:"RestaurantWithLocation"`
}

// ResourcePath is the path the development backend mounts the resource at.
func (c *Config) ResourcePath() string {
	return "/api/" + c.Backend.Resource
}

// Load reads the config file at path, applies environment overrides and
// checks required values.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}
	if cfg.Backend.Resource == "" {
		return nil, errors.New("backend resource must not be empty")
	}

	return &cfg, nil
}

// Path resolves the config path from CONFIG_PATH, falling back to flagValue.
func Path(flagValue string) string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return flagValue
}

// MustLoad resolves the config path from CONFIG_PATH or the --config flag,
// then loads it. It exits the program on any failure.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}
