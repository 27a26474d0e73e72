package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultPort = 8080

// Config is the service configuration, normally loaded from a YAML file and
// then overridden by command line flags.
type Config struct {
	Port    int    `yaml:"port"`
	Backend string `yaml:"backend"`
	DSN     string `yaml:"dsn"`
}

func DefaultConfig() Config {
	return Config{Port: defaultPort, Backend: "memory"}
}

// LoadConfigFile reads a YAML config file. Fields absent from the file keep
// their default values.
func LoadConfigFile(path string) (Config, error) {
	c := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("cannot read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("malformed config file %q: %w", path, err)
	}
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Backend == "" {
		c.Backend = "memory"
	}
	return c, nil
}
