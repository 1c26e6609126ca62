package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional config file persisterctl reads defaults from,
// overridden by any flags the user passes explicitly. Its shape deliberately
// mirrors the flag set on RootOptions.
type fileConfig struct {
	Log     string `yaml:"log"`
	Backend string `yaml:"backend"`
}

func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.WithMessage(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.WithMessage(err, "parsing config file")
	}
	return cfg, nil
}
