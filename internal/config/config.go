// Package config loads the YAML configuration shared by the dailies commands.
package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"dailies/internal/ctxlog"
	"dailies/internal/db"
	"dailies/internal/server"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Log    ctxlog.Config `yaml:"log"`
	DB     db.Config     `yaml:"db"`
	Server server.Config `yaml:"server"`
}

func Load(ctx context.Context, filename string) (Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Config{}, fmt.Errorf("open %q: %w", filename, err)
	}
	defer ctxlog.Close(ctx, "config file", file)

	return Decode(file)
}

// Decode reads a configuration document. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	dec := yaml.NewDecoder(r, yaml.Strict())

	var config Config
	err := dec.Decode(&config)
	if err != nil {
		return Config{}, fmt.Errorf("yaml: %w", err)
	}

	return config, nil
}
