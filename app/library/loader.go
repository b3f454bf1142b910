// Package library reads the optional YAML file listing the Plex libraries to
// export.
package library

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid library file %s: %w", path, err)
	}

	slog.Debug("Library file loaded", "path", path, "libraries", len(config.Libraries), "enabled", len(config.EnabledNames()))
	return config, nil
}

func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i := range config.Libraries {
		config.Libraries[i].Name = strings.TrimSpace(config.Libraries[i].Name)
	}

	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

func validate(config *Config) error {
	if len(config.Libraries) == 0 {
		return fmt.Errorf("at least one library is required")
	}

	seen := make(map[string]int, len(config.Libraries))
	for i, entry := range config.Libraries {
		if entry.Name == "" {
			return fmt.Errorf("library at index %d: name is required", i)
		}
		key := strings.ToLower(entry.Name)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("library at index %d: duplicate of index %d (%s)", i, first, entry.Name)
		}
		seen[key] = i
	}

	if len(config.EnabledNames()) == 0 {
		return fmt.Errorf("all libraries are disabled")
	}
	return nil
}
