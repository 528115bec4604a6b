package filtering

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// PresetConfig represents the YAML structure for saved filter presets
type PresetConfig struct {
	Presets []*Preset `yaml:"presets" json:"presets"`
}

// Preset is a named, reusable filter
type Preset struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Criteria    Criteria `yaml:"criteria" json:"criteria"`
}

// NotFoundError indicates a preset was not found
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("preset not found: %s", e.Name)
}

// IsNotFound returns true if the error is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// LoadPresets reads and validates a presets file.
// A missing file yields an empty config, not an error.
func LoadPresets(path string) (*PresetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &PresetConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var cfg PresetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", path, err)
	}

	if err := ValidatePresetConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid presets file %s: %w", path, err)
	}

	return &cfg, nil
}

// SavePresets validates cfg and writes it as YAML, creating parent directories
func SavePresets(path string, cfg *PresetConfig) error {
	if err := ValidatePresetConfig(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal presets: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create presets directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}
	return nil
}

// Find returns the preset with the given name
func (c *PresetConfig) Find(name string) (*Preset, error) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

// Upsert adds p or replaces the preset with the same name
func (c *PresetConfig) Upsert(p *Preset) error {
	if err := ValidatePreset(p); err != nil {
		return err
	}
	for i, existing := range c.Presets {
		if existing.Name == p.Name {
			c.Presets[i] = p
			return nil
		}
	}
	c.Presets = append(c.Presets, p)
	return nil
}

// Delete removes a preset by name
func (c *PresetConfig) Delete(name string) error {
	for i, p := range c.Presets {
		if p.Name == name {
			c.Presets = append(c.Presets[:i], c.Presets[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Name: name}
}
