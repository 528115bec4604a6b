package filtering

import (
	"fmt"
	"regexp"
	"strings"
)

// Preset name validation regex (compiled once)
var presetNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_.-]*$`)

// ValidationError represents a preset validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePreset validates a single preset.
// Criteria values themselves are never rejected: malformed numbers fall back
// to identity bounds when matching.
func ValidatePreset(p *Preset) error {
	if p == nil {
		return &ValidationError{Field: "preset", Message: "preset is required"}
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return &ValidationError{Field: "name", Message: "preset name is required"}
	}
	if !presetNameRegex.MatchString(name) {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("invalid preset name %q (letters, digits, '_', '.', '-')", p.Name),
		}
	}
	return nil
}

// ValidatePresetConfig validates every preset and rejects duplicate names
func ValidatePresetConfig(cfg *PresetConfig) error {
	seen := make(map[string]bool, len(cfg.Presets))
	for _, p := range cfg.Presets {
		if err := ValidatePreset(p); err != nil {
			return err
		}
		if seen[p.Name] {
			return &ValidationError{
				Field:   "name",
				Message: fmt.Sprintf("duplicate preset name: %s", p.Name),
			}
		}
		seen[p.Name] = true
	}
	return nil
}
