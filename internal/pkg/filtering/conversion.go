package filtering

import (
	"encoding/json"
	"fmt"
)

// CriteriaToJSON serializes c as the export request body.
// Every field is written, including empty strings; the server decides what
// an empty value means.
func CriteriaToJSON(c Criteria) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal criteria: %w", err)
	}
	return data, nil
}

// PresetToJSON converts a preset to JSON bytes
func PresetToJSON(p *Preset) ([]byte, error) {
	return json.Marshal(p)
}

// PresetSliceToJSON converts a slice of presets to JSON bytes.
// A nil slice is written as an empty array.
func PresetSliceToJSON(presets []*Preset) ([]byte, error) {
	if presets == nil {
		presets = []*Preset{}
	}
	return json.Marshal(presets)
}
