package filtering

import "strings"

// MatchGlob performs case-insensitive matching of a preset name against a
// pattern with * wildcards:
//   - "web"        exact
//   - "dns-*"      prefix
//   - "*-lan"      suffix
//   - "*tcp*"      contains
//   - "a*b*c"      parts in order
func MatchGlob(pattern, value string) bool {
	if pattern == "" {
		return value == ""
	}

	pattern = strings.ToLower(pattern)
	value = strings.ToLower(value)

	if !strings.Contains(pattern, "*") {
		return pattern == value
	}

	parts := strings.Split(pattern, "*")
	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(value[pos:], part)
		if idx == -1 {
			return false
		}
		// First part is anchored unless the pattern starts with *
		if i == 0 && idx != 0 {
			return false
		}
		pos += idx + len(part)
	}
	// Last part is anchored unless the pattern ends with *
	if last := parts[len(parts)-1]; last != "" && !strings.HasSuffix(value, last) {
		return false
	}
	return true
}

// MatchAnyGlob checks if value matches any of the given patterns
func MatchAnyGlob(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if MatchGlob(pattern, value) {
			return true
		}
	}
	return false
}

// Match returns the presets whose name matches any pattern, in file order.
// No patterns matches every preset.
func (c *PresetConfig) Match(patterns ...string) []*Preset {
	if len(patterns) == 0 {
		return c.Presets
	}
	var out []*Preset
	for _, p := range c.Presets {
		if MatchAnyGlob(patterns, p.Name) {
			out = append(out, p)
		}
	}
	return out
}
