// Package sector maps instrument codes to human-readable sector/theme
// labels. Labels are display-only grouping for the screener output; the
// simulator never depends on them.
package sector

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Unclassified is the label for codes absent from the map.
const Unclassified = "Unclassified"

// Map is a code -> sector label mapping.
type Map map[string]string

// Load reads a theme-map JSON file ({"005930": "Semiconductors", ...}).
func Load(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sector: read %s: %w", path, err)
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sector: parse %s: %w", path, err)
	}
	return m, nil
}

// Label returns the sector for a code, or Unclassified.
func (m Map) Label(code string) string {
	if s, ok := m[code]; ok && s != "" {
		return s
	}
	return Unclassified
}

// Sectors lists the distinct labels, sorted.
func (m Map) Sectors() []string {
	seen := make(map[string]bool)
	for _, s := range m {
		seen[s] = true
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
