package clients

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
)

//go:embed default_map.csv
var defaultMapCSV string

// NameMap translates logbook client aliases to canonical revenue names.
// Several aliases may point at the same canonical client.
type NameMap map[string]string

// Translate returns the canonical name for label, or label itself when no
// alias entry exists.
func (m NameMap) Translate(label string) string {
	trimmed := strings.TrimSpace(label)
	if canonical, ok := m[trimmed]; ok && strings.TrimSpace(canonical) != "" {
		return canonical
	}
	return trimmed
}

// Aliases lists every alias pointing at canonical, sorted.
func (m NameMap) Aliases(canonical string) []string {
	out := make([]string, 0, 2)
	for alias, target := range m {
		if target == canonical {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// DefaultNameMap returns a fresh copy of the built-in mapping used when the
// source provides none.
func DefaultNameMap() NameMap {
	names, _, err := ParseNameMap(strings.NewReader(defaultMapCSV))
	if err != nil {
		panic(fmt.Sprintf("clients: embedded default map: %v", err))
	}
	return names
}

// DefaultMapVersion reports the version line of the built-in mapping.
func DefaultMapVersion() string {
	_, version, _ := ParseNameMap(strings.NewReader(defaultMapCSV))
	return version
}

// ParseNameMap reads "alias,canonical" CSV with a header row. Lines starting
// with '#' are comments; a "# version: x" comment sets the version.
func ParseNameMap(r io.Reader) (NameMap, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read name map: %w", err)
	}

	version := ""
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "#")), ":")
		if ok && strings.EqualFold(strings.TrimSpace(key), "version") {
			version = strings.TrimSpace(value)
			break
		}
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, "", fmt.Errorf("parse name map: %w", err)
	}

	names := make(NameMap, len(rows))
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		names.Put(row[0], row[1])
	}
	return names, version, nil
}

// Put stores one pair, ignoring rows with a blank side.
func (m NameMap) Put(alias, canonical string) {
	alias = strings.TrimSpace(alias)
	canonical = strings.TrimSpace(canonical)
	if alias == "" || canonical == "" {
		return
	}
	m[alias] = canonical
}
