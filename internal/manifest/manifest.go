// Package manifest reads entry-point candidates from a project
// descriptor (package.json). Read or parse failures degrade to an empty
// result; they never abort a build.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// Manifest is the subset of package.json fields that designate entry
// points.
type Manifest struct {
	Main    string          `json:"main"`
	Module  string          `json:"module"`
	Bin     json.RawMessage `json:"bin"`
	Exports json.RawMessage `json:"exports"`
}

// Entries returns entry-point specifiers read from the package.json in
// root: the primary entry, executables, and the export map (nested maps
// walked recursively). Missing or malformed manifests yield nil.
func Entries(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}

	var entries []string
	seen := make(map[string]bool)
	add := func(spec string) {
		if spec != "" && !seen[spec] {
			seen[spec] = true
			entries = append(entries, spec)
		}
	}

	add(m.Main)
	add(m.Module)
	for _, spec := range stringValues(m.Bin) {
		add(spec)
	}
	for _, spec := range stringValues(m.Exports) {
		add(spec)
	}

	return entries
}

// stringValues collects every string leaf from a JSON value that is
// either a string or an arbitrarily nested object of strings.
func stringValues(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return []string{s}
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}

	// Sort keys for deterministic ordering of inferred entries.
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []string
	for _, k := range keys {
		out = append(out, stringValues(m[k])...)
	}
	return out
}
