package modules

import (
	"path/filepath"
	"strings"
)

// CandidateSuffixes is the fixed resolution order applied to local
// specifiers that lack a source suffix. The analyzer records the head
// candidate; the assembler checks the full list against the scanned set.
var CandidateSuffixes = []string{
	".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx",
	string(filepath.Separator) + "index.js",
	string(filepath.Separator) + "index.ts",
}

// IsLocal reports whether a specifier names a local file rather than an
// external module.
func IsLocal(spec string) bool {
	return strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/")
}

// hasSourceSuffix reports whether the path already carries a
// JavaScript-family suffix.
func hasSourceSuffix(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".json":
		return true
	default:
		return false
	}
}

// Candidates returns every resolution candidate for a local specifier,
// relative to the importing file. A specifier with a suffix resolves to
// exactly one candidate. External specifiers return nil.
func Candidates(fromPath, spec string) []string {
	if !IsLocal(spec) {
		return nil
	}

	var base string
	if strings.HasPrefix(spec, "/") {
		base = filepath.Clean(spec)
	} else {
		base = filepath.Clean(filepath.Join(filepath.Dir(fromPath), spec))
	}

	if hasSourceSuffix(base) {
		return []string{base}
	}

	out := make([]string, 0, len(CandidateSuffixes))
	for _, suffix := range CandidateSuffixes {
		out = append(out, base+suffix)
	}
	return out
}

// Resolve returns the head resolution candidate for a local specifier,
// or empty string for an external one. No filesystem checks happen
// here; verification against the scanned set is the assembler's job.
func Resolve(fromPath, spec string) string {
	candidates := Candidates(fromPath, spec)
	if len(candidates) == 0 {
		return ""
	}
	return candidates[0]
}
