package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), []byte(content), 0o644))
	return root
}

func TestEntriesMainAndModule(t *testing.T) {
	root := writeManifest(t, `{"main": "./lib/index.js", "module": "./lib/index.mjs"}`)
	assert.Equal(t, []string{"./lib/index.js", "./lib/index.mjs"}, Entries(root))
}

func TestEntriesBinString(t *testing.T) {
	root := writeManifest(t, `{"bin": "./cli.js"}`)
	assert.Equal(t, []string{"./cli.js"}, Entries(root))
}

func TestEntriesBinMap(t *testing.T) {
	root := writeManifest(t, `{"bin": {"tool-b": "./b.js", "tool-a": "./a.js"}}`)
	assert.Equal(t, []string{"./a.js", "./b.js"}, Entries(root))
}

func TestEntriesNestedExports(t *testing.T) {
	root := writeManifest(t, `{
		"exports": {
			".": {"import": "./esm/index.js", "require": "./cjs/index.js"},
			"./feature": "./esm/feature.js"
		}
	}`)
	assert.Equal(t, []string{"./esm/index.js", "./cjs/index.js", "./esm/feature.js"}, Entries(root))
}

func TestEntriesDeduplicates(t *testing.T) {
	root := writeManifest(t, `{"main": "./index.js", "exports": {".": "./index.js"}}`)
	assert.Equal(t, []string{"./index.js"}, Entries(root))
}

func TestEntriesMissingManifest(t *testing.T) {
	assert.Nil(t, Entries(t.TempDir()))
}

func TestEntriesMalformedManifest(t *testing.T) {
	root := writeManifest(t, `{not json`)
	assert.Nil(t, Entries(root))
}

func TestEntriesNonStringLeavesIgnored(t *testing.T) {
	root := writeManifest(t, `{"exports": {"a": ["./x.js"], "b": "./y.js"}}`)
	assert.Equal(t, []string{"./y.js"}, Entries(root))
}
