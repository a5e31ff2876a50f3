package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocal(t *testing.T) {
	assert.True(t, IsLocal("./a"))
	assert.True(t, IsLocal("../lib/util"))
	assert.True(t, IsLocal("/abs/path"))
	assert.False(t, IsLocal("lodash"))
	assert.False(t, IsLocal("@scope/pkg"))
}

func TestCandidatesExternal(t *testing.T) {
	assert.Nil(t, Candidates("/proj/src/main.js", "react"))
	assert.Empty(t, Resolve("/proj/src/main.js", "react"))
}

func TestCandidatesSuffixed(t *testing.T) {
	got := Candidates("/proj/src/main.js", "./util.mjs")
	assert.Equal(t, []string{"/proj/src/util.mjs"}, got)
}

func TestCandidatesUnsuffixed(t *testing.T) {
	got := Candidates("/proj/src/main.js", "../lib/util")
	assert.Equal(t, []string{
		"/proj/lib/util.js",
		"/proj/lib/util.jsx",
		"/proj/lib/util.mjs",
		"/proj/lib/util.cjs",
		"/proj/lib/util.ts",
		"/proj/lib/util.tsx",
		"/proj/lib/util/index.js",
		"/proj/lib/util/index.ts",
	}, got)

	assert.Equal(t, "/proj/lib/util.js", Resolve("/proj/src/main.js", "../lib/util"))
}

func TestCandidatesAbsoluteSpecifier(t *testing.T) {
	got := Candidates("/proj/src/main.js", "/proj/shared/core.ts")
	assert.Equal(t, []string{"/proj/shared/core.ts"}, got)
}
