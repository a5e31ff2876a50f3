package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthorley/lignin/pkg/parser"
)

func analyzeSource(t *testing.T, src string) *Facts {
	t.Helper()
	facts := New().Analyze("/proj/src/main.js", []byte(src))
	require.Empty(t, facts.Error)
	return facts
}

func TestAnalyzeStaticImports(t *testing.T) {
	facts := analyzeSource(t, `import def from './a'
import { x, y as z } from './b'
import * as ns from 'lodash'
import './setup'
`)

	require.Len(t, facts.Imports, 4)

	assert.Equal(t, "./a", facts.Imports[0].Specifier)
	assert.Equal(t, ImportStatic, facts.Imports[0].Kind)
	assert.Equal(t, []string{"def"}, facts.Imports[0].Names)
	assert.Equal(t, "/proj/src/a.js", facts.Imports[0].Resolved)
	assert.Equal(t, uint32(1), facts.Imports[0].Line)

	assert.Equal(t, []string{"x", "z"}, facts.Imports[1].Names)

	assert.Equal(t, "lodash", facts.Imports[2].Specifier)
	assert.Equal(t, []string{"ns"}, facts.Imports[2].Names)
	assert.Empty(t, facts.Imports[2].Resolved)

	assert.Equal(t, []string{"*"}, facts.Imports[3].Names)
}

func TestAnalyzeExports(t *testing.T) {
	facts := analyzeSource(t, `export const a = 1, b = 2
export default function main() {}
export { c as d }
export { e } from './other'
export * from './all'
`)

	names := make(map[string]ExportKind)
	for _, exp := range facts.Exports {
		names[exp.Name] = exp.Kind
	}

	assert.Equal(t, ExportNamed, names["a"])
	assert.Equal(t, ExportNamed, names["b"])
	assert.Equal(t, ExportDefault, names["main"])
	assert.Equal(t, ExportNamed, names["d"])
	assert.Equal(t, ExportNamed, names["e"])
	assert.Equal(t, ExportAll, names["*"])

	// Re-export and export-all record import facts too.
	var reexports, exportAlls int
	for _, imp := range facts.Imports {
		switch imp.Kind {
		case ImportReExport:
			reexports++
		case ImportExportAll:
			exportAlls++
		}
	}
	assert.Equal(t, 1, reexports)
	assert.Equal(t, 1, exportAlls)
}

func TestAnalyzeDefaultExpressionExport(t *testing.T) {
	facts := analyzeSource(t, `export default 42
`)
	require.Len(t, facts.Exports, 1)
	assert.Equal(t, "default", facts.Exports[0].Name)
	assert.Equal(t, ExportDefault, facts.Exports[0].Kind)
}

func TestAnalyzeDynamicImports(t *testing.T) {
	facts := analyzeSource(t, `import('./dyn')
import(featurePath)
const fs = require('fs')
require(pluginName)
`)

	require.Len(t, facts.Imports, 4)

	assert.Equal(t, ImportDynamic, facts.Imports[0].Kind)
	assert.True(t, facts.Imports[0].Dynamic)
	assert.Equal(t, "./dyn", facts.Imports[0].Specifier)
	assert.Equal(t, "/proj/src/dyn.js", facts.Imports[0].Resolved)

	assert.True(t, facts.Imports[1].Dynamic)
	assert.Empty(t, facts.Imports[1].Specifier)

	assert.Equal(t, ImportRequire, facts.Imports[2].Kind)
	assert.False(t, facts.Imports[2].Dynamic)
	assert.Equal(t, "fs", facts.Imports[2].Specifier)

	assert.Equal(t, ImportRequire, facts.Imports[3].Kind)
	assert.True(t, facts.Imports[3].Dynamic)
}

func TestAnalyzeCommonJSExports(t *testing.T) {
	facts := analyzeSource(t, `module.exports = {}
module.exports.helper = function () {}
exports.thing = 1
`)

	require.Len(t, facts.Exports, 3)
	assert.Equal(t, "default", facts.Exports[0].Name)
	assert.Equal(t, ExportCommonJS, facts.Exports[0].Kind)
	assert.Equal(t, "helper", facts.Exports[1].Name)
	assert.Equal(t, "thing", facts.Exports[2].Name)
}

func TestAnalyzeFunctionsAndMethods(t *testing.T) {
	facts := analyzeSource(t, `async function go(a, b) {}
function* gen() {}
class Engine {
  start(speed) {}
  static async init() {}
  *steps() {}
}
`)

	require.Len(t, facts.Functions, 5)

	assert.Equal(t, "go", facts.Functions[0].Name)
	assert.True(t, facts.Functions[0].Async)
	assert.Equal(t, 2, facts.Functions[0].Params)

	assert.Equal(t, "gen", facts.Functions[1].Name)
	assert.True(t, facts.Functions[1].Generator)

	assert.Equal(t, "Engine.start", facts.Functions[2].Name)
	assert.Equal(t, "Engine", facts.Functions[2].Class)
	assert.True(t, facts.Functions[2].Method)
	assert.Equal(t, 1, facts.Functions[2].Params)

	assert.Equal(t, "Engine.init", facts.Functions[3].Name)
	assert.True(t, facts.Functions[3].Static)
	assert.True(t, facts.Functions[3].Async)

	assert.Equal(t, "Engine.steps", facts.Functions[4].Name)
	assert.True(t, facts.Functions[4].Generator)

	require.Len(t, facts.Classes, 1)
	assert.Equal(t, "Engine", facts.Classes[0].Name)
	assert.Equal(t, uint32(3), facts.Classes[0].Line)
}

func TestAnalyzeCalls(t *testing.T) {
	facts := analyzeSource(t, `function helper() {}
helper()
other(1, 2)
`)

	callees := make([]string, 0, len(facts.Calls))
	for _, call := range facts.Calls {
		callees = append(callees, call.Callee)
	}
	assert.Contains(t, callees, "helper")
	assert.Contains(t, callees, "other")
}

func TestAnalyzeTypeScriptFallback(t *testing.T) {
	facts := analyzeSource(t, `export function greet(name: string): string {
  return "hi " + name
}
`)

	assert.Equal(t, parser.GrammarTSX, facts.Grammar)
	require.Len(t, facts.Exports, 1)
	assert.Equal(t, "greet", facts.Exports[0].Name)
}

func TestAnalyzeSyntaxError(t *testing.T) {
	facts := New().Analyze("/proj/src/broken.js", []byte("]]]\n"))

	assert.NotEmpty(t, facts.Error)
	assert.Empty(t, facts.Imports)
	assert.Empty(t, facts.Exports)
	assert.Empty(t, facts.Functions)
}

func TestAnalyzeMemoizesPerPath(t *testing.T) {
	a := New()
	first := a.Analyze("/proj/src/once.js", []byte("export const a = 1\n"))
	second := a.Analyze("/proj/src/once.js", []byte("export const different = 2\n"))

	// Same instance, same path: the cached facts are returned even when
	// the content changes.
	assert.Same(t, first, second)

	fresh := New().Analyze("/proj/src/once.js", []byte("export const different = 2\n"))
	assert.NotSame(t, first, fresh)
}
