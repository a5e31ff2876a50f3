package reachability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mthorley/lignin/pkg/graph"
)

func file(g *graph.Graph, id string) {
	g.RegisterFile(id, map[string]any{graph.AttrName: id})
}

func imports(g *graph.Graph, from, to string) {
	g.AddEdge(graph.PredImports, from, to)
}

func TestDetectChainFromEntry(t *testing.T) {
	g := graph.New()
	file(g, "file:///main.js")
	file(g, "file:///used.js")
	file(g, "file:///orphan.js")
	imports(g, "file:///main.js", "file:///used.js")
	g.SetFlag("file:///main.js", graph.AttrEntryPoint)

	result := New(g).Detect()

	assert.Equal(t, []string{"file:///main.js", "file:///used.js"}, result.ReachableFiles)
	require.Len(t, result.DeadFiles, 1)
	assert.Equal(t, "file:///orphan.js", result.DeadFiles[0].ID)
	assert.Equal(t, 3, result.Summary.TotalFiles)
	assert.Equal(t, 2, result.Summary.ReachableCount)
	assert.Equal(t, 1, result.Summary.DeadCount)
	assert.Equal(t, 67, result.Summary.Percentage)
	assert.Empty(t, result.Warning)
}

func TestDetectCycleTerminates(t *testing.T) {
	g := graph.New()
	file(g, "file:///a.js")
	file(g, "file:///b.js")
	imports(g, "file:///a.js", "file:///b.js")
	imports(g, "file:///b.js", "file:///a.js")
	g.SetFlag("file:///a.js", graph.AttrEntryPoint)

	result := New(g).Detect()

	assert.Len(t, result.ReachableFiles, 2)
	assert.Empty(t, result.DeadFiles)
	assert.Equal(t, 100, result.Summary.Percentage)
}

func TestDetectNeverCrossesExternalModules(t *testing.T) {
	g := graph.New()
	file(g, "file:///main.js")
	file(g, "file:///other.js")
	g.RegisterModule("shared-lib", map[string]any{graph.AttrExternal: true})
	imports(g, "file:///main.js", "shared-lib")
	// Even if an external module somehow carried an import edge, the
	// traversal must not continue through it.
	imports(g, "shared-lib", "file:///other.js")
	g.SetFlag("file:///main.js", graph.AttrEntryPoint)

	result := New(g).Detect()

	assert.Equal(t, []string{"file:///main.js"}, result.ReachableFiles)
	require.Len(t, result.DeadFiles, 1)
	assert.Equal(t, "file:///other.js", result.DeadFiles[0].ID)
}

func TestDetectNoEntryPoints(t *testing.T) {
	g := graph.New()
	file(g, "file:///a.js")
	file(g, "file:///b.js")
	imports(g, "file:///a.js", "file:///b.js")

	result := New(g).Detect()

	assert.NotEmpty(t, result.Warning)
	assert.Empty(t, result.ReachableFiles)
	assert.Len(t, result.DeadFiles, 2)
	assert.Zero(t, result.Summary.Percentage)
}

func TestDetectPartitionsFiles(t *testing.T) {
	g := graph.New()
	ids := []string{"file:///a.js", "file:///b.js", "file:///c.js", "file:///d.js"}
	for _, id := range ids {
		file(g, id)
	}
	imports(g, "file:///a.js", "file:///b.js")
	imports(g, "file:///c.js", "file:///d.js")
	g.SetFlag("file:///a.js", graph.AttrEntryPoint)

	result := New(g).Detect()

	assert.Equal(t, len(ids), len(result.ReachableFiles)+len(result.DeadFiles))
	seen := make(map[string]bool)
	for _, id := range result.ReachableFiles {
		seen[id] = true
	}
	for _, df := range result.DeadFiles {
		assert.False(t, seen[df.ID], "file classified both reachable and dead: %s", df.ID)
	}
}

func TestDetectIdempotent(t *testing.T) {
	g := graph.New()
	file(g, "file:///a.js")
	file(g, "file:///b.js")
	imports(g, "file:///a.js", "file:///b.js")
	g.SetFlag("file:///a.js", graph.AttrEntryPoint)

	engine := New(g)
	first := engine.Detect()
	second := engine.Detect()

	assert.Equal(t, first, second)
}

func TestDeadExportsFileLevel(t *testing.T) {
	g := graph.New()
	file(g, "file:///main.js")
	file(g, "file:///used.js")
	file(g, "file:///unused.js")
	imports(g, "file:///main.js", "file:///used.js")
	g.SetFlag("file:///main.js", graph.AttrEntryPoint)

	g.RegisterExport("file:///used.js#helper", map[string]any{
		graph.AttrName: "helper",
		graph.AttrLine: uint32(3),
	})
	g.AddEdge(graph.PredExports, "file:///used.js", "file:///used.js#helper")

	g.RegisterExport("file:///unused.js#lost", map[string]any{
		graph.AttrName: "lost",
		graph.AttrLine: uint32(7),
	})
	g.AddEdge(graph.PredExports, "file:///unused.js", "file:///unused.js#lost")

	result := New(g).Detect()

	require.Len(t, result.DeadExports, 1)
	assert.Equal(t, "file:///unused.js", result.DeadExports[0].File)
	assert.Equal(t, "lost", result.DeadExports[0].Name)
	assert.Equal(t, uint32(7), result.DeadExports[0].Line)
}

func TestDeadExportsSelfImportDoesNotCount(t *testing.T) {
	g := graph.New()
	file(g, "file:///loop.js")
	imports(g, "file:///loop.js", "file:///loop.js")
	g.RegisterExport("file:///loop.js#x", map[string]any{graph.AttrName: "x"})
	g.AddEdge(graph.PredExports, "file:///loop.js", "file:///loop.js#x")
	g.SetFlag("file:///loop.js", graph.AttrEntryPoint)

	result := New(g).Detect()

	require.Len(t, result.DeadExports, 1)
	assert.Equal(t, "x", result.DeadExports[0].Name)
}

func TestPathShortest(t *testing.T) {
	g := graph.New()
	for _, id := range []string{"file:///entry.js", "file:///mid.js", "file:///deep.js"} {
		file(g, id)
	}
	imports(g, "file:///entry.js", "file:///mid.js")
	imports(g, "file:///mid.js", "file:///deep.js")
	imports(g, "file:///entry.js", "file:///deep.js")
	g.SetFlag("file:///entry.js", graph.AttrEntryPoint)

	path := New(g).Path("file:///deep.js")
	assert.Equal(t, []string{"file:///entry.js", "file:///deep.js"}, path)
}

func TestPathUnreachable(t *testing.T) {
	g := graph.New()
	file(g, "file:///entry.js")
	file(g, "file:///island.js")
	g.SetFlag("file:///entry.js", graph.AttrEntryPoint)

	assert.Nil(t, New(g).Path("file:///island.js"))
}

func TestPathToEntryItself(t *testing.T) {
	g := graph.New()
	file(g, "file:///entry.js")
	g.SetFlag("file:///entry.js", graph.AttrEntryPoint)

	assert.Equal(t, []string{"file:///entry.js"}, New(g).Path("file:///entry.js"))
}
