package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("json"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatMarkdown, ParseFormat("markdown"))
	assert.Equal(t, FormatMarkdown, ParseFormat("md"))
	assert.Equal(t, FormatTOON, ParseFormat("toon"))
	assert.Equal(t, FormatText, ParseFormat("text"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("bogus"))
}

func TestFormatterWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	f, err := NewFormatter(FormatJSON, path, true)
	require.NoError(t, err)

	require.NoError(t, f.Output(map[string]int{"count": 3}))
	require.NoError(t, f.Close())

	// Writing to a file disables color.
	assert.False(t, f.Colored())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 3, decoded["count"])
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Files", []string{"Path", "LOC"}, [][]string{
		{"a.js", "10"},
		{"b.js", "20"},
	}, []string{"Total", "30"}, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "## Files")
	assert.Contains(t, out, "| Path | LOC |")
	assert.Contains(t, out, "| --- | --- |")
	assert.Contains(t, out, "| a.js | 10 |")
	assert.Contains(t, out, "| Total | 30 |")
}

func TestTableRenderText(t *testing.T) {
	table := NewTable("Files", []string{"Path"}, [][]string{{"a.js"}}, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Files")
	assert.Contains(t, out, "a.js")
}

func TestTableRenderDataPrefersWrappedValue(t *testing.T) {
	payload := map[string]string{"k": "v"}
	table := NewTable("T", []string{"H"}, [][]string{{"x"}}, nil, payload)
	assert.Equal(t, payload, table.RenderData())
}

func TestTableRenderDataFromRows(t *testing.T) {
	table := NewTable("T", []string{"Name", "Count"}, [][]string{{"a", "1"}}, nil, nil)
	rows, ok := table.RenderData().([]map[string]string)
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0]["Name"])
	assert.Equal(t, "1", rows[0]["Count"])
}

func TestSectionRenderText(t *testing.T) {
	section := &Section{
		Title:   "Summary",
		Content: "all good",
		Sections: []Section{
			{Title: "Details", Content: "nothing to report"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, section.RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Summary\n=======")
	assert.Contains(t, out, "Details\n-------")
	assert.Contains(t, out, "all good")
}

func TestSectionRenderMarkdownNesting(t *testing.T) {
	section := &Section{
		Title: "Top",
		Sections: []Section{
			{Title: "Nested"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, section.RenderMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "## Top")
	assert.Contains(t, out, "### Nested")
}

func TestOutputTOON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toon")
	f, err := NewFormatter(FormatTOON, path, false)
	require.NoError(t, err)

	type payload struct {
		Name string `toon:"name"`
	}
	require.NoError(t, f.Output(payload{Name: "lignin"}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "lignin"))
}

func TestReportRenderText(t *testing.T) {
	report := &Report{
		Title: "Analysis",
		Sections: []Renderable{
			NewTable("Findings", []string{"Name"}, [][]string{{"helper"}}, nil, nil),
			&Section{Title: "Summary", Content: "1 finding"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.RenderText(&buf, false))

	out := buf.String()
	assert.Contains(t, out, "Analysis\n========")
	assert.Contains(t, out, "helper")
	assert.Contains(t, out, "1 finding")
}

func TestReportRenderMarkdown(t *testing.T) {
	report := &Report{
		Title: "Analysis",
		Sections: []Renderable{
			&Section{Title: "Summary", Content: "done"},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, report.RenderMarkdown(&buf))

	out := buf.String()
	assert.Contains(t, out, "# Analysis")
	assert.Contains(t, out, "## Summary")
}

func TestReportRenderDataWrapsSections(t *testing.T) {
	report := &Report{
		Title: "Analysis",
		Sections: []Renderable{
			&Section{Data: map[string]int{"count": 2}},
		},
	}

	data, ok := report.RenderData().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Analysis", data["title"])
	assert.Len(t, data["sections"], 1)
}

func TestMessageHelpersUncolored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	f, err := NewFormatter(FormatText, path, true)
	require.NoError(t, err)

	// Writing to a file disables color, so helpers go to the file.
	f.Warning("missing %d entries", 2)
	f.Error("bad input")
	f.Info("scanning")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "WARNING: missing 2 entries")
	assert.Contains(t, out, "ERROR: bad input")
	assert.Contains(t, out, "scanning")
}
