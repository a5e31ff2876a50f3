// Package symbols finds duplicate and near-duplicate function names across
// an assembled dependency graph.
package symbols

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"

	"github.com/mthorley/lignin/pkg/graph"
)

// DefaultMinGroupSize is the smallest group worth reporting.
const DefaultMinGroupSize = 2

// Finder groups function nodes by bare name and scores redundancy.
type Finder struct {
	minGroupSize   int
	excluded       map[string]bool
	fuzzyThreshold float64
}

// Option configures a Finder.
type Option func(*Finder)

// WithMinGroupSize sets the minimum occurrences for a group to be reported.
func WithMinGroupSize(n int) Option {
	return func(f *Finder) {
		if n > 0 {
			f.minGroupSize = n
		}
	}
}

// WithExcludedNames suppresses the given bare names from grouping and
// fuzzy matching. Typical candidates are constructor and toString.
func WithExcludedNames(names []string) Option {
	return func(f *Finder) {
		for _, n := range names {
			f.excluded[n] = true
		}
	}
}

// WithFuzzyThreshold enables the near-duplicate pass. Pairs with edit
// similarity in [threshold, 1.0) are reported. A threshold outside
// (0, 1) disables the pass.
func WithFuzzyThreshold(threshold float64) Option {
	return func(f *Finder) {
		f.fuzzyThreshold = threshold
	}
}

// New creates a Finder with the given options.
func New(opts ...Option) *Finder {
	f := &Finder{
		minGroupSize: DefaultMinGroupSize,
		excluded:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Analyze inspects every function node in the graph and returns duplicate
// groups, optional fuzzy matches, and a redundancy score.
func (f *Finder) Analyze(g *graph.Graph) *Analysis {
	fns := g.NodesOfKind(graph.KindFunction)

	byName := make(map[string][]Occurrence)
	for _, n := range fns {
		occ := occurrenceOf(n)
		bare := bareName(occ)
		if f.excluded[bare] {
			continue
		}
		byName[bare] = append(byName[bare], occ)
	}

	analysis := &Analysis{TotalFunctions: len(fns)}

	crossClassGroups := 0
	for name, occs := range byName {
		if len(occs) < f.minGroupSize {
			continue
		}
		sort.Slice(occs, func(i, j int) bool {
			if occs[i].File != occs[j].File {
				return occs[i].File < occs[j].File
			}
			return occs[i].Qualified < occs[j].Qualified
		})
		cat := categorize(occs)
		if cat == CategoryCrossClass {
			crossClassGroups++
		}
		analysis.Groups = append(analysis.Groups, Group{
			Name:        name,
			Occurrences: occs,
			Category:    cat,
			Count:       len(occs),
		})
		analysis.DuplicateOccurrences += len(occs)
	}

	sort.Slice(analysis.Groups, func(i, j int) bool {
		if analysis.Groups[i].Count != analysis.Groups[j].Count {
			return analysis.Groups[i].Count > analysis.Groups[j].Count
		}
		return analysis.Groups[i].Name < analysis.Groups[j].Name
	})

	if f.fuzzyThreshold > 0 && f.fuzzyThreshold < 1 {
		analysis.FuzzyMatches = f.fuzzyPass(byName)
	}

	if analysis.TotalFunctions > 0 {
		score := float64(analysis.DuplicateOccurrences+2*crossClassGroups) /
			float64(2*analysis.TotalFunctions)
		analysis.RedundancyScore = math.Min(1, score)
	}

	return analysis
}

// fuzzyPass compares every unordered pair of distinct bare names and keeps
// those whose similarity lands in [threshold, 1.0). Identical names are
// already covered by exact grouping.
func (f *Finder) fuzzyPass(byName map[string][]Occurrence) []FuzzyMatch {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	var matches []FuzzyMatch
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			sim := similarity(names[i], names[j])
			if sim >= f.fuzzyThreshold && sim < 1 {
				matches = append(matches, FuzzyMatch{
					NameA:      names[i],
					NameB:      names[j],
					Similarity: sim,
				})
			}
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		if matches[i].NameA != matches[j].NameA {
			return matches[i].NameA < matches[j].NameA
		}
		return matches[i].NameB < matches[j].NameB
	})
	return matches
}

// similarity is normalized edit distance: (maxLen - dist) / maxLen.
// The distance is computed over runes, so the length must be too.
func similarity(a, b string) float64 {
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.Distance(a, b, nil)
	return float64(maxLen-dist) / float64(maxLen)
}

func occurrenceOf(n *graph.Node) Occurrence {
	occ := Occurrence{Qualified: n.ID}
	if name, ok := n.Attrs[graph.AttrName].(string); ok {
		occ.Qualified = name
	}
	if file, ok := n.Attrs[graph.AttrFile].(string); ok {
		occ.File = file
	}
	if class, ok := n.Attrs[graph.AttrClass].(string); ok {
		occ.Class = class
	}
	if method, ok := n.Attrs[graph.AttrMethod].(bool); ok {
		occ.Method = method
	}
	if line, ok := n.Attrs[graph.AttrLine].(uint32); ok {
		occ.Line = line
	}
	return occ
}

// bareName strips the class qualifier from a method's qualified name.
func bareName(occ Occurrence) string {
	if occ.Class != "" {
		return strings.TrimPrefix(occ.Qualified, occ.Class+".")
	}
	return occ.Qualified
}

// categorize picks the most specific category the group fits, checked in
// priority order.
func categorize(occs []Occurrence) Category {
	classes := make(map[string]bool)
	files := make(map[string]bool)
	methods := 0
	for _, occ := range occs {
		files[occ.File] = true
		if occ.Method {
			methods++
			classes[occ.Class] = true
		}
	}

	switch {
	case methods == len(occs) && len(classes) == 1:
		return CategorySameClassOverload
	case methods == len(occs) && len(classes) > 1:
		return CategoryCrossClass
	case methods == 0 && len(files) > 1:
		return CategoryCrossFile
	case methods == 0 && len(files) == 1:
		return CategorySameFile
	default:
		return CategoryMixed
	}
}
