package symbols

// Category classifies what kind of duplication a group represents.
type Category string

const (
	// CategorySameClassOverload: every occurrence is a method of one class.
	CategorySameClassOverload Category = "same-class-overload"
	// CategoryCrossClass: methods spread across more than one class.
	CategoryCrossClass Category = "cross-class"
	// CategoryCrossFile: bare functions spread across more than one file.
	CategoryCrossFile Category = "cross-file"
	// CategorySameFile: bare functions repeated within one file.
	CategorySameFile Category = "same-file"
	// CategoryMixed: anything else.
	CategoryMixed Category = "mixed"
)

// Occurrence is one function or method sharing a group's bare name.
type Occurrence struct {
	File      string `json:"file" toon:"file"`
	Qualified string `json:"qualified" toon:"qualified"`
	Class     string `json:"class,omitempty" toon:"class,omitempty"`
	Method    bool   `json:"method,omitempty" toon:"method,omitempty"`
	Line      uint32 `json:"line" toon:"line"`
}

// Group is a set of functions sharing a bare name.
type Group struct {
	Name        string       `json:"name" toon:"name"`
	Occurrences []Occurrence `json:"occurrences" toon:"occurrences"`
	Category    Category     `json:"category" toon:"category"`
	Count       int          `json:"count" toon:"count"`
}

// FuzzyMatch is a pair of distinct names with high edit similarity.
type FuzzyMatch struct {
	NameA      string  `json:"nameA" toon:"nameA"`
	NameB      string  `json:"nameB" toon:"nameB"`
	Similarity float64 `json:"similarity" toon:"similarity"`
}

// Analysis is the duplicate-symbol report.
type Analysis struct {
	Groups               []Group      `json:"groups" toon:"groups"`
	FuzzyMatches         []FuzzyMatch `json:"fuzzyMatches,omitempty" toon:"fuzzyMatches,omitempty"`
	TotalFunctions       int          `json:"totalFunctions" toon:"totalFunctions"`
	DuplicateOccurrences int          `json:"duplicateOccurrences" toon:"duplicateOccurrences"`
	RedundancyScore      float64      `json:"redundancyScore" toon:"redundancyScore"`
}
