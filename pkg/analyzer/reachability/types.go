package reachability

// DeadFile is a file no entry point reaches.
type DeadFile struct {
	ID     string `json:"id" toon:"id"`
	Reason string `json:"reason" toon:"reason"`
}

// DeadExport is an export slot belonging to a file that no other
// scanned file imports.
type DeadExport struct {
	File string `json:"file" toon:"file"`
	Name string `json:"name" toon:"name"`
	Line uint32 `json:"line,omitempty" toon:"line,omitempty"`
}

// Summary aggregates a detection run.
type Summary struct {
	TotalFiles     int `json:"totalFiles" toon:"totalFiles"`
	ReachableCount int `json:"reachableFiles" toon:"reachableFiles"`
	DeadCount      int `json:"deadFiles" toon:"deadFiles"`
	DeadExports    int `json:"deadExports" toon:"deadExports"`
	// Percentage is round(100 * reachable / total), 0 with no files.
	Percentage int `json:"reachabilityPercentage" toon:"reachabilityPercentage"`
}

// Result is the outcome of one reachability run.
type Result struct {
	ReachableFiles []string     `json:"reachableFiles" toon:"reachableFiles"`
	DeadFiles      []DeadFile   `json:"deadFiles" toon:"deadFiles"`
	DeadExports    []DeadExport `json:"deadExports" toon:"deadExports"`
	Summary        Summary      `json:"stats" toon:"stats"`
	Warning        string       `json:"warning,omitempty" toon:"warning,omitempty"`
}
