package graph

// Kind classifies a graph node.
type Kind string

const (
	KindFile     Kind = "file"
	KindModule   Kind = "module"
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindExport   Kind = "export"
)

// String returns the string representation.
func (k Kind) String() string {
	return string(k)
}

// Predicate classifies a graph edge.
type Predicate string

const (
	PredImports    Predicate = "imports"
	PredExports    Predicate = "exports"
	PredCalls      Predicate = "calls"
	PredReferences Predicate = "references"
)

// String returns the string representation.
func (p Predicate) String() string {
	return string(p)
}

// Well-known node attribute keys.
const (
	AttrName       = "name"
	AttrEntryPoint = "entrypoint"
	AttrExternal   = "external"
	AttrMissing    = "missing"
	AttrParseError = "parseError"
	AttrSize       = "size"
	AttrLOC        = "loc"
	AttrModTime    = "modified"
	AttrLine       = "line"
	AttrFile       = "file"
	AttrClass      = "class"
	AttrMethod     = "method"
	AttrAsync      = "async"
	AttrStatic     = "static"
	AttrGenerator  = "generator"
	AttrParams     = "params"
	AttrExportKind = "exportKind"
)

// Node is a graph node with a canonical id and an open attribute map.
// File nodes use file:// URIs, external modules use their bare
// specifier, and symbols use "<file-uri>#<qualified-name>".
type Node struct {
	ID    string
	Kind  Kind
	Attrs map[string]any
}

// Edge is a (subject, predicate, object) triple. The same triple may
// appear more than once when recorded at different source lines.
type Edge struct {
	From      string
	Predicate Predicate
	To        string
}

// Stats summarizes a full scan of the graph.
type Stats struct {
	TotalNodes       int               `json:"totalNodes" toon:"totalNodes"`
	TotalEdges       int               `json:"totalEdges" toon:"totalEdges"`
	NodesByKind      map[string]int    `json:"nodesByKind" toon:"nodesByKind"`
	EdgesByPredicate map[string]int    `json:"edgesByPredicate" toon:"edgesByPredicate"`
	EntryPoints      int               `json:"entryPoints" toon:"entryPoints"`
	ExternalModules  int               `json:"externalModules" toon:"externalModules"`
	MissingFiles     int               `json:"missingFiles" toon:"missingFiles"`
	ParseErrors      int               `json:"parseErrors" toon:"parseErrors"`
	CyclicGroups     int               `json:"cyclicGroups" toon:"cyclicGroups"`
	IsCyclic         bool              `json:"isCyclic" toon:"isCyclic"`
}
