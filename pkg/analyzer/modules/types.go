package modules

import "github.com/mthorley/lignin/pkg/parser"

// ImportKind distinguishes how a dependency is declared.
type ImportKind string

const (
	ImportStatic    ImportKind = "static"
	ImportDynamic   ImportKind = "dynamic"
	ImportRequire   ImportKind = "require"
	ImportReExport  ImportKind = "reexport"
	ImportExportAll ImportKind = "exportall"
)

// ExportKind distinguishes export declaration forms.
type ExportKind string

const (
	ExportDefault  ExportKind = "default"
	ExportNamed    ExportKind = "named"
	ExportAll      ExportKind = "all"
	ExportCommonJS ExportKind = "commonjs"
)

// ImportRecord is one import declaration or expression.
type ImportRecord struct {
	// Specifier is the literal module specifier. Empty when a dynamic
	// import or require takes a non-literal argument.
	Specifier string
	// Resolved is the head resolution candidate for local specifiers,
	// chosen without filesystem verification. Empty for external or
	// unresolvable specifiers.
	Resolved string
	Kind     ImportKind
	Dynamic  bool
	// Names are the local bindings introduced; ["*"] marks a
	// side-effect-only import.
	Names []string
	Line  uint32
}

// ExportRecord is one exported slot.
type ExportRecord struct {
	Name string
	Kind ExportKind
	Line uint32
}

// CallRecord is one call reference.
type CallRecord struct {
	Callee string
	Line   uint32
}

// FunctionRecord is one function or method declaration.
type FunctionRecord struct {
	// Name is the qualified name; methods use "Class.method".
	Name      string
	Class     string
	Method    bool
	Async     bool
	Static    bool
	Generator bool
	Params    int
	Line      uint32
}

// ClassRecord is one class declaration.
type ClassRecord struct {
	Name string
	Line uint32
}

// Facts holds everything extracted from a single file. A file that
// fails both grammar attempts produces empty lists and a non-empty
// Error; analysis never raises the failure to the caller.
type Facts struct {
	Path      string
	Grammar   parser.Grammar
	Imports   []ImportRecord
	Exports   []ExportRecord
	Calls     []CallRecord
	Functions []FunctionRecord
	Classes   []ClassRecord
	Error     string
}
