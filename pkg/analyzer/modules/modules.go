// Package modules extracts per-file module facts (imports, exports,
// calls, function and class declarations) from JavaScript-family
// sources through tree-sitter syntax analysis.
package modules

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/mthorley/lignin/pkg/parser"
)

// Analyzer extracts module facts. Results are memoized per path for the
// lifetime of the instance; the cache is owned by the value, never
// process-wide. Safe for concurrent use.
type Analyzer struct {
	mu    sync.Mutex
	cache map[string]*Facts
}

// New creates a module analyzer with an empty fact cache.
func New() *Analyzer {
	return &Analyzer{cache: make(map[string]*Facts)}
}

// Analyze extracts facts for one file. It never returns an error: a
// file that fails both grammar attempts yields empty fact lists and a
// captured error message.
func (a *Analyzer) Analyze(path string, content []byte) *Facts {
	a.mu.Lock()
	if facts, ok := a.cache[path]; ok {
		a.mu.Unlock()
		return facts
	}
	a.mu.Unlock()

	facts := analyze(path, content)

	a.mu.Lock()
	a.cache[path] = facts
	a.mu.Unlock()
	return facts
}

// analyze parses with the primary grammar, falling back to the TSX
// grammar when the primary produces errors.
func analyze(path string, content []byte) *Facts {
	facts := &Facts{Path: path}

	psr := parser.New()
	defer psr.Close()

	result, err := psr.Parse(content, parser.GrammarJavaScript, path)
	if err != nil || result.HasError() {
		retry, retryErr := psr.Parse(content, parser.GrammarTSX, path)
		switch {
		case retryErr == nil && !retry.HasError():
			result = retry
		case retryErr != nil:
			facts.Error = retryErr.Error()
			return facts
		default:
			facts.Error = fmt.Sprintf("syntax error near line %d", retry.FirstErrorLine())
			return facts
		}
	}

	facts.Grammar = result.Grammar
	extract(result, facts)
	return facts
}

// extract dispatches over statement and expression node types.
func extract(result *parser.ParseResult, facts *Facts) {
	parser.Walk(result.Tree.RootNode(), result.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		switch nodeType {
		case "import_statement":
			extractImport(node, source, facts)
		case "export_statement":
			extractExport(node, source, facts)
		case "call_expression":
			extractCall(node, source, facts)
		case "assignment_expression":
			extractAssignmentExport(node, source, facts)
		case "function_declaration", "generator_function_declaration":
			extractFunction(node, nodeType, source, facts)
		case "method_definition":
			extractMethod(node, source, facts)
		case "class_declaration":
			if name := fieldText(node, "name", source); name != "" {
				facts.Classes = append(facts.Classes, ClassRecord{
					Name: name,
					Line: line(node),
				})
			}
		}
		return true
	})
}

// extractImport handles static import declarations: default, named,
// namespace, and side-effect-only forms, one record per declaration.
func extractImport(node *sitter.Node, source []byte, facts *Facts) {
	spec := parser.Unquote(fieldText(node, "source", source))
	if spec == "" {
		return
	}

	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			names = append(names, clauseNames(child.Child(j), source)...)
		}
	}
	if len(names) == 0 {
		names = []string{"*"}
	}

	facts.Imports = append(facts.Imports, ImportRecord{
		Specifier: spec,
		Resolved:  Resolve(facts.Path, spec),
		Kind:      ImportStatic,
		Names:     names,
		Line:      line(node),
	})
}

// clauseNames collects the local bindings an import clause introduces.
func clauseNames(node *sitter.Node, source []byte) []string {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "identifier":
		return []string{parser.GetNodeText(node, source)}
	case "namespace_import":
		for i := 0; i < int(node.ChildCount()); i++ {
			if child := node.Child(i); child.Type() == "identifier" {
				return []string{parser.GetNodeText(child, source)}
			}
		}
	case "named_imports":
		var names []string
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Type() != "import_specifier" {
				continue
			}
			local := fieldText(child, "alias", source)
			if local == "" {
				local = fieldText(child, "name", source)
			}
			if local != "" {
				names = append(names, local)
			}
		}
		return names
	}
	return nil
}

// extractExport handles export declarations: named, default, re-export,
// export-all, and exported function/class/variable declarations.
// Re-exports produce combined import and export facts.
func extractExport(node *sitter.Node, source []byte, facts *Facts) {
	ln := line(node)
	spec := parser.Unquote(fieldText(node, "source", source))
	hasStar := false
	hasDefault := false
	var clause *sitter.Node

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "*", "namespace_export":
			hasStar = true
		case "default":
			hasDefault = true
		case "export_clause":
			clause = child
		}
	}

	if spec != "" {
		kind := ImportReExport
		if hasStar {
			kind = ImportExportAll
		}
		facts.Imports = append(facts.Imports, ImportRecord{
			Specifier: spec,
			Resolved:  Resolve(facts.Path, spec),
			Kind:      kind,
			Line:      ln,
		})
		if hasStar {
			facts.Exports = append(facts.Exports, ExportRecord{Name: "*", Kind: ExportAll, Line: ln})
			return
		}
	}

	if clause != nil {
		for i := 0; i < int(clause.ChildCount()); i++ {
			child := clause.Child(i)
			if child.Type() != "export_specifier" {
				continue
			}
			name := fieldText(child, "alias", source)
			if name == "" {
				name = fieldText(child, "name", source)
			}
			if name != "" {
				facts.Exports = append(facts.Exports, ExportRecord{Name: name, Kind: ExportNamed, Line: ln})
			}
		}
		return
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		kind := ExportNamed
		if hasDefault {
			kind = ExportDefault
		}
		for _, name := range declarationNames(decl, source) {
			facts.Exports = append(facts.Exports, ExportRecord{Name: name, Kind: kind, Line: ln})
		}
		return
	}

	if hasDefault {
		facts.Exports = append(facts.Exports, ExportRecord{Name: "default", Kind: ExportDefault, Line: ln})
	}
}

// declarationNames lists the names an exported declaration introduces.
func declarationNames(decl *sitter.Node, source []byte) []string {
	switch decl.Type() {
	case "function_declaration", "generator_function_declaration", "class_declaration":
		if name := fieldText(decl, "name", source); name != "" {
			return []string{name}
		}
		return []string{"default"}
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < int(decl.ChildCount()); i++ {
			child := decl.Child(i)
			if child.Type() != "variable_declarator" {
				continue
			}
			if name := fieldText(child, "name", source); name != "" {
				names = append(names, name)
			}
		}
		return names
	}
	return nil
}

// extractCall handles dynamic import expressions, legacy require calls,
// and plain call references.
func extractCall(node *sitter.Node, source []byte, facts *Facts) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	ln := line(node)

	switch {
	case fn.Type() == "import":
		spec, literal := literalArgument(node, source)
		rec := ImportRecord{Kind: ImportDynamic, Dynamic: true, Line: ln}
		if literal {
			rec.Specifier = spec
			rec.Resolved = Resolve(facts.Path, spec)
		}
		facts.Imports = append(facts.Imports, rec)

	case fn.Type() == "identifier" && parser.GetNodeText(fn, source) == "require":
		spec, literal := literalArgument(node, source)
		rec := ImportRecord{Kind: ImportRequire, Dynamic: !literal, Line: ln}
		if literal {
			rec.Specifier = spec
			rec.Resolved = Resolve(facts.Path, spec)
		}
		facts.Imports = append(facts.Imports, rec)

	default:
		if callee := parser.GetNodeText(fn, source); callee != "" {
			facts.Calls = append(facts.Calls, CallRecord{Callee: callee, Line: ln})
		}
	}
}

// literalArgument returns the first call argument when it is a plain
// string literal.
func literalArgument(call *sitter.Node, source []byte) (string, bool) {
	args := call.ChildByFieldName("arguments")
	if args == nil || args.NamedChildCount() == 0 {
		return "", false
	}
	arg := args.NamedChild(0)
	if arg.Type() != "string" {
		return "", false
	}
	return parser.Unquote(parser.GetNodeText(arg, source)), true
}

// extractAssignmentExport handles legacy CommonJS export assignments:
// whole-module replacement and named-property forms.
func extractAssignmentExport(node *sitter.Node, source []byte, facts *Facts) {
	left := node.ChildByFieldName("left")
	if left == nil || left.Type() != "member_expression" {
		return
	}
	target := parser.GetNodeText(left, source)
	ln := line(node)

	switch {
	case target == "module.exports":
		facts.Exports = append(facts.Exports, ExportRecord{Name: "default", Kind: ExportCommonJS, Line: ln})
	case strings.HasPrefix(target, "module.exports."):
		name := target[len("module.exports."):]
		if isIdentifier(name) {
			facts.Exports = append(facts.Exports, ExportRecord{Name: name, Kind: ExportCommonJS, Line: ln})
		}
	case strings.HasPrefix(target, "exports."):
		name := target[len("exports."):]
		if isIdentifier(name) {
			facts.Exports = append(facts.Exports, ExportRecord{Name: name, Kind: ExportCommonJS, Line: ln})
		}
	}
}

// extractFunction records a top-level or nested function declaration.
func extractFunction(node *sitter.Node, nodeType string, source []byte, facts *Facts) {
	name := fieldText(node, "name", source)
	if name == "" {
		return
	}
	facts.Functions = append(facts.Functions, FunctionRecord{
		Name:      name,
		Async:     hasChildToken(node, "async"),
		Generator: nodeType == "generator_function_declaration",
		Params:    paramCount(node),
		Line:      line(node),
	})
}

// extractMethod records a class method with its enclosing class.
func extractMethod(node *sitter.Node, source []byte, facts *Facts) {
	name := fieldText(node, "name", source)
	if name == "" {
		return
	}

	class := enclosingClassName(node, source)
	qualified := name
	if class != "" {
		qualified = class + "." + name
	}

	facts.Functions = append(facts.Functions, FunctionRecord{
		Name:      qualified,
		Class:     class,
		Method:    true,
		Async:     hasChildToken(node, "async"),
		Static:    hasChildToken(node, "static"),
		Generator: hasChildToken(node, "*"),
		Params:    paramCount(node),
		Line:      line(node),
	})
}

// enclosingClassName walks the parent chain to the nearest class.
func enclosingClassName(node *sitter.Node, source []byte) string {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "class_declaration", "class":
			return fieldText(p, "name", source)
		}
	}
	return ""
}

func paramCount(node *sitter.Node) int {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return 0
	}
	return int(params.NamedChildCount())
}

func hasChildToken(node *sitter.Node, token string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == token {
			return true
		}
	}
	return false
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	return parser.GetNodeText(node.ChildByFieldName(field), source)
}

func line(node *sitter.Node) uint32 {
	return node.StartPoint().Row + 1
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
		default:
			return false
		}
	}
	return true
}
