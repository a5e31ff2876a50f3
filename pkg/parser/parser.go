package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

// Grammar selects which tree-sitter grammar a parse uses.
type Grammar string

const (
	// GrammarJavaScript is the primary grammar for .js/.mjs/.cjs sources.
	GrammarJavaScript Grammar = "javascript"
	// GrammarTSX is the fallback grammar; it also accepts TypeScript
	// and JSX constructs the JavaScript grammar rejects.
	GrammarTSX Grammar = "tsx"
)

// MaxWalkDepth bounds tree traversal. Real-world sources stay far below
// this; the guard exists for pathological machine-generated nesting.
const MaxWalkDepth = 10000

// Parser wraps tree-sitter for JavaScript-family parsing.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed tree and its inputs.
type ParseResult struct {
	Tree    *sitter.Tree
	Grammar Grammar
	Source  []byte
	Path    string
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{
		parser: sitter.NewParser(),
	}
}

// Parse parses source with the given grammar.
func (p *Parser) Parse(source []byte, grammar Grammar, path string) (*ParseResult, error) {
	lang, err := grammarLanguage(grammar)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(lang)
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse: %w", err)
	}

	return &ParseResult{
		Tree:    tree,
		Grammar: grammar,
		Source:  source,
		Path:    path,
	}, nil
}

// HasError reports whether the parse produced any ERROR or missing nodes.
func (r *ParseResult) HasError() bool {
	root := r.Tree.RootNode()
	return root == nil || root.HasError()
}

// FirstErrorLine returns the 1-based line of the first ERROR node, or 0.
func (r *ParseResult) FirstErrorLine() uint32 {
	var line uint32
	Walk(r.Tree.RootNode(), r.Source, func(node *sitter.Node, nodeType string, source []byte) bool {
		if line > 0 {
			return false
		}
		if nodeType == "ERROR" || node.IsMissing() {
			line = node.StartPoint().Row + 1
			return false
		}
		return true
	})
	return line
}

func grammarLanguage(grammar Grammar) (*sitter.Language, error) {
	switch grammar {
	case GrammarJavaScript:
		return javascript.GetLanguage(), nil
	case GrammarTSX:
		return tsx.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("unsupported grammar: %s", grammar)
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// Supported reports whether the file is a JavaScript-family source.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx":
		return true
	default:
		return false
	}
}

// Visitor visits tree nodes with the node type cached to avoid repeated
// CGO calls. Returning false skips the node's children.
type Visitor func(node *sitter.Node, nodeType string, source []byte) bool

// Walk traverses the tree iteratively with an explicit stack, depth-first
// in document order. Depth beyond MaxWalkDepth is not descended into.
func Walk(node *sitter.Node, source []byte, visitor Visitor) {
	if node == nil {
		return
	}

	type frame struct {
		node  *sitter.Node
		depth int
	}
	stack := []frame{{node, 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nodeType := f.node.Type()
		if !visitor(f.node, nodeType, source) {
			continue
		}
		if f.depth >= MaxWalkDepth {
			continue
		}

		// Push children in reverse so they pop in document order.
		for i := int(f.node.ChildCount()) - 1; i >= 0; i-- {
			child := f.node.Child(i)
			if child != nil {
				stack = append(stack, frame{child, f.depth + 1})
			}
		}
	}
}

// GetNodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// Unquote strips matching string delimiters from a literal's text.
func Unquote(s string) string {
	if len(s) >= 2 {
		switch s[0] {
		case '\'', '"', '`':
			if s[len(s)-1] == s[0] {
				return s[1 : len(s)-1]
			}
		}
	}
	return s
}
