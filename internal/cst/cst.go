// Package cst adapts a tree-sitter grammar into the small surface the NASL
// extractor and the OpenVAS resolver actually need: parse source text into a
// tree, test a node's kind, fetch named children or a child by field name,
// and slice out the UTF-8 text a node spans. The grammar itself (NASL or C)
// is injected by the caller — this package treats it as a black box, per the
// spec's explicit scoping of grammar implementations as external.
package cst

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/nichtsfrei/nasl-analyzer/internal/position"
)

// Language is the grammar a Parser binds to. It is a thin alias over
// tree-sitter's own type so callers never need to import the sitter package
// directly just to plug in a grammar.
type Language = *sitter.Language

// Parser parses source text written in a single fixed Language into a Tree.
type Parser struct {
	lang   Language
	sitter *sitter.Parser
}

// NewParser builds a Parser bound to lang. lang must not be nil.
func NewParser(lang Language) (*Parser, error) {
	if lang == nil {
		return nil, fmt.Errorf("cst: %w", ErrGrammarUnavailable)
	}
	p := sitter.NewParser()
	p.SetLanguage(lang)
	return &Parser{lang: lang, sitter: p}, nil
}

// Parse produces a Tree for source. It always parses from scratch: no
// previous tree is passed to tree-sitter, so there is no incremental
// reparsing (see Non-goals).
func (p *Parser) Parse(ctx context.Context, source []byte) (*Tree, error) {
	tree, err := p.sitter.ParseCtx(ctx, nil, source)
	if err != nil || tree == nil {
		return nil, fmt.Errorf("cst: %w", ErrParseFailure)
	}
	return &Tree{tree: tree, source: source}, nil
}

// Tree is a parsed syntax tree together with the source it was parsed from
// (node text extraction needs the original bytes; tree-sitter nodes only
// carry byte offsets).
type Tree struct {
	tree   *sitter.Tree
	source []byte
}

// Close releases the underlying tree-sitter tree. Safe to call on a nil
// receiver.
func (t *Tree) Close() {
	if t == nil || t.tree == nil {
		return
	}
	t.tree.Close()
}

// Root returns the tree's root node.
func (t *Tree) Root() Node {
	return Node{node: t.tree.RootNode(), source: t.source}
}

// Source returns the full source text the tree was parsed from.
func (t *Tree) Source() []byte {
	return t.source
}

// Node wraps a single tree-sitter node plus the source buffer needed to
// extract its text.
type Node struct {
	node   *sitter.Node
	source []byte
}

// IsZero reports whether n is the zero Node (e.g. a missing field child).
func (n Node) IsZero() bool {
	return n.node == nil
}

// Kind returns the grammar's node type name, e.g. "function_definition".
func (n Node) Kind() string {
	if n.node == nil {
		return ""
	}
	return n.node.Type()
}

// Text returns the exact UTF-8 byte-range substring of the node. Identifier
// extraction must use this rather than re-tokenizing.
func (n Node) Text() string {
	if n.node == nil {
		return ""
	}
	return string(n.source[n.node.StartByte():n.node.EndByte()])
}

// ByteRange returns the node's [start, end) byte offsets into Source.
func (n Node) ByteRange() (uint32, uint32) {
	if n.node == nil {
		return 0, 0
	}
	return n.node.StartByte(), n.node.EndByte()
}

// StartPosition returns the node's start point as a position.Position.
func (n Node) StartPosition() position.Position {
	if n.node == nil {
		return position.Position{}
	}
	p := n.node.StartPoint()
	return position.New(p.Row, p.Column)
}

// EndPosition returns the node's end point as a position.Position.
func (n Node) EndPosition() position.Position {
	if n.node == nil {
		return position.Position{}
	}
	p := n.node.EndPoint()
	return position.New(p.Row, p.Column)
}

// NamedChildCount returns the number of named children.
func (n Node) NamedChildCount() int {
	if n.node == nil {
		return 0
	}
	return int(n.node.NamedChildCount())
}

// NamedChild returns the i-th named child, or the zero Node if out of range.
func (n Node) NamedChild(i int) Node {
	if n.node == nil {
		return Node{}
	}
	c := n.node.NamedChild(i)
	if c == nil {
		return Node{}
	}
	return Node{node: c, source: n.source}
}

// NamedChildren returns every named child, in source order.
func (n Node) NamedChildren() []Node {
	count := n.NamedChildCount()
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

// ChildByFieldName returns the child bound to the grammar's field name, and
// whether one was present.
func (n Node) ChildByFieldName(name string) (Node, bool) {
	if n.node == nil {
		return Node{}, false
	}
	c := n.node.ChildByFieldName(name)
	if c == nil {
		return Node{}, false
	}
	return Node{node: c, source: n.source}, true
}

// IdentifierAt returns the name of the smallest identifier leaf whose range
// contains pos, descending into whichever single named child's range
// contains pos at each level (a query position can only ever fall inside
// one child's span, so the first match found is the only one).
func (n Node) IdentifierAt(pos position.Position) (string, bool) {
	if n.node == nil {
		return "", false
	}
	r := position.Range{Start: n.StartPosition(), End: n.EndPosition()}
	if !r.Contains(pos) {
		return "", false
	}
	if n.NamedChildCount() == 0 {
		if n.Kind() == "identifier" {
			return n.Text(), true
		}
		return "", false
	}
	for _, child := range n.NamedChildren() {
		if name, ok := child.IdentifierAt(pos); ok {
			return name, true
		}
	}
	return "", false
}

// WithSpan returns a copy of this node's extraction context wrapping a
// different underlying node (used when the extractor needs to build an
// Identifier whose range spans a different node than the one carrying the
// name, e.g. a FunDef spanning the whole function_definition).
func (n Node) WithSpan(other Node) Node {
	return Node{node: other.node, source: n.source}
}
