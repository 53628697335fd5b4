package cst

import (
	"context"
	"testing"

	"github.com/smacker/go-tree-sitter/golang"

	"github.com/nichtsfrei/nasl-analyzer/internal/position"
)

// The adapter is grammar-agnostic; the Go grammar (a real, ecosystem-shipped
// binding) is enough to exercise node-walking behavior without pulling in a
// NASL-specific grammar, which is out of scope per spec.
func TestParserParsesAndWalks(t *testing.T) {
	p, err := NewParser(golang.GetLanguage())
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	src := []byte("package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n")
	tree, err := p.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	root := tree.Root()
	if root.Kind() != "source_file" {
		t.Fatalf("root kind = %q, want source_file", root.Kind())
	}

	var fn Node
	for _, c := range root.NamedChildren() {
		if c.Kind() == "function_declaration" {
			fn = c
		}
	}
	if fn.IsZero() {
		t.Fatal("expected a function_declaration child")
	}
	name, ok := fn.ChildByFieldName("name")
	if !ok || name.Text() != "add" {
		t.Fatalf("function name = %q, ok=%v, want add", name.Text(), ok)
	}
}

func TestIdentifierAtFindsLeafUnderPosition(t *testing.T) {
	p, err := NewParser(golang.GetLanguage())
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	src := []byte("package main\n\nfunc add(a, b int) int {\n\treturn a + b\n}\n")
	tree, err := p.Parse(context.Background(), src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer tree.Close()

	name, ok := tree.Root().IdentifierAt(position.New(3, 8))
	if !ok || name != "a" {
		t.Fatalf("IdentifierAt(3,8) = %q, ok=%v, want \"a\"", name, ok)
	}

	if _, ok := tree.Root().IdentifierAt(position.New(1, 0)); ok {
		t.Fatal("expected no identifier on a blank line")
	}
}

func TestNewParserRejectsNilGrammar(t *testing.T) {
	if _, err := NewParser(nil); err == nil {
		t.Fatal("expected error for nil grammar")
	}
}
