// Package openvas extracts the OpenVAS interpreter's built-in function
// table from its C source so the handler can fall back to it once a NASL
// source tree and its includes are exhausted. It parses a single C
// declaration shape: a static initializer-list array named "libfuncs" whose
// entries are {string_literal, identifier} pairs.
package openvas

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tsc "github.com/smacker/go-tree-sitter/c"

	"github.com/nichtsfrei/nasl-analyzer/internal/cst"
	"github.com/nichtsfrei/nasl-analyzer/internal/symbol"
)

// Builtins holds the synthetic FunDef entries extracted from a single
// nasl_init.c-shaped file.
type Builtins struct {
	Origin string
	Funcs  []symbol.FunDef
}

// Load parses dirOrFile (a C source file, or a directory whose
// "nasl/nasl_init.c" is read) and extracts its libfuncs table.
func Load(ctx context.Context, dirOrFile string) (*Builtins, error) {
	path := dirOrFile
	if filepath.Ext(path) != ".c" {
		path = filepath.Join(path, "nasl", "nasl_init.c")
	}

	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openvas: %w", err)
	}

	p, err := cst.NewParser(tsc.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("openvas: %w", err)
	}
	tree, err := p.Parse(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("openvas: %w", err)
	}
	defer tree.Close()

	var funcs []symbol.FunDef
	for _, child := range tree.Root().NamedChildren() {
		funcs = append(funcs, libfuncsEntries(child)...)
	}
	return &Builtins{Origin: path, Funcs: funcs}, nil
}

// Resolve returns every built-in whose name matches, as go-to-definition
// targets in Origin (always at the start of the string literal naming the
// function; no end position is tracked since the fallback never needs a
// range, only a jump target).
func (b *Builtins) Resolve(name string) []symbol.Identifier {
	var out []symbol.Identifier
	for _, fn := range b.Funcs {
		if fn.ID.Matches(name) {
			out = append(out, fn.ID)
		}
	}
	return out
}

// libfuncsEntries matches a single top-level "declaration" node against the
// shape:
//
//	static init_func libfuncs[] = { {"name", name_internal}, ... };
//
// i.e. declaration -> init_declarator -> declarator -> declarator (an
// identifier "libfuncs"), with the init_declarator's "value" field holding
// the initializer_list whose own named children are nested
// {string_literal, identifier} initializer_lists.
func libfuncsEntries(n cst.Node) []symbol.FunDef {
	if n.Kind() != "declaration" {
		return nil
	}
	declarator, ok := n.ChildByFieldName("declarator")
	if !ok || declarator.Kind() != "init_declarator" {
		return nil
	}
	if !namesLibfuncs(declarator) {
		return nil
	}
	value, ok := declarator.ChildByFieldName("value")
	if !ok || value.Kind() != "initializer_list" {
		return nil
	}

	var out []symbol.FunDef
	for _, entry := range value.NamedChildren() {
		if entry.Kind() != "initializer_list" {
			continue
		}
		if fn, ok := funcEntry(entry); ok {
			out = append(out, fn)
		}
	}
	return out
}

func namesLibfuncs(initDeclarator cst.Node) bool {
	inner, ok := initDeclarator.ChildByFieldName("declarator")
	if !ok {
		return false
	}
	name, ok := inner.ChildByFieldName("declarator")
	if !ok {
		name = inner
	}
	return name.Kind() == "identifier" && name.Text() == "libfuncs"
}

func funcEntry(entry cst.Node) (symbol.FunDef, bool) {
	if entry.NamedChildCount() < 2 {
		return symbol.FunDef{}, false
	}
	lit := entry.NamedChild(0)
	id := entry.NamedChild(1)
	if lit.Kind() != "string_literal" || id.Kind() != "identifier" {
		return symbol.FunDef{}, false
	}
	name := unquote(lit.Text())
	return symbol.FunDef{ID: symbol.NewIdentifier(lit.StartPosition(), lit.StartPosition(), name)}, true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
