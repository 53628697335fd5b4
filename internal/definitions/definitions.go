// Package definitions builds and resolves the Definitions index produced by
// extracting a single NASL source file (or nested block): an ordered list of
// Jumpables plus the derived list of include(...) targets, together with the
// resolve/calls operations the handler and include loader need.
package definitions

import (
	"github.com/nichtsfrei/nasl-analyzer/internal/cst"
	"github.com/nichtsfrei/nasl-analyzer/internal/nasl"
	"github.com/nichtsfrei/nasl-analyzer/internal/symbol"
)

// Definitions holds everything extracted from one file or nested block:
// origin is the source file path, Jumps preserves source order, and
// Includes is the string-literal argument names of every Call whose callee
// is exactly "include".
type Definitions struct {
	Origin   string
	Jumps    []symbol.Jumpable
	Includes []string
}

// New extracts a Definitions for node (a source_file root, or a
// compound_statement when building a nested Block's inner scope) belonging
// to origin.
func New(origin string, node cst.Node) *Definitions {
	jumps := nasl.Extract(origin, node, newScope)
	return &Definitions{
		Origin:   origin,
		Jumps:    jumps,
		Includes: includesOf(jumps),
	}
}

// newScope adapts New to nasl.ScopeBuilder so the extractor can build a
// Block's inner Definitions without importing this package.
func newScope(origin string, node cst.Node) symbol.DefinitionsProvider {
	return New(origin, node)
}

func includesOf(jumps []symbol.Jumpable) []string {
	var out []string
	for _, call := range findCalls(jumps, "include") {
		for _, a := range call.Args {
			if lit, ok := a.(symbol.StringLiteral); ok {
				out = append(out, lit.Text())
			}
		}
	}
	return out
}

// Call pairs a call-site identifier with its arguments, as streamed by
// Calls.
type Call struct {
	ID   symbol.Identifier
	Args []symbol.Argument
}

// Calls streams every Call jumpable whose callee name equals name, in
// source order.
func (d *Definitions) Calls(name string) []Call {
	return findCalls(d.Jumps, name)
}

// findCalls is a helper shared by Calls and includesOf.
func findCalls(jumps []symbol.Jumpable, name string) []Call {
	var out []Call
	for _, j := range jumps {
		c, ok := j.(symbol.Call)
		if !ok || !c.ID.Matches(name) {
			continue
		}
		out = append(out, Call{ID: c.ID, Args: c.Args})
	}
	return out
}

// Resolve returns every Identifier this Definitions (and, for in-range
// Blocks, its nested scopes) contributes for sp, in source order, per the
// resolution table:
//
//   - Block: descended into only if sp.Origin matches and sp.Pos lies
//     within the block's range.
//   - FunDef/IfDef: the spanning identifier always contributes if its name
//     matches sp.Name (global visibility of the definition itself);
//     additionally, if sp.Origin matches and sp.Pos lies within the
//     spanning range, every parameter/binding whose name matches sp.Name
//     also contributes.
//   - Assign: contributes whenever its name matches sp.Name, regardless of
//     position (NASL has no block scoping for plain assignments).
//   - Call: never contributes.
func (d *Definitions) Resolve(sp symbol.SearchParameter) []symbol.Identifier {
	var out []symbol.Identifier
	for _, j := range d.Jumps {
		switch v := j.(type) {
		case symbol.Block:
			if d.Origin == sp.Origin && v.ID.Range().Contains(sp.Pos) {
				out = append(out, v.Inner.Resolve(sp)...)
			}
		case symbol.FunDef:
			out = append(out, verifyScoped(d.Origin, v.ID, v.Params, sp)...)
		case symbol.IfDef:
			out = append(out, verifyScoped(d.Origin, v.ID, v.Bindings, sp)...)
		case symbol.Assign:
			if v.ID.Matches(sp.Name) {
				out = append(out, v.ID)
			}
		case symbol.Call:
			// never contributes
		}
	}
	return out
}

// verifyScoped implements the shared FunDef/IfDef rule: the spanning id
// always contributes by name; the scoped identifiers (params or bindings)
// contribute only when the query position is inside id's range in the same
// file.
func verifyScoped(origin string, id symbol.Identifier, scoped []symbol.Identifier, sp symbol.SearchParameter) []symbol.Identifier {
	var out []symbol.Identifier
	if id.Matches(sp.Name) {
		out = append(out, id)
	}
	if origin == sp.Origin && id.Range().Contains(sp.Pos) {
		for _, s := range scoped {
			if s.Matches(sp.Name) {
				out = append(out, s)
			}
		}
	}
	return out
}
