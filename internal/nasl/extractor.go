// Package nasl walks a NASL concrete syntax tree and emits the flat ordered
// list of Jumpables a source file or nested block contributes, following the
// node-kind rules set out in the spec: function_definition, compound_statement,
// expression_statement, assignment_expression, call_expression, and
// if_statement are the only node kinds that produce anything; everything
// else is ignored.
package nasl

import (
	"github.com/nichtsfrei/nasl-analyzer/internal/cst"
	"github.com/nichtsfrei/nasl-analyzer/internal/symbol"
)

// ScopeBuilder constructs the DefinitionsProvider backing a nested Block.
// It is injected rather than imported directly so this package never
// depends on internal/definitions (which depends on this package to do its
// own extraction) — the caller (internal/definitions) passes itself in.
type ScopeBuilder func(origin string, node cst.Node) symbol.DefinitionsProvider

// Extract walks every named child of root and returns the ordered Jumpables
// it and its descendants contribute, per the spec's node-kind table. root is
// typically a source_file (top-level extraction) or a compound_statement
// (when called recursively to build a Block's inner scope).
func Extract(origin string, root cst.Node, newScope ScopeBuilder) []symbol.Jumpable {
	var out []symbol.Jumpable
	for _, child := range root.NamedChildren() {
		out = append(out, extractNode(origin, child, newScope)...)
	}
	return out
}

func extractNode(origin string, n cst.Node, newScope ScopeBuilder) []symbol.Jumpable {
	switch n.Kind() {
	case "function_definition":
		return functionDefinition(origin, n, newScope)
	case "compound_statement":
		return []symbol.Jumpable{block(origin, n, newScope)}
	case "expression_statement":
		return expressionStatement(n)
	case "if_statement":
		return ifStatement(origin, n, newScope)
	default:
		return nil
	}
}

// functionDefinition handles spec §4.2's function_definition rule: the
// FunDef spans the whole function_definition node (not just the
// declarator), and the function body still gets its own Block so nested
// symbols stay discoverable.
func functionDefinition(origin string, n cst.Node, newScope ScopeBuilder) []symbol.Jumpable {
	var out []symbol.Jumpable

	declarator, ok := n.ChildByFieldName("declarator")
	if ok && declarator.Kind() == "function_declarator" {
		if fd, ok := functionDeclarator(n, declarator); ok {
			out = append(out, fd)
		}
	}

	if body, ok := n.ChildByFieldName("body"); ok && body.Kind() == "compound_statement" {
		out = append(out, block(origin, body, newScope))
	} else {
		// Grammars that don't expose a "body" field still nest a
		// compound_statement among the function's named children.
		for _, child := range n.NamedChildren() {
			if child.Kind() == "compound_statement" {
				out = append(out, block(origin, child, newScope))
			}
		}
	}

	return out
}

func functionDeclarator(spanningNode, declarator cst.Node) (symbol.Jumpable, bool) {
	nameNode, ok := declarator.ChildByFieldName("declarator")
	if !ok || nameNode.Kind() != "identifier" {
		return nil, false
	}

	var params []symbol.Identifier
	if paramList, ok := declarator.ChildByFieldName("parameters"); ok {
		params = parameterList(paramList)
	}

	id := symbol.NewIdentifier(spanningNode.StartPosition(), spanningNode.EndPosition(), nameNode.Text())
	return symbol.FunDef{ID: id, Params: params}, true
}

func parameterList(n cst.Node) []symbol.Identifier {
	var out []symbol.Identifier
	for _, child := range n.NamedChildren() {
		if child.Kind() == "identifier" {
			out = append(out, identifierOf(child))
		}
	}
	return out
}

func identifierOf(n cst.Node) symbol.Identifier {
	return symbol.NewIdentifier(n.StartPosition(), n.EndPosition(), n.Text())
}

// block wraps a compound_statement in an anonymous Block Jumpable, building
// its inner scope via the injected ScopeBuilder.
func block(origin string, n cst.Node, newScope ScopeBuilder) symbol.Jumpable {
	id := symbol.NewAnonymous(n.StartPosition(), n.EndPosition())
	return symbol.Block{ID: id, Inner: newScope(origin, n)}
}

func expressionStatement(n cst.Node) []symbol.Jumpable {
	var out []symbol.Jumpable
	for _, child := range n.NamedChildren() {
		switch child.Kind() {
		case "assignment_expression":
			if a, ok := assignmentExpression(child); ok {
				out = append(out, a)
			}
		case "call_expression":
			if c, ok := callExpression(child); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func assignmentExpression(n cst.Node) (symbol.Jumpable, bool) {
	left, ok := n.ChildByFieldName("left")
	if !ok || left.Kind() != "identifier" {
		return nil, false
	}
	return symbol.Assign{ID: identifierOf(left)}, true
}

func callExpression(n cst.Node) (symbol.Jumpable, bool) {
	fn, ok := n.ChildByFieldName("function")
	if !ok || fn.Kind() != "identifier" {
		return nil, false
	}
	callee := identifierOf(fn)

	var args []symbol.Argument
	if argList, ok := n.ChildByFieldName("arguments"); ok {
		args = argumentList(argList)
	}
	return symbol.Call{ID: callee, Args: args}, true
}

func argumentList(n cst.Node) []symbol.Argument {
	var out []symbol.Argument
	for _, child := range n.NamedChildren() {
		if child.Kind() != "string_literal" {
			continue
		}
		if lit, ok := stringLiteral(child); ok {
			out = append(out, lit)
		}
	}
	return out
}

func stringLiteral(n cst.Node) (symbol.Argument, bool) {
	// Most grammars split a string literal into named content tokens
	// (NASL/C: string_fragment); grammars that emit the quoted literal as a
	// single flat token instead fall back to the literal node itself, with
	// its surrounding quotes trimmed.
	for _, fragment := range n.NamedChildren() {
		if fragment.Kind() == "string_fragment" || fragment.Kind() == "string_content" {
			return symbol.StringLiteral{Identifier: identifierOf(fragment)}, true
		}
	}
	text := n.Text()
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		id := symbol.NewIdentifier(n.StartPosition(), n.EndPosition(), text[1:len(text)-1])
		return symbol.StringLiteral{Identifier: id}, true
	}
	return nil, false
}

// ifStatement handles spec §4.2's if_statement rule: the IfDef spans the
// whole if_statement (including any alternative chain) and binds every
// assignment-left identifier found inside the condition; the consequence and
// a chained alternative are then recursed into independently.
func ifStatement(origin string, n cst.Node, newScope ScopeBuilder) []symbol.Jumpable {
	var out []symbol.Jumpable

	if cond, ok := n.ChildByFieldName("condition"); ok {
		bindings := conditionBindings(cond)
		id := symbol.NewAnonymous(n.StartPosition(), n.EndPosition())
		out = append(out, symbol.IfDef{ID: id, Bindings: bindings})
	}

	if cons, ok := n.ChildByFieldName("consequence"); ok {
		out = append(out, branchBody(origin, cons, newScope)...)
	}

	if alt, ok := n.ChildByFieldName("alternative"); ok {
		switch alt.Kind() {
		case "if_statement":
			out = append(out, ifStatement(origin, alt, newScope)...)
		default:
			out = append(out, branchBody(origin, alt, newScope)...)
		}
	}

	return out
}

// branchBody handles a consequence/alternative that may itself be a
// compound_statement or an expression_statement directly (NASL's if bodies
// are not required to be braced).
func branchBody(origin string, n cst.Node, newScope ScopeBuilder) []symbol.Jumpable {
	switch n.Kind() {
	case "compound_statement":
		return []symbol.Jumpable{block(origin, n, newScope)}
	case "expression_statement":
		return expressionStatement(n)
	default:
		return nil
	}
}

// conditionBindings recursively unwraps parenthesized_expression,
// binary_expression, and assignment_expression nodes inside an if
// condition, collecting every assignment-left identifier found along the
// way, in source order.
func conditionBindings(n cst.Node) []symbol.Identifier {
	var out []symbol.Identifier
	collectBindings(n, &out)
	return out
}

func collectBindings(n cst.Node, out *[]symbol.Identifier) {
	switch n.Kind() {
	case "parenthesized_expression", "binary_expression":
		for _, child := range n.NamedChildren() {
			collectBindings(child, out)
		}
	case "assignment_expression":
		if left, ok := n.ChildByFieldName("left"); ok && left.Kind() == "identifier" {
			*out = append(*out, identifierOf(left))
		}
		// The right-hand side of a condition assignment is not
		// inspected for further nested assignments, matching spec §4.2.
	}
}
