// Package symbol holds the pure-data entities extracted from a NASL or C
// syntax tree: identifiers, call arguments, and the tagged Jumpable union of
// things a go-to-definition query can resolve to or pass over. Nothing here
// depends on a parser; it is built by internal/nasl and internal/openvas and
// consumed by internal/definitions.
package symbol

import "github.com/nichtsfrei/nasl-analyzer/internal/position"

// Identifier is a named (or anonymous) lexical span. A nil Name marks an
// anonymous range — a block or if-statement span that exists only to bound
// a scope, not to be matched against a query name.
type Identifier struct {
	Start position.Position
	End   position.Position
	Name  *string
}

// NewIdentifier builds a named identifier spanning [start, end].
func NewIdentifier(start, end position.Position, name string) Identifier {
	return Identifier{Start: start, End: end, Name: &name}
}

// NewAnonymous builds an unnamed span, used for Block and IfDef ranges.
func NewAnonymous(start, end position.Position) Identifier {
	return Identifier{Start: start, End: end}
}

// Range returns the identifier's span as a position.Range.
func (id Identifier) Range() position.Range {
	return position.Range{Start: id.Start, End: id.End}
}

// Matches reports whether the identifier is named exactly name.
func (id Identifier) Matches(name string) bool {
	return id.Name != nil && *id.Name == name
}

// NameOr returns the identifier's name, or fallback if it is anonymous.
func (id Identifier) NameOr(fallback string) string {
	if id.Name == nil {
		return fallback
	}
	return *id.Name
}

// Argument is a call-site argument. Only string-literal arguments are
// currently modeled (the only kind include() detection needs); additional variants may be added later without
// breaking callers, since the resolver already ignores unknown kinds.
type Argument interface {
	isArgument()
}

// StringLiteral is an Argument carrying a string-literal's unquoted text.
type StringLiteral struct {
	Identifier Identifier
}

func (StringLiteral) isArgument() {}

// Text returns the literal's inner text, or "" if it is anonymous (should
// never happen for a well-formed string_literal node).
func (s StringLiteral) Text() string {
	return s.Identifier.NameOr("")
}

// SearchParameter fully qualifies a single resolution query: the file the
// cursor is in, the identifier name under the cursor, and the cursor's
// position within that file.
type SearchParameter struct {
	Origin string
	Name   string
	Pos    position.Position
}

// Jumpable is a tagged entry extracted from a syntax tree: either a
// definition (FunDef, IfDef, Assign, Block) reachable by go-to-definition,
// or a reference (Call) that the resolver never yields as a result but that
// Definitions.Calls can still stream for callers like include detection.
type Jumpable interface {
	// IsDefinition reports whether this entry's tag is not Call.
	IsDefinition() bool
	jumpable()
}

// FunDef is a function definition. ID spans the entire function definition
// (not just its declarator); Params are the function's parameter
// identifiers, visible only while the cursor lies within ID's range.
type FunDef struct {
	ID     Identifier
	Params []Identifier
}

func (FunDef) IsDefinition() bool { return true }
func (FunDef) jumpable()          {}

// IfDef is an if-statement's condition bindings. ID spans the entire
// if-statement (including any else/else-if chain); Bindings are the
// assignment-left identifiers found inside the condition, visible only
// while the cursor lies within ID's range.
type IfDef struct {
	ID       Identifier
	Bindings []Identifier
}

func (IfDef) IsDefinition() bool { return true }
func (IfDef) jumpable()          {}

// Assign is a top-level (or nested, but file-global in NASL's scoping
// model) assignment. It is visible throughout its origin file regardless of
// position.
type Assign struct {
	ID Identifier
}

func (Assign) IsDefinition() bool { return true }
func (Assign) jumpable()          {}

// Block is an anonymous nested lexical region (a compound statement) owning
// its own Definitions by value. Resolution only descends into it when the
// query position lies within ID's range.
type Block struct {
	ID    Identifier
	Inner DefinitionsProvider
}

func (Block) IsDefinition() bool { return true }
func (Block) jumpable()          {}

// Call is a reference to a function at a call site; it never contributes a
// definition but is streamed by Definitions.Calls (the same lookup is used
// to find include(...) invocations).
type Call struct {
	ID   Identifier
	Args []Argument
}

func (Call) IsDefinition() bool { return false }
func (Call) jumpable()          {}

// DefinitionsProvider is the minimal surface Block needs from
// internal/definitions.Definitions, broken out here to avoid a dependency
// cycle (definitions imports symbol, not the other way around).
type DefinitionsProvider interface {
	Resolve(sp SearchParameter) []Identifier
}
