package symbol

import (
	"testing"

	"github.com/nichtsfrei/nasl-analyzer/internal/position"
)

func TestIdentifierMatchesNamedOnly(t *testing.T) {
	named := NewIdentifier(position.New(0, 0), position.New(0, 4), "test")
	if !named.Matches("test") {
		t.Error("expected named identifier to match its own name")
	}
	if named.Matches("other") {
		t.Error("did not expect a match against a different name")
	}

	anon := NewAnonymous(position.New(0, 0), position.New(1, 0))
	if anon.Matches("test") {
		t.Error("an anonymous identifier must never match any name")
	}
	if anon.Matches("") {
		t.Error("an anonymous identifier must never match, even the empty string")
	}
}

func TestIdentifierNameOr(t *testing.T) {
	named := NewIdentifier(position.New(0, 0), position.New(0, 4), "test")
	if got := named.NameOr("fallback"); got != "test" {
		t.Errorf("NameOr = %q, want %q", got, "test")
	}
	anon := NewAnonymous(position.New(0, 0), position.New(1, 0))
	if got := anon.NameOr("fallback"); got != "fallback" {
		t.Errorf("NameOr = %q, want %q", got, "fallback")
	}
}

func TestIdentifierRangeMatchesStartEnd(t *testing.T) {
	start, end := position.New(1, 0), position.New(3, 5)
	id := NewIdentifier(start, end, "x")
	r := id.Range()
	if r.Start != start || r.End != end {
		t.Errorf("Range() = %+v, want [%v, %v]", r, start, end)
	}
}

func TestStringLiteralText(t *testing.T) {
	lit := StringLiteral{Identifier: NewIdentifier(position.New(0, 1), position.New(0, 11), "common.inc")}
	if got := lit.Text(); got != "common.inc" {
		t.Errorf("Text() = %q, want %q", got, "common.inc")
	}
}

func TestJumpableIsDefinitionTagging(t *testing.T) {
	cases := []struct {
		name string
		j    Jumpable
		want bool
	}{
		{"FunDef", FunDef{}, true},
		{"IfDef", IfDef{}, true},
		{"Assign", Assign{}, true},
		{"Block", Block{}, true},
		{"Call", Call{}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.j.IsDefinition(); got != c.want {
				t.Errorf("%s.IsDefinition() = %v, want %v", c.name, got, c.want)
			}
		})
	}
}
