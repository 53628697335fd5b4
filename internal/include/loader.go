// Package include resolves a NASL file's include(...) calls against a set of
// search roots and recursively extracts Definitions for every file reached,
// depth-first, so the handler can resolve identifiers across file
// boundaries in one pass.
package include

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nichtsfrei/nasl-analyzer/internal/cst"
	"github.com/nichtsfrei/nasl-analyzer/internal/definitions"
)

// Loader parses every file it visits with a single injected grammar.
type Loader struct {
	parser *cst.Parser
}

// New builds a Loader bound to parser.
func New(parser *cst.Parser) *Loader {
	return &Loader{parser: parser}
}

// Load extracts Definitions for path (parsed from the already-in-memory
// code, so the caller's unsaved editor buffer is honored) and then follows
// every include(...) target it finds, recursively, against roots. The
// returned slice's first element is always path's own Definitions; the rest
// are every transitively included file reached, in depth-first order. A
// path already visited earlier in the same Load call is skipped, breaking
// include cycles.
func (l *Loader) Load(ctx context.Context, path string, roots []string, code []byte) ([]*definitions.Definitions, error) {
	visited := make(map[string]bool)
	var out []*definitions.Definitions
	if err := l.load(ctx, path, code, roots, visited, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) load(ctx context.Context, path string, code []byte, roots []string, visited map[string]bool, out *[]*definitions.Definitions) error {
	key := canonical(path)
	if visited[key] {
		return nil
	}
	visited[key] = true

	tree, err := l.parser.Parse(ctx, code)
	if err != nil {
		return fmt.Errorf("include: parsing %s: %w", path, err)
	}
	defer tree.Close()

	d := definitions.New(path, tree.Root())
	*out = append(*out, d)

	for _, inc := range d.Includes {
		incPath, ok := resolve(inc, roots)
		if !ok {
			continue
		}
		if visited[canonical(incPath)] {
			continue
		}
		incCode, err := os.ReadFile(incPath)
		if err != nil {
			// An unreadable include must not fail the whole request; the
			// rest of the include graph is still worth resolving.
			continue
		}
		if err := l.load(ctx, incPath, incCode, roots, visited, out); err != nil {
			continue
		}
	}
	return nil
}

// resolve strips an optional "file://" scheme and checks name against every
// root in order, returning the first candidate that actually exists on
// disk.
func resolve(name string, roots []string) (string, bool) {
	name = strings.TrimPrefix(name, "file://")
	for _, root := range roots {
		candidate := filepath.Join(root, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
	}
	return "", false
}

func canonical(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
