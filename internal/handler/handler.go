// Package handler binds one go-to-definition request to the core
// operations (parse, extract, resolve, fall back to built-ins) and projects
// the result to LSP Locations, per spec §4.6. It never does file I/O or
// URI<->path conversion itself — those are the transport loop's job (spec
// §1's explicit external-collaborator list); this package only ever sees
// already-read source bytes and an already-resolved filesystem path.
package handler

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nichtsfrei/nasl-analyzer/internal/cache"
	"github.com/nichtsfrei/nasl-analyzer/internal/cst"
	"github.com/nichtsfrei/nasl-analyzer/internal/include"
	"github.com/nichtsfrei/nasl-analyzer/internal/logging"
	"github.com/nichtsfrei/nasl-analyzer/internal/position"
	"github.com/nichtsfrei/nasl-analyzer/internal/protocol"
	"github.com/nichtsfrei/nasl-analyzer/internal/symbol"
)

// Handler resolves go-to-definition requests against a single NASL grammar
// (injected, per spec's black-box-parser scoping) and the process-lifetime
// Cache of search roots and built-ins.
type Handler struct {
	parser *cst.Parser
	loader *include.Loader
	cache  *cache.Cache
	log    *logging.Logger
}

// New builds a Handler. parser must be bound to the NASL grammar.
func New(parser *cst.Parser, c *cache.Cache, log *logging.Logger) *Handler {
	return &Handler{parser: parser, loader: include.New(parser), cache: c, log: log}
}

// Definition answers a single textDocument/definition query: path is the
// already-resolved filesystem path of the requesting document, source is its
// current (possibly unsaved) text, and pos is the cursor position. It never
// returns an error to the caller — per spec §7, every failure degrades to an
// empty result, logged at warning level.
func (h *Handler) Definition(ctx context.Context, path string, source []byte, pos position.Position) []protocol.Location {
	reqID := uuid.NewString()

	tree, err := h.parser.Parse(ctx, source)
	if err != nil {
		h.log.Warn("parse failure", logging.Fields{"request": reqID, "path": path, "error": err.Error()})
		return nil
	}
	defer tree.Close()

	name, ok := tree.Root().IdentifierAt(pos)
	if !ok {
		h.log.Debug("no identifier under cursor", logging.Fields{"request": reqID, "path": path})
		return nil
	}

	sp := symbol.SearchParameter{Origin: path, Name: name, Pos: pos}
	h.log.Debug("resolving identifier", logging.Fields{"request": reqID, "path": path, "name": name})

	defs, err := h.loader.Load(ctx, path, h.cache.Roots(), source)
	if err != nil {
		h.log.Warn("include loader failure", logging.Fields{"request": reqID, "path": path, "error": err.Error()})
		return nil
	}

	var locs []protocol.Location
	for _, d := range defs {
		for _, id := range d.Resolve(sp) {
			locs = append(locs, toLocation(d.Origin, id))
		}
	}

	if len(locs) == 0 {
		if b := h.cache.Builtins(); b != nil {
			for _, id := range b.Resolve(name) {
				locs = append(locs, toLocation(b.Origin, id))
			}
			if len(locs) > 0 {
				h.log.Debug("resolved via built-in fallback", logging.Fields{"request": reqID, "name": name})
			}
		}
	}

	h.log.Info("definition resolved", logging.Fields{"request": reqID, "name": name, "count": len(locs)})
	return locs
}

// toLocation projects a resolved Identifier to an LSP Location, jumping to a
// zero-width range at its start point (spec §4.6, §9).
func toLocation(origin string, id symbol.Identifier) protocol.Location {
	return protocol.ZeroWidthLocation(fileURI(origin), id.Start.Row, id.Start.Column)
}

func fileURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}
