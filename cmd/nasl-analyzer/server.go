package main

import (
	"context"
	"encoding/json"

	"github.com/nichtsfrei/nasl-analyzer/internal/cache"
	"github.com/nichtsfrei/nasl-analyzer/internal/handler"
	"github.com/nichtsfrei/nasl-analyzer/internal/logging"
	"github.com/nichtsfrei/nasl-analyzer/internal/position"
	"github.com/nichtsfrei/nasl-analyzer/internal/protocol"
)

// server binds the transport loop to the core Handler and Cache, implementing
// spec §6's method list: the standard lifecycle notifications,
// textDocument/definition, and workspace/didChangeConfiguration.
type server struct {
	h     *handler.Handler
	cache *cache.Cache
	docs  *documents
	log   *logging.Logger

	shuttingDown bool
}

func newServer(h *handler.Handler, c *cache.Cache, log *logging.Logger) *server {
	return &server{h: h, cache: c, docs: newDocuments(), log: log}
}

// dispatch handles one decoded JSON-RPC envelope. Requests (those carrying
// an id) return a non-nil ResponseMessage to write back; notifications
// return nil. Every method not in spec §6's list is answered with
// MethodNotFound for a request, or silently ignored for a notification — an
// LSP server must never let an unrecognized notification abort it.
func (s *server) dispatch(ctx context.Context, raw json.RawMessage) *protocol.ResponseMessage {
	var envelope struct {
		ID     *json.RawMessage `json:"id"`
		Method string           `json:"method"`
		Params json.RawMessage  `json:"params"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.log.Error("malformed message", logging.Fields{"error": err.Error()})
		if envelope.ID == nil {
			return nil
		}
		resp := protocol.NewErrorResponse(nil, protocol.ParseError, "invalid JSON-RPC envelope")
		return &resp
	}

	var id any
	if envelope.ID != nil {
		_ = json.Unmarshal(*envelope.ID, &id)
	}
	isRequest := envelope.ID != nil

	switch envelope.Method {
	case "initialize":
		return s.handleInitialize(id, envelope.Params, isRequest)
	case "initialized":
		return nil
	case "shutdown":
		s.shuttingDown = true
		resp := protocol.NewResponse(id, nil)
		return &resp
	case "exit":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(envelope.Params)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(envelope.Params)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(envelope.Params)
		return nil
	case "textDocument/definition":
		return s.handleDefinition(ctx, id, envelope.Params)
	case "workspace/didChangeConfiguration":
		s.handleDidChangeConfiguration(ctx, envelope.Params)
		return nil
	default:
		if !isRequest {
			s.log.Debug("ignoring unknown notification", logging.Fields{"method": envelope.Method})
			return nil
		}
		resp := protocol.NewErrorResponse(id, protocol.MethodNotFound, "method not found: "+envelope.Method)
		return &resp
	}
}

func (s *server) handleInitialize(id any, params json.RawMessage, isRequest bool) *protocol.ResponseMessage {
	var p protocol.InitializeParams
	if len(params) > 0 {
		_ = json.Unmarshal(params, &p)
	}
	var roots []string
	for _, wf := range p.WorkspaceFolders {
		roots = append(roots, pathFromURI(wf.URI))
	}
	s.cache.AddRoots(roots)

	if !isRequest {
		return nil
	}
	result := protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{DefinitionProvider: true},
		ServerInfo:   protocol.ServerInfo{Name: "nasl-analyzer", Version: version},
	}
	resp := protocol.NewResponse(id, result)
	return &resp
}

func (s *server) handleDidOpen(params json.RawMessage) {
	var p struct {
		TextDocument protocol.TextDocumentItem `json:"textDocument"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("didOpen: invalid params", logging.Fields{"error": err.Error()})
		return
	}
	s.docs.open(p.TextDocument.URI, p.TextDocument.Text)
}

func (s *server) handleDidChange(params json.RawMessage) {
	// The server only ever needs the document's full current text (the
	// handler always reparses from scratch per spec's Non-goals: no
	// incremental reparsing), so only a full-document sync is supported.
	var p struct {
		TextDocument struct {
			URI string `json:"uri"`
		} `json:"textDocument"`
		ContentChanges []struct {
			Text string `json:"text"`
		} `json:"contentChanges"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("didChange: invalid params", logging.Fields{"error": err.Error()})
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	s.docs.open(p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
}

func (s *server) handleDidClose(params json.RawMessage) {
	var p struct {
		TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return
	}
	s.docs.close(p.TextDocument.URI)
}

func (s *server) handleDefinition(ctx context.Context, id any, params json.RawMessage) *protocol.ResponseMessage {
	var p protocol.DefinitionParams
	if err := json.Unmarshal(params, &p); err != nil {
		resp := protocol.NewErrorResponse(id, protocol.InvalidParams, "invalid textDocument/definition params")
		return &resp
	}

	uri := p.TextDocument.URI
	path := pathFromURI(uri)
	source, err := s.docs.text(uri)
	if err != nil {
		// Spec §4.8: a primary-file read failure short-circuits with no
		// result, never a protocol error.
		s.log.Warn("definition: could not read document", logging.Fields{"uri": uri, "error": err.Error()})
		resp := protocol.NewResponse(id, []protocol.Location{})
		return &resp
	}

	pos := position.New(p.Position.Line, p.Position.Character)
	locs := s.h.Definition(ctx, path, source, pos)
	if locs == nil {
		locs = []protocol.Location{}
	}
	resp := protocol.NewResponse(id, locs)
	return &resp
}

func (s *server) handleDidChangeConfiguration(ctx context.Context, params json.RawMessage) {
	var p protocol.DidChangeConfigurationParams
	if err := json.Unmarshal(params, &p); err != nil {
		s.log.Warn("didChangeConfiguration: invalid params", logging.Fields{"error": err.Error()})
		return
	}
	if p.Settings == nil {
		return
	}
	s.cache.AddRoots(p.Settings.Paths)
	s.log.Info("search roots updated", logging.Fields{"added": len(p.Settings.Paths)})

	if p.Settings.OpenVAS != "" {
		if err := s.cache.SetBuiltins(ctx, p.Settings.OpenVAS); err != nil {
			s.log.Warn("failed to load OpenVAS built-ins", logging.Fields{"path": p.Settings.OpenVAS, "error": err.Error()})
			return
		}
		s.log.Info("OpenVAS built-ins loaded", logging.Fields{"path": p.Settings.OpenVAS})
	}
}
