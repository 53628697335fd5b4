package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	tsc "github.com/smacker/go-tree-sitter/c"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichtsfrei/nasl-analyzer/internal/cache"
	"github.com/nichtsfrei/nasl-analyzer/internal/cst"
	"github.com/nichtsfrei/nasl-analyzer/internal/handler"
	"github.com/nichtsfrei/nasl-analyzer/internal/logging"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	parser, err := cst.NewParser(tsc.GetLanguage())
	require.NoError(t, err)
	c := cache.New(nil)
	h := handler.New(parser, c, logging.New(io.Discard, logging.LevelError))
	return newServer(h, c, logging.New(io.Discard, logging.LevelError))
}

func TestDispatchInitializeAdvertisesDefinitionProvider(t *testing.T) {
	s := newTestServer(t)
	raw := []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	resp := s.dispatch(context.Background(), raw)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	payload, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"definitionProvider":true`)
}

func TestDispatchUnknownMethodOnRequestReturnsMethodNotFound(t *testing.T) {
	s := newTestServer(t)
	raw := []byte(`{"jsonrpc":"2.0","id":2,"method":"textDocument/hover","params":{}}`)
	resp := s.dispatch(context.Background(), raw)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32601, resp.Error.Code)
}

func TestDispatchUnknownNotificationIsIgnored(t *testing.T) {
	s := newTestServer(t)
	raw := []byte(`{"jsonrpc":"2.0","method":"$/setTrace","params":{}}`)
	resp := s.dispatch(context.Background(), raw)
	assert.Nil(t, resp)
}

func TestDispatchShutdownSetsFlag(t *testing.T) {
	s := newTestServer(t)
	raw := []byte(`{"jsonrpc":"2.0","id":3,"method":"shutdown"}`)
	resp := s.dispatch(context.Background(), raw)
	require.NotNil(t, resp)
	assert.True(t, s.shuttingDown)
}

func TestDispatchDidChangeConfigurationAddsRootsAndBuiltins(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	fixture := `static init_func libfuncs[] = { {"script_name", script_name_internal} };` + "\n"
	path := filepath.Join(dir, "nasl_init.c")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o644))

	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "workspace/didChangeConfiguration",
		"params": map[string]any{
			"settings": map[string]any{
				"paths":   []string{"/opt/plugins"},
				"openvas": path,
			},
		},
	})
	require.NoError(t, err)

	resp := s.dispatch(context.Background(), raw)
	assert.Nil(t, resp)
	assert.Contains(t, s.cache.Roots(), "/opt/plugins")
	require.NotNil(t, s.cache.Builtins())
	assert.Len(t, s.cache.Builtins().Funcs, 1)
}

func TestDispatchDidOpenThenDefinitionUsesBufferText(t *testing.T) {
	s := newTestServer(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "main.nasl")
	// The file on disk is stale; the open buffer's text must win.
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	src := "void wrapper() {\n\ttestus = 1;\n\ttestus;\n}\n"
	openRaw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "textDocument/didOpen",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": "file://" + path, "text": src},
		},
	})
	require.NoError(t, err)
	assert.Nil(t, s.dispatch(context.Background(), openRaw))

	defRaw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      4,
		"method":  "textDocument/definition",
		"params": map[string]any{
			"textDocument": map[string]any{"uri": "file://" + path},
			"position":     map[string]any{"line": 2, "character": 1},
		},
	})
	require.NoError(t, err)
	resp := s.dispatch(context.Background(), defRaw)
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	payload, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"line":1`)
}
