// Package protocol defines the minimal slice of the Language Server
// Protocol's JSON-RPC 2.0 wire types this server speaks: the envelope
// shapes (request/response/notification), and the textDocument/definition
// and workspace/didChangeConfiguration payloads it handles. No public Go
// LSP-types library appears in any example repo's dependency graph, so this
// mirrors the teacher's own plain-struct JSON-RPC envelope
// (mcp/protocol.go) adapted to LSP's method set instead of MCP's.
package protocol

import "encoding/json"

// JSONRPCVersion is the only version this server understands.
const JSONRPCVersion = "2.0"

// RequestMessage is a JSON-RPC request that expects a Response.
type RequestMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NotificationMessage is a JSON-RPC message with no ID and no response.
type NotificationMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// ResponseMessage is a JSON-RPC response to a RequestMessage.
type ResponseMessage struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      any          `json:"id"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject is a JSON-RPC error payload.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC / LSP error codes this server can return.
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

func NewResponse(id any, result any) ResponseMessage {
	return ResponseMessage{JSONRPC: JSONRPCVersion, ID: id, Result: result}
}

func NewErrorResponse(id any, code int, message string) ResponseMessage {
	return ResponseMessage{JSONRPC: JSONRPCVersion, ID: id, Error: &ErrorObject{Code: code, Message: message}}
}

// Position is zero-based, matching LSP's line/character convention.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a start/end pair of Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Location identifies a Range within a document URI.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

// ZeroWidthLocation builds a Location whose start and end are the same
// point, matching the original implementation's AsRangeExt: a
// go-to-definition target jumps to a point, not a span.
func ZeroWidthLocation(uri string, line, character uint32) Location {
	p := Position{Line: line, Character: character}
	return Location{URI: uri, Range: Range{Start: p, End: p}}
}

// TextDocumentIdentifier names the document a position is relative to.
type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentItem is the full document payload sent with a
// textDocument/didOpen notification.
type TextDocumentItem struct {
	URI  string `json:"uri"`
	Text string `json:"text"`
}

// TextDocumentPositionParams pairs a document with a cursor position within
// it — the shared shape of textDocument/definition and similar requests.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// DefinitionParams is the payload of a textDocument/definition request.
type DefinitionParams struct {
	TextDocumentPositionParams
}

// WorkspaceFolder is one entry of InitializeParams.WorkspaceFolders.
type WorkspaceFolder struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

// InitializeParams is the payload of the initialize request.
type InitializeParams struct {
	WorkspaceFolders []WorkspaceFolder `json:"workspaceFolders,omitempty"`
}

// ServerCapabilities is the payload of an initialize response. Only the
// capability this server actually implements is advertised.
type ServerCapabilities struct {
	DefinitionProvider bool `json:"definitionProvider"`
}

// InitializeResult is the full payload of an initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

// ServerInfo identifies this server in the initialize response.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Settings is the settings shape nested under DidChangeConfigurationParams,
// per spec §6: `{ "settings": { "paths": [string], "openvas": string } }`.
type Settings struct {
	Paths   []string `json:"paths"`
	OpenVAS string   `json:"openvas,omitempty"`
}

// DidChangeConfigurationParams is the payload of a
// workspace/didChangeConfiguration notification. Settings is a pointer so an
// absent "settings" key can be told apart from an explicit empty Paths.
type DidChangeConfigurationParams struct {
	Settings *Settings `json:"settings,omitempty"`
}
