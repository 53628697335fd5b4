package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/nichtsfrei/nasl-analyzer/internal/logging"
	"github.com/nichtsfrei/nasl-analyzer/internal/protocol"
)

// transport frames JSON-RPC messages over stdio using LSP's Content-Length
// header convention (spec §6: "exact wire format is defined by the LSP
// specification"). This is the out-of-scope transport loop spec §1 treats as
// an external collaborator; it is kept as thin as possible, delegating all
// method dispatch to a server.
type transport struct {
	r       *bufio.Reader
	w       io.Writer
	writeMu sync.Mutex
	log     *logging.Logger
}

func newTransport(r io.Reader, w io.Writer, log *logging.Logger) *transport {
	return &transport{r: bufio.NewReader(r), w: w, log: log}
}

// readMessage reads one Content-Length-framed JSON-RPC message. io.EOF is
// returned verbatim so the caller can shut down cleanly on stdin close.
func (t *transport) readMessage() (json.RawMessage, error) {
	var length int
	for {
		line, err := t.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("transport: invalid Content-Length %q: %w", value, err)
			}
			length = n
		}
	}
	if length == 0 {
		return nil, fmt.Errorf("transport: missing Content-Length header")
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(t.r, body); err != nil {
		return nil, fmt.Errorf("transport: reading body: %w", err)
	}
	return json.RawMessage(body), nil
}

// writeMessage frames and writes msg (a ResponseMessage or
// NotificationMessage), serializing writers since notifications (e.g. a
// future diagnostics push) could interleave with request responses.
func (t *transport) writeMessage(msg any) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("transport: marshal: %w", err)
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if _, err := fmt.Fprintf(t.w, "Content-Length: %d\r\n\r\n", len(body)); err != nil {
		return err
	}
	_, err = t.w.Write(body)
	return err
}

func (t *transport) writeResponse(resp protocol.ResponseMessage) {
	if err := t.writeMessage(resp); err != nil {
		t.log.Error("failed to write response", logging.Fields{"error": err.Error()})
	}
}
