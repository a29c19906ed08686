package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/ppiankov/claimcheck/internal/dispatch"
)

const (
	sessionHeader = "Mcp-Session-Id"
	maxBodyBytes  = 4 << 20
)

// Checker reports whether a tool call would be refused before it runs
type Checker interface {
	Check(name string, args map[string]any) error
}

// callGate answers refused tools/call requests itself. mcp-go reports unknown
// tools as INVALID_PARAMS and every handler error as INTERNAL_ERROR; the gate
// keeps the dispatch codes (InvalidArgument -32602, MethodNotFound -32601) and
// messages on the wire.
type callGate struct {
	checker Checker
	logger  *zap.Logger
}

type callEnvelope struct {
	ID     mcp.RequestId `json:"id"`
	Method string        `json:"method"`
	Params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	} `json:"params"`
}

// reject returns the JSON-RPC error for a tools/call the dispatcher refuses.
// Any other message, or one that does not parse, is left to mcp-go.
func (g *callGate) reject(raw []byte) (mcp.JSONRPCMessage, bool) {
	var env callEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Method != string(mcp.MethodToolsCall) {
		return nil, false
	}

	// Arguments that are not an object count as missing
	var args map[string]any
	if len(env.Params.Arguments) > 0 {
		var decoded any
		if err := json.Unmarshal(env.Params.Arguments, &decoded); err == nil {
			args, _ = decoded.(map[string]any)
		}
	}

	err := g.checker.Check(env.Params.Name, args)
	if err == nil {
		return nil, false
	}

	code := dispatch.CodeOf(err)
	g.logger.Debug("tool call refused",
		zap.String("tool", env.Params.Name),
		zap.String("code", code.String()),
		zap.Error(err),
	)
	return mcp.NewJSONRPCError(env.ID, int(code), err.Error(), nil), true
}

// filterLines copies newline-delimited messages from in to pass, answering
// refused calls on out instead
func (g *callGate) filterLines(in io.Reader, pass *io.PipeWriter, out io.Writer) {
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if resp, rejected := g.reject(bytes.TrimSpace(line)); rejected {
				if werr := writeMessage(out, resp); werr != nil {
					_ = pass.CloseWithError(werr)
					return
				}
			} else if _, werr := pass.Write(line); werr != nil {
				return
			}
		}
		if err != nil {
			// io.EOF ends the stdio session normally
			_ = pass.CloseWithError(err)
			return
		}
	}
}

// httpMiddleware answers refused POSTed calls before the streamable transport
func (g *callGate) httpMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		_ = r.Body.Close()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "read request body", http.StatusBadRequest)
			return
		}

		if resp, rejected := g.reject(body); rejected {
			w.Header().Set("Content-Type", "application/json")
			if id := r.Header.Get(sessionHeader); id != "" {
				w.Header().Set(sessionHeader, id)
			}
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(resp)
			return
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(w, r)
	})
}

func writeMessage(w io.Writer, msg mcp.JSONRPCMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// lockedWriter serializes writes so each response line stays whole
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
