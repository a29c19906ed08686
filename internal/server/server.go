// Package server exposes the dispatcher as an MCP tool server over stdio or
// streamable HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/claimcheck/internal/dispatch"
	"github.com/ppiankov/claimcheck/internal/model"
	"github.com/ppiankov/claimcheck/internal/worker"
)

// Transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	// EndpointPath is where the streamable HTTP transport is mounted
	EndpointPath = "/mcp"

	localSession    = "local"
	shutdownTimeout = 5 * time.Second
)

// Server is the MCP server with tool calls gated by the dispatcher's argument
// and name checks
type Server struct {
	mcp    *mcpserver.MCPServer
	gate   *callGate
	logger *zap.Logger
}

// New creates the MCP server and registers one tool per dispatcher operation.
// A nil limiter disables throttling.
func New(cfg model.Config, d *dispatch.Dispatcher, limiter *worker.Limiter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []mcpserver.ServerOption{
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(cfg.Server.Instructions),
	}
	if limiter != nil {
		opts = append(opts, mcpserver.WithToolHandlerMiddleware(rateLimit(limiter, logger)))
	}

	s := mcpserver.NewMCPServer(cfg.Server.Name, cfg.Server.Version, opts...)

	handler := toolHandler(d)
	for _, t := range ToolDefinitions() {
		s.AddTool(t, handler)
	}

	return &Server{
		mcp:    s,
		gate:   &callGate{checker: d, logger: logger},
		logger: logger,
	}
}

// MCPServer returns the underlying mcp-go server
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleMessage processes one JSON-RPC message. A tools/call the dispatcher
// refuses is answered here with the dispatch code and message; everything else
// goes to the mcp-go server.
func (s *Server) HandleMessage(ctx context.Context, raw json.RawMessage) mcp.JSONRPCMessage {
	if resp, rejected := s.gate.reject(raw); rejected {
		return resp
	}
	return s.mcp.HandleMessage(ctx, raw)
}

// ToolDefinitions returns the MCP tool definitions advertised by the server
func ToolDefinitions() []mcp.Tool {
	tools := dispatch.Tools()
	defs := make([]mcp.Tool, len(tools))
	for i, t := range tools {
		defs[i] = toolDefinition(t)
	}
	return defs
}

func toolDefinition(t dispatch.Tool) mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(t.Description),
		mcp.WithTitleAnnotation(t.Title),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description(t.TextDescription),
		),
	}
	if t.AcceptsFramework {
		opts = append(opts, mcp.WithString("framework",
			mcp.Description(t.FrameworkDescription),
			mcp.Enum(dispatch.FrameworkValues()...),
		))
	}

	return mcp.NewTool(t.Name, opts...)
}

// toolHandler adapts the dispatcher. Every result carries the report and the JSON
// payload as two text contents. Argument and name errors never get here (see
// callGate); an internal error is returned as a handler error, which mcp-go sends
// as INTERNAL_ERROR with the dispatch message.
func toolHandler(d *dispatch.Dispatcher) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := d.Call(ctx, req.Params.Name, req.GetArguments())
		if err != nil {
			return nil, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{
				mcp.NewTextContent(res.Text),
				mcp.NewTextContent(string(res.Structured)),
			},
		}, nil
	}
}

// rateLimit throttles tool calls per client session
func rateLimit(limiter *worker.Limiter, logger *zap.Logger) mcpserver.ToolHandlerMiddleware {
	return func(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			key := sessionKey(ctx)
			if err := limiter.Wait(ctx, key); err != nil {
				logger.Warn("tool call throttled",
					zap.String("session", key),
					zap.String("tool", req.Params.Name),
					zap.Error(err),
				)
				return nil, fmt.Errorf("rate limit: %w", err)
			}
			return next(ctx, req)
		}
	}
}

func sessionKey(ctx context.Context) string {
	if session := mcpserver.ClientSessionFromContext(ctx); session != nil && session.SessionID() != "" {
		return session.SessionID()
	}
	return localSession
}

// Serve runs the server on the configured transport until ctx is cancelled or
// the transport fails
func (s *Server) Serve(ctx context.Context, cfg model.ServerConfig, in io.Reader, out io.Writer) error {
	switch cfg.Transport {
	case "", TransportStdio:
		return s.serveStdio(ctx, in, out)
	case TransportHTTP:
		return s.serveHTTP(ctx, cfg.HTTPAddr)
	default:
		return fmt.Errorf("unknown transport: %s (use %s or %s)", cfg.Transport, TransportStdio, TransportHTTP)
	}
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	// Both the gate and the stdio server write responses
	w := &lockedWriter{w: out}
	pr, pw := io.Pipe()
	go s.gate.filterLines(in, pw, w)

	s.logger.Info("serving MCP over stdio")
	err := stdio.Listen(ctx, pr, w)
	_ = pr.Close()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// HTTPHandler mounts the gated streamable HTTP transport at EndpointPath
func (s *Server) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(EndpointPath, s.gate.httpMiddleware(mcpserver.NewStreamableHTTPServer(s.mcp)))
	return mux
}

func (s *Server) serveHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("serving MCP over HTTP", zap.String("addr", addr), zap.String("path", EndpointPath))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http transport: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down HTTP transport")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
