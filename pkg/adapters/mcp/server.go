package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/gamestate"
	"github.com/aretw0/gamestate/internal/logging"
	"github.com/aretw0/gamestate/internal/presentation/graph"
	"github.com/aretw0/gamestate/pkg/domain"
	"github.com/aretw0/gamestate/pkg/dsl"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI identifies the snapshot resource.
const StateURI = "gamestate://state"

// ErrNotStarted is returned when the host has not produced a snapshot yet.
var ErrNotStarted = errors.New("session not started")

// Host is the running session as seen by the MCP tools.
// *runner.Runner implements it.
type Host interface {
	Snapshot() *domain.Snapshot
	Enqueue(e domain.Event) error
}

// Server wraps a running session and exposes it as an MCP Server.
type Server struct {
	host      Host
	def       *dsl.Definition
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance. def may be nil, in which case
// get_graph reports an error.
func NewServer(host Host, def *dsl.Definition, opts ...Option) *Server {
	s := &Server{
		host:   host,
		def:    def,
		logger: logging.NewNop(),
		mcpServer: server.NewMCPServer("gamestate-mcp", strings.TrimSpace(gamestate.Version),
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Listen serves the stdio transport on in and out until ctx is cancelled or
// in is closed.
func (s *Server) Listen(ctx context.Context, in io.Reader, out io.Writer) error {
	return server.NewStdioServer(s.mcpServer).Listen(ctx, in, out)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the current snapshot of the phase tree: the active path, loop flags and running timers."),
	), s.handleGetState)

	s.mcpServer.AddTool(mcp.NewTool("dispatch_event",
		mcp.WithDescription("Queue an event for the next tick. Keys are 'event', 'system:event' or 'namespace:system:event'."),
		mcp.WithString("event", mcp.Required(), mcp.Description("Event key, e.g. engine:Ready or self:round:ScoreChanged")),
		mcp.WithString("args", mcp.Description("JSON array of event arguments (optional)")),
	), s.handleDispatchEvent)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the phase tree as a Mermaid flowchart with the active path highlighted."),
	), s.handleGetGraph)
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := s.stateJSON()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleDispatchEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("event", "")
	k, err := domain.ParseEventKey(key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var args []any
	if raw := request.GetString("args", ""); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("args must be a JSON array: %v", err)), nil
		}
	}

	e := domain.Event{EventKey: k, Args: args}
	if err := s.host.Enqueue(e); err != nil {
		s.logger.Warn("MCP dispatch_event: rejected", "event", e.String(), "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("enqueue failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("queued %s", e.String())), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.def == nil {
		return mcp.NewToolResultError("no definition loaded"), nil
	}
	return mcp.NewToolResultText(graph.GenerateMermaid(s.def, graph.OverlayFrom(s.host.Snapshot()))), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current Session State",
		mcp.WithResourceDescription("Snapshot of the active phase path"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.stateJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StateURI,
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

func (s *Server) stateJSON() (string, error) {
	snap := s.host.Snapshot()
	if snap == nil {
		return "", ErrNotStarted
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}
