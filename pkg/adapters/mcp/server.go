package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/actvis"
	"github.com/aretw0/actvis/internal/dto"
	"github.com/aretw0/actvis/internal/logging"
	"github.com/aretw0/actvis/pkg/adapters/raster"
	"github.com/aretw0/actvis/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// SceneURI is the resource exposing the current scene.
const SceneURI = "actvis://scene"

// InputResponse is returned by every tool that feeds the viewport an event.
type InputResponse struct {
	Result actvis.Result    `json:"result" jsonschema_description:"What the event changed"`
	State  domain.ViewState `json:"state" jsonschema_description:"The view after the event"`
}

// PointerArgs are the arguments of the pointer tool.
type PointerArgs struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// WheelArgs are the arguments of the wheel tool.
type WheelArgs struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y"`
}

// ResizeArgs are the arguments of the resize tool.
type ResizeArgs struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Server exposes one engine as an MCP server.
type Server struct {
	engine    *actvis.Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine *actvis.Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("actvis-mcp", strings.TrimSpace(actvis.Version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
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

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: load_graph
	s.mcpServer.AddTool(mcp.NewTool("load_graph",
		mcp.WithDescription("Replace the scene. Pass either a graph as JSON or program text to send to the graph service."),
		mcp.WithString("graph", mcp.Description(`Graph JSON: {"nodes": [...], "edges": [[from, to], ...]}`)),
		mcp.WithString("text", mcp.Description("Program text for the graph service")),
		mcp.WithString("entry", mcp.Description("Action to expand (optional, with text)")),
	), s.handleLoadGraph)

	// TOOL: list_actions
	s.mcpServer.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List the actions defined by a program text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Program text")),
	), s.handleListActions)

	// TOOL: pointer
	s.mcpServer.AddTool(mcp.NewTool("pointer",
		mcp.WithDescription("Send a pointer event in canvas pixels. A down followed by an up at the same spot is a click."),
		mcp.WithString("kind", mcp.Required(),
			mcp.Enum(string(domain.KindPointerDown), string(domain.KindPointerMove), string(domain.KindPointerUp), string(domain.KindPointerLeave)),
			mcp.Description("Event kind")),
		mcp.WithNumber("x", mcp.Description("Canvas x")),
		mcp.WithNumber("y", mcp.Description("Canvas y")),
		mcp.WithOutputSchema[InputResponse](),
	), mcp.NewStructuredToolHandler(s.handlePointer))

	// TOOL: wheel
	s.mcpServer.AddTool(mcp.NewTool("wheel",
		mcp.WithDescription("Zoom around a canvas point. Negative delta_y zooms in."),
		mcp.WithNumber("x", mcp.Required(), mcp.Description("Canvas x")),
		mcp.WithNumber("y", mcp.Required(), mcp.Description("Canvas y")),
		mcp.WithNumber("delta_y", mcp.Required(), mcp.Description("Scroll delta")),
		mcp.WithOutputSchema[InputResponse](),
	), mcp.NewStructuredToolHandler(s.handleWheel))

	// TOOL: resize
	s.mcpServer.AddTool(mcp.NewTool("resize",
		mcp.WithDescription("Resize the canvas. The view is not refitted."),
		mcp.WithNumber("width", mcp.Required(), mcp.Description("Width in pixels")),
		mcp.WithNumber("height", mcp.Required(), mcp.Description("Height in pixels")),
		mcp.WithOutputSchema[InputResponse](),
	), mcp.NewStructuredToolHandler(s.handleResize))

	// TOOL: get_state
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the view transform, hover, selection and scene counts."),
		mcp.WithOutputSchema[domain.ViewState](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: snapshot
	s.mcpServer.AddTool(mcp.NewTool("snapshot",
		mcp.WithDescription("Render the current frame as a PNG image."),
	), s.handleSnapshot)
}

func (s *Server) handleLoadGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphJSON := request.GetString("graph", "")
	text := request.GetString("text", "")

	var (
		summary actvis.LoadSummary
		err     error
	)
	switch {
	case graphJSON != "":
		var g domain.Graph
		g, err = decodeGraph(graphJSON)
		if err == nil {
			summary = s.engine.Load(g)
		}
	case text != "":
		summary, err = s.engine.LoadFromSource(ctx, text, request.GetString("entry", ""))
	default:
		err = errors.New("either graph or text is required")
	}
	if err != nil {
		s.logger.Warn("MCP load_graph failed", "err", err)
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	jsonBytes, _ := json.Marshal(summary)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func decodeGraph(s string) (domain.Graph, error) {
	var raw any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return domain.Graph{}, fmt.Errorf("invalid graph JSON: %w", err)
	}
	return dto.DecodeGraph(raw)
}

func (s *Server) handleListActions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := request.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	actions, err := s.engine.ListActions(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list actions failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(actions)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePointer(ctx context.Context, request mcp.CallToolRequest, args PointerArgs) (InputResponse, error) {
	ev, err := dto.InputPayload{Kind: domain.EventKind(args.Kind), X: args.X, Y: args.Y}.ToDomain()
	if err != nil || ev.Kind() == domain.KindWheel || ev.Kind() == domain.KindResize {
		return InputResponse{}, fmt.Errorf("%w: pointer kind %q", domain.ErrUnknownEvent, args.Kind)
	}
	return s.input(ev), nil
}

func (s *Server) handleWheel(ctx context.Context, request mcp.CallToolRequest, args WheelArgs) (InputResponse, error) {
	return s.input(domain.Wheel{X: args.X, Y: args.Y, DeltaY: args.DeltaY}), nil
}

func (s *Server) handleResize(ctx context.Context, request mcp.CallToolRequest, args ResizeArgs) (InputResponse, error) {
	return s.input(domain.Resize{Width: args.Width, Height: args.Height}), nil
}

func (s *Server) input(ev domain.InputEvent) InputResponse {
	res := s.engine.HandleInput(ev)
	return InputResponse{Result: res, State: s.engine.State()}
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.ViewState, error) {
	return s.engine.State(), nil
}

func (s *Server) handleSnapshot(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	width, height := s.engine.Size()
	cv, err := raster.New(int(width), int(height))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	stats := s.engine.Draw(cv)

	var buf bytes.Buffer
	if err := cv.EncodePNG(&buf); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("snapshot failed: %v", err)), nil
	}
	caption := fmt.Sprintf("%dx%d frame, %d nodes drawn", cv.Width(), cv.Height(), stats.Shapes)
	return mcp.NewToolResultImage(caption, base64.StdEncoding.EncodeToString(buf.Bytes()), "image/png"), nil
}

func (s *Server) registerResources() {
	// EXPOSE: actvis://scene
	s.mcpServer.AddResource(mcp.NewResource(SceneURI, "Current Scene",
		mcp.WithResourceDescription("Nodes and edges currently shown in the viewport"),
		mcp.WithMIMEType("application/json"),
	), s.handleSceneResource)
}

func (s *Server) handleSceneResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(s.engine.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode scene: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SceneURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
