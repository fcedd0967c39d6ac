// Package mcp exposes version-control operations as Model Context Protocol
// tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/codes"
	noopmetric "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/repomate/internal/gitrepo"
	"github.com/Sumatoshi-tech/repomate/internal/observability"
	"github.com/Sumatoshi-tech/repomate/pkg/version"
)

// serverName is the MCP implementation name advertised to clients.
const serverName = "repomate"

// ErrNoRepoPath is returned when a tool call omits repo_path and no default
// path was configured at startup.
var ErrNoRepoPath = errors.New("repo_path is required (no default configured)")

// ServerDeps carries the dependencies injected into the server. Zero-value
// fields are replaced with no-op implementations.
type ServerDeps struct {
	// Logger receives one debug line per tool invocation.
	Logger *slog.Logger

	// Metrics records RED metrics per operation.
	Metrics *observability.REDMetrics

	// Tracer creates one span per tool invocation.
	Tracer trace.Tracer

	// DefaultRepoPath is the repository used when a call omits repo_path.
	// Read-only after construction; empty means every call must supply one.
	DefaultRepoPath string
}

// Server wraps the MCP SDK server with the repository tool set.
type Server struct {
	server    *mcpsdk.Server
	deps      ServerDeps
	toolNames []string
}

// NewServer creates an MCP server with all repository tools registered.
func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	if deps.Tracer == nil {
		deps.Tracer = nooptrace.NewTracerProvider().Tracer(serverName)
	}

	if deps.Metrics == nil {
		// Noop instruments never fail to build.
		deps.Metrics, _ = observability.NewREDMetrics(noopmetric.NewMeterProvider().Meter(serverName))
	}

	srv := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    serverName,
		Title:   "Repomate Version Control",
		Version: version.Version,
	}, nil)

	s := &Server{server: srv, deps: deps}

	s.registerTools()

	return s
}

// Run serves MCP requests on stdio until the context is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	err := s.server.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("run mcp server: %w", err)
	}

	return nil
}

// ListToolNames returns the registered tool names.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.toolNames))
	copy(names, s.toolNames)

	return names
}

// session resolves the target repository for a call: the explicit repo_path
// argument, else the configured default.
func (s *Server) session(repoPath string) (*gitrepo.Session, error) {
	path := repoPath
	if path == "" {
		path = s.deps.DefaultRepoPath
	}

	if path == "" {
		return nil, ErrNoRepoPath
	}

	sess, err := gitrepo.NewSession(path)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// addTool registers a tool with invocation instrumentation around its
// handler.
func addTool[In, Out any](s *Server, tool *mcpsdk.Tool, handler mcpsdk.ToolHandlerFor[In, Out]) {
	mcpsdk.AddTool(s.server, tool, instrument(s, tool.Name, handler))
	s.toolNames = append(s.toolNames, tool.Name)
}

// instrument wraps a handler with a span, RED metrics, and a debug log line.
// Handler failures are reported as IsError tool results, so the error status
// covers both transport errors and tool-level failures.
func instrument[In, Out any](
	s *Server,
	op string,
	handler mcpsdk.ToolHandlerFor[In, Out],
) mcpsdk.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcpsdk.CallToolRequest, input In) (*mcpsdk.CallToolResult, Out, error) {
		ctx, span := s.deps.Tracer.Start(ctx, "mcp."+op)
		defer span.End()

		release := s.deps.Metrics.TrackInflight(ctx, op)
		defer release()

		start := time.Now()

		result, output, err := handler(ctx, req, input)

		status := observability.StatusOK
		if err != nil || (result != nil && result.IsError) {
			status = observability.StatusError
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		s.deps.Metrics.RecordRequest(ctx, op, status, time.Since(start))
		s.deps.Logger.DebugContext(ctx, "tool call",
			"op", op,
			"status", status,
			"duration", time.Since(start),
		)

		return result, output, err
	}
}

// MessageOutput is the structured payload for tools that return a plain
// status or confirmation string.
type MessageOutput struct {
	Message string `json:"message" jsonschema:"the operation result message"`
}

// errorResult converts a failure into an IsError tool result. Errors are
// reported in-band so callers can read the taxonomy message; the protocol
// error slot stays empty.
func errorResult[Out any](err error) (*mcpsdk.CallToolResult, Out, error) {
	var zero Out

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
		IsError: true,
	}, zero, nil
}

// textResult returns a plain-text tool result.
func textResult(msg string) (*mcpsdk.CallToolResult, MessageOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
	}, MessageOutput{Message: msg}, nil
}

// jsonResult serializes a result model value as indented JSON text content
// and returns it as the structured output as well.
func jsonResult[T any](value T) (*mcpsdk.CallToolResult, T, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult[T](fmt.Errorf("serialize result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, value, nil
}
