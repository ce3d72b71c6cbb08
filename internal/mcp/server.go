// Package mcp exposes parameter hints as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/paramhints/internal/config"
	phdebug "github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/security"
	"github.com/standardbeagle/paramhints/internal/version"
)

const serverName = "paramhints-mcp-server"

type Server struct {
	cfg              *config.Config
	registry         *frontend.Registry
	server           *mcp.Server
	diagnosticLogger *DiagnosticLogger // file-based; stdio belongs to the protocol
	validator        *security.FileValidator
}

// NewServer creates an MCP server answering from cfg's project root with
// the front ends in registry.
func NewServer(cfg *config.Config, registry *frontend.Registry) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mcp server requires a configuration")
	}
	if registry == nil {
		var err error
		if registry, err = frontend.NewRegistry(cfg.Languages...); err != nil {
			return nil, err
		}
	}

	s := &Server{
		cfg:              cfg,
		registry:         registry,
		diagnosticLogger: NewDiagnosticLogger(true),
		validator:        security.NewFileValidator(security.DefaultThresholdKB),
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	s.diagnosticLogger.Printf("MCP server initialized for %s", cfg.Project.Root)
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Server version, supported languages and tool overview.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.withRecovery("info", s.handleInfo))

	s.server.AddTool(&mcp.Tool{
		Name: "parameter_hints",
		Description: "Compute parameter-name inlay hints for one file. Pass either a project-relative 'path' " +
			"or inline 'source' with its 'language'. Returns hints with byte offsets and 1-based line/column.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "File path, absolute or relative to the project root",
				},
				"source": {
					Type:        "string",
					Description: "Source text to analyze instead of a file",
				},
				"language": {
					Type:        "string",
					Description: "Language of 'source'",
					Enum:        languageEnum(),
				},
				"name": {
					Type:        "string",
					Description: "File name reported for 'source' (optional)",
				},
			},
		},
	}, s.withRecovery("parameter_hints", s.handleParameterHints))

	s.server.AddTool(&mcp.Tool{
		Name:        "scan_hints",
		Description: "Compute parameter hints for every supported file under a directory, sorted by path.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "Directory to scan (defaults to the project root)",
				},
				"include": {
					Type:        "array",
					Description: "Doublestar globs a file must match",
					Items:       &jsonschema.Schema{Type: "string"},
				},
				"exclude": {
					Type:        "array",
					Description: "Additional doublestar globs to skip",
					Items:       &jsonschema.Schema{Type: "string"},
				},
			},
		},
	}, s.withRecovery("scan_hints", s.handleScanHints))
}

func languageEnum() []any {
	langs := frontend.Languages()
	out := make([]any, len(langs))
	for i, l := range langs {
		out[i] = l
	}
	return out
}

// withRecovery turns a handler panic into an IsError result.
func (s *Server) withRecovery(operation string, handler mcp.ToolHandler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				s.diagnosticLogger.Errorf("PANIC RECOVERED in %s: %v", operation, r)
				s.diagnosticLogger.Printf("Stack trace: %s", debug.Stack())
				result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
			}
		}()
		phdebug.LogMCP("tool %s called\n", operation)
		return handler(ctx, req)
	}
}

// Start serves MCP over stdin/stdout until ctx is cancelled or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	phdebug.SetMCPMode(true)
	s.diagnosticLogger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Connect serves one session over an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.server.Connect(ctx, t, nil)
}

// Close releases the diagnostic log.
func (s *Server) Close() error {
	s.diagnosticLogger.Printf("MCP server shutdown complete")
	return s.diagnosticLogger.Close()
}
