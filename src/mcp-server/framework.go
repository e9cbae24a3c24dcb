// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"errors"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/config"
	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// serverName is the name announced to MCP clients.
const serverName = "Trust Data Loader"

// ToolHandler defines tool handlers that receive the server dependencies.
//
// Parameters:
//   - ctx: Context for cancellation, already bounded by the configured timeout
//   - request: The MCP tool call request containing arguments and metadata
//   - deps: Configuration, logger and version of the server
//
// Returns:
//   - The tool execution result or an error if the tool failed
type ToolHandler func(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error)

// ToolDefinition pairs an MCP tool declaration with its implementation.
type ToolDefinition struct {
	Tool    mcp.Tool
	Handler ToolHandler
}

// ServerDependencies holds everything tool handlers need.
//
// Fields:
//   - Config: Loader and MCP settings
//   - Log: Structured logger; silent unless a log file is configured
//   - Version: Server version string
//   - Tools: Tool definitions to register
//   - Resources: Static resources to register
type ServerDependencies struct {
	Config    *config.Config
	Log       logger.Logger
	Version   string
	Tools     []ToolDefinition
	Resources []server.ServerResource
}

// newLoader builds a loader for one tool call. A non-empty contentType
// replaces the configured one.
func (d *ServerDependencies) newLoader(contentType string) (*dataloader.Loader, error) {
	cfg := *d.Config
	if contentType != "" {
		cfg.Transport.ContentType = contentType
	}
	return cfg.NewLoader(d.Log)
}

// handler binds def to d and bounds every call by the configured timeout.
func (d *ServerDependencies) handler(def ToolDefinition) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ctx, cancel := context.WithTimeout(ctx, time.Duration(d.Config.MCP.TimeoutSeconds)*time.Second)
		defer cancel()

		d.Log.Debugf("tool call %s", request.Params.Name)
		return def.Handler(ctx, request, d)
	}
}

// ServerTools returns the tools of d bound to their dependencies.
func (d *ServerDependencies) ServerTools() []server.ServerTool {
	tools := make([]server.ServerTool, 0, len(d.Tools))
	for _, def := range d.Tools {
		tools = append(tools, server.ServerTool{Tool: def.Tool, Handler: d.handler(def)})
	}
	return tools
}

// ServerBuilder helps construct the [MCP] server with a fluent interface.
//
// Example:
//
//	s, err := NewServerBuilder().
//	    WithConfig(cfg).
//	    WithVersion("1.0.0").
//	    WithDefaultTools().
//	    Build()
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
type ServerBuilder struct{ deps ServerDependencies }

// NewServerBuilder creates a new server builder with default empty dependencies.
func NewServerBuilder() *ServerBuilder { return &ServerBuilder{} }

// WithConfig sets the loader and MCP configuration.
func (b *ServerBuilder) WithConfig(cfg *config.Config) *ServerBuilder {
	b.deps.Config = cfg
	return b
}

// WithLogger sets the logger handed to tools and loaders.
func (b *ServerBuilder) WithLogger(log logger.Logger) *ServerBuilder {
	b.deps.Log = log
	return b
}

// WithVersion sets the server version string.
func (b *ServerBuilder) WithVersion(version string) *ServerBuilder {
	b.deps.Version = version
	return b
}

// WithTools adds tools to the server.
func (b *ServerBuilder) WithTools(tools ...ToolDefinition) *ServerBuilder {
	b.deps.Tools = append(b.deps.Tools, tools...)
	return b
}

// WithResources adds static resources to the server.
func (b *ServerBuilder) WithResources(resources ...server.ServerResource) *ServerBuilder {
	b.deps.Resources = append(b.deps.Resources, resources...)
	return b
}

// WithDefaultTools adds every built-in tool and resource.
func (b *ServerBuilder) WithDefaultTools() *ServerBuilder {
	return b.WithTools(createTools()...).WithResources(createResources()...)
}

// Dependencies returns the dependencies collected so far with defaults applied.
func (b *ServerBuilder) Dependencies() (*ServerDependencies, error) {
	if b.deps.Config == nil {
		return nil, errors.New("configuration is required")
	}
	deps := b.deps
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &deps, nil
}

// Build creates the MCP server with all configured tools and resources.
func (b *ServerBuilder) Build() (*server.MCPServer, error) {
	deps, err := b.Dependencies()
	if err != nil {
		return nil, err
	}

	s := server.NewMCPServer(
		serverName,
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, true),
		server.WithRecovery(),
	)

	s.AddTools(deps.ServerTools()...)
	for _, resource := range deps.Resources {
		s.AddResource(resource.Resource, resource.Handler)
	}

	return s, nil
}
