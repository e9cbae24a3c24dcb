// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs served by the MCP server.
const (
	configTemplateURI = "config://template"
	versionURI        = "info://version"
	schemesURI        = "docs://schemes"
)

// createResources returns the static resources of the server: a
// configuration template, version information and the list of supported
// location schemes.
func createResources() []server.ServerResource {
	return []server.ServerResource{
		{
			Resource: mcp.NewResource(configTemplateURI, "Configuration Template",
				mcp.WithResourceDescription("YAML configuration with every default value"),
				mcp.WithMIMEType("application/yaml"),
			),
			Handler: handleConfigResource,
		},
		{
			Resource: mcp.NewResource(versionURI, "Version Information",
				mcp.WithResourceDescription("Server name, version and tools"),
				mcp.WithMIMEType("application/json"),
			),
			Handler: handleVersionResource,
		},
		{
			Resource: mcp.NewResource(schemesURI, "Supported Schemes",
				mcp.WithResourceDescription("How each location scheme is fetched and how failures are reported"),
				mcp.WithMIMEType("text/markdown"),
			),
			Handler: handleSchemesResource,
		},
	}
}
