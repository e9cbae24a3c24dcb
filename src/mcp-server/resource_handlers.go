// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/H0llyW00dzZ/trust-data-loader/src/config"
	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"
)

// handleConfigResource serves a YAML configuration holding every default,
// ready to be edited and pointed at with TRUST_LOADER_CONFIG_FILE.
func handleConfigResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      configTemplateURI,
			MIMEType: "application/yaml",
			Text:     string(data),
		},
	}, nil
}

// handleVersionResource serves server metadata and the names of its tools.
func handleVersionResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	tools := createTools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Tool.Name)
	}

	versionInfo := map[string]any{
		"name":    serverName,
		"version": GetVersion(),
		"type":    "MCP Server",
		"tools":   names,
		"schemes": []string{"http", "https", "ftp", "file", "ldap", "ldaps"},
	}

	jsonData, err := json.MarshalIndent(versionInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal version info: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      versionURI,
			MIMEType: "application/json",
			Text:     string(jsonData),
		},
	}, nil
}

const schemesDoc = `# Supported location schemes

| Scheme | Transport | On failure |
|--------|-----------|------------|
| http, https | HTTP GET with the configured TLS, proxy and credentials | error with category |
| ftp | anonymous or URL credentials, passive mode | logged, no data |
| file | local file read | logged, no data |
| ldap, ldaps | base object search of the first attribute in the URL | logged, no data |

Other schemes are fetched over HTTP.

Error categories: transport_config, connectivity, http_status and
empty_entity. A fallback fetch skips failing locations, whatever the
category, and reports the error of the last one.
`

// handleSchemesResource serves the scheme documentation.
func handleSchemesResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      schemesURI,
			MIMEType: "text/markdown",
			Text:     schemesDoc,
		},
	}, nil
}
