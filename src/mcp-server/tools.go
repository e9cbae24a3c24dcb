// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	urlsDescription        = "Comma-separated list of locations (http, https, ftp, file, ldap), tried in order"
	certificateDescription = "Certificate file path or base64-encoded certificate data (PEM, DER or PKCS7)"
)

// createTools returns every MCP tool definition with its handler.
//
// The function defines the following tools:
//   - fetch_url: Fetches a single location
//   - fetch_first_available: Fetches locations in order until one has data
//   - post_url: Posts a base64 request body and returns the response
//   - probe_sources: Fetches every location and reports which ones answer
//   - get_certificate_sources: Lists the CRL, OCSP and issuer locations of a certificate
//   - fetch_crl: Downloads the CRL of a certificate
//   - fetch_ocsp_response: Queries the OCSP responders of a certificate
//   - resolve_issuers: Follows AIA issuer locations of a certificate
func createTools() []ToolDefinition {
	return []ToolDefinition{
		{
			Tool: mcp.NewTool("fetch_url",
				mcp.WithDescription("Fetch the data at a single location. Binary data is returned base64 encoded."),
				mcp.WithString("url",
					mcp.Required(),
					mcp.Description("Location to fetch (http, https, ftp, file, ldap)"),
				),
			),
			Handler: handleFetchURL,
		},
		{
			Tool: mcp.NewTool("fetch_first_available",
				mcp.WithDescription("Fetch locations in order and return the first one that has data; failing mirrors are skipped"),
				mcp.WithString("urls",
					mcp.Required(),
					mcp.Description(urlsDescription),
				),
			),
			Handler: handleFetchFirstAvailable,
		},
		{
			Tool: mcp.NewTool("post_url",
				mcp.WithDescription("POST a request body to an HTTP location and return the response base64 encoded"),
				mcp.WithString("url",
					mcp.Required(),
					mcp.Description("HTTP or HTTPS location"),
				),
				mcp.WithString("data",
					mcp.Required(),
					mcp.Description("Base64-encoded request body"),
				),
				mcp.WithString("content_type",
					mcp.Description("Request Content-Type (default: from configuration)"),
				),
			),
			Handler: handlePostURL,
		},
		{
			Tool: mcp.NewTool("probe_sources",
				mcp.WithDescription("Fetch every location independently and report size, digest, timing and errors"),
				mcp.WithString("urls",
					mcp.Description(urlsDescription),
				),
				mcp.WithString("certificate",
					mcp.Description(certificateDescription+"; its CRL and issuer locations are probed too"),
				),
				mcp.WithString("format",
					mcp.Description("Output format: 'table' or 'json' (default: table)"),
					mcp.DefaultString("table"),
				),
			),
			Handler: handleProbeSources,
		},
		{
			Tool: mcp.NewTool("get_certificate_sources",
				mcp.WithDescription("List the CRL distribution points, OCSP responders and CA issuer locations of a certificate"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description(certificateDescription),
				),
			),
			Handler: handleGetCertificateSources,
		},
		{
			Tool: mcp.NewTool("fetch_crl",
				mcp.WithDescription("Download the CRL of a certificate from the first distribution point that answers"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description(certificateDescription),
				),
			),
			Handler: handleFetchCRL,
		},
		{
			Tool: mcp.NewTool("fetch_ocsp_response",
				mcp.WithDescription("Post an OCSP request for a certificate and return the raw DER response"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description(certificateDescription),
				),
				mcp.WithString("issuer",
					mcp.Description("Issuer certificate; fetched from the AIA locations when omitted"),
				),
			),
			Handler: handleFetchOCSPResponse,
		},
		{
			Tool: mcp.NewTool("resolve_issuers",
				mcp.WithDescription("Follow the AIA CA issuer locations of a certificate and return the issuers as PEM"),
				mcp.WithString("certificate",
					mcp.Required(),
					mcp.Description(certificateDescription),
				),
				mcp.WithNumber("max_depth",
					mcp.Description("Maximum number of issuers to follow (default: 10)"),
					mcp.DefaultNumber(10),
				),
			),
			Handler: handleResolveIssuers,
		},
	}
}
