// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
	x509sources "github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/sources"
	"github.com/mark3labs/mcp-go/mcp"
)

// fetchOutput is the JSON result of tools returning a payload.
type fetchOutput struct {
	URL    string `json:"url"`
	Bytes  int    `json:"bytes"`
	Base64 string `json:"base64"`
}

// handleFetchURL fetches a single location.
//
// A location without data is reported as a result error rather than an
// empty payload, so the client can tell the two apart.
func handleFetchURL(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("url parameter required: %v", err)), nil
	}

	l, err := deps.newLoader("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	data, err := l.Get(ctx, rawURL)
	if err != nil {
		return toolError("failed to fetch", err), nil
	}
	if len(data) == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("no data at %s", rawURL)), nil
	}
	return payloadResult(deps, rawURL, data)
}

// handleFetchFirstAvailable fetches locations in order until one has data.
func handleFetchFirstAvailable(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	input, err := request.RequireString("urls")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("urls parameter required: %v", err)), nil
	}
	urls := splitList(input)
	if len(urls) == 0 {
		return mcp.NewToolResultError("urls parameter required: no locations given"), nil
	}

	l, err := deps.newLoader("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	res, err := l.GetAny(ctx, urls)
	if err != nil {
		return toolError("failed to fetch", err), nil
	}
	if res == nil {
		return mcp.NewToolResultError(fmt.Sprintf("none of the %d locations returned data", len(urls))), nil
	}
	return payloadResult(deps, res.URL, res.Data)
}

// handlePostURL posts a base64 request body.
func handlePostURL(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	rawURL, err := request.RequireString("url")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("url parameter required: %v", err)), nil
	}
	encoded, err := request.RequireString("data")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data parameter required: %v", err)), nil
	}
	body, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("data must be base64: %v", err)), nil
	}

	l, err := deps.newLoader(request.GetString("content_type", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	data, err := l.Post(ctx, rawURL, body)
	if err != nil {
		return toolError("failed to post", err), nil
	}
	return payloadResult(deps, rawURL, data)
}

// handleProbeSources probes explicit locations and those of a certificate.
func handleProbeSources(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	format := request.GetString("format", "table")
	if format != "table" && format != "json" {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported format %q: use table or json", format)), nil
	}

	urls := splitList(request.GetString("urls", ""))
	if certInput := request.GetString("certificate", ""); certInput != "" {
		cert, err := readCertificateInput(certInput)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		urls = append(urls, x509sources.CRLSources(cert)...)
		urls = append(urls, x509sources.IssuerSources(cert)...)
	}
	if len(urls) == 0 {
		return mcp.NewToolResultError("nothing to probe: give urls or certificate"), nil
	}

	l, err := deps.newLoader("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	results := x509sources.Probe(ctx, l, urls)
	if format == "json" {
		data, err := x509sources.RenderProbeJSON(results)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal probe results: %w", err)
		}
		return mcp.NewToolResultText(string(data)), nil
	}
	return mcp.NewToolResultText(x509sources.RenderProbeTable(results)), nil
}

// handleGetCertificateSources lists the locations a certificate points at.
func handleGetCertificateSources(_ context.Context, request mcp.CallToolRequest, _ *ServerDependencies) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}
	cert, err := readCertificateInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	output := map[string]any{
		"subject":               cert.Subject.CommonName,
		"issuer":                cert.Issuer.CommonName,
		"serial":                cert.SerialNumber.String(),
		"selfSigned":            x509sources.IsSelfSigned(cert),
		"crlDistributionPoints": x509sources.CRLSources(cert),
		"ocspServers":           x509sources.OCSPSources(cert),
		"issuingCertificateURL": x509sources.IssuerSources(cert),
	}
	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal certificate sources: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleFetchCRL downloads the CRL of a certificate.
func handleFetchCRL(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}
	cert, err := readCertificateInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	l, err := deps.newLoader("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	res, err := x509sources.FetchCRL(ctx, l, cert)
	if err != nil {
		return toolError("failed to fetch CRL", err), nil
	}
	if res == nil {
		return mcp.NewToolResultError("no CRL distribution point returned data"), nil
	}
	return payloadResult(deps, res.URL, res.Data)
}

// handleFetchOCSPResponse posts an OCSP request for a certificate.
func handleFetchOCSPResponse(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}
	cert, err := readCertificateInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	l, err := deps.newLoader(x509sources.OCSPRequestContentType)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	var issuer *x509.Certificate
	if issuerInput := request.GetString("issuer", ""); issuerInput != "" {
		if issuer, err = readCertificateInput(issuerInput); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	} else {
		issuers, err := x509sources.ResolveIssuers(ctx, l, cert, 1)
		if err != nil {
			return toolError("failed to fetch issuer", err), nil
		}
		if len(issuers) == 0 {
			return mcp.NewToolResultError("issuer not found; pass the issuer parameter"), nil
		}
		issuer = issuers[0]
	}

	res, err := x509sources.FetchOCSP(ctx, l, cert, issuer, deps.Log)
	if err != nil {
		return toolError("failed to query OCSP", err), nil
	}
	if res == nil {
		return mcp.NewToolResultError("no OCSP responder returned data"), nil
	}
	return payloadResult(deps, res.URL, res.Data)
}

// handleResolveIssuers follows AIA issuer locations of a certificate.
func handleResolveIssuers(ctx context.Context, request mcp.CallToolRequest, deps *ServerDependencies) (*mcp.CallToolResult, error) {
	certInput, err := request.RequireString("certificate")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("certificate parameter required: %v", err)), nil
	}
	cert, err := readCertificateInput(certInput)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	l, err := deps.newLoader("")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid loader configuration: %v", err)), nil
	}

	issuers, err := x509sources.ResolveIssuers(ctx, l, cert, request.GetInt("max_depth", x509sources.DefaultMaxDepth))
	if err != nil {
		return toolError("failed to resolve issuers", err), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Issuers of %s:\n", cert.Subject.CommonName)
	for i, c := range issuers {
		fmt.Fprintf(&result, "%d: %s\n", i+1, c.Subject.CommonName)
	}
	fmt.Fprintf(&result, "\nTotal: %d issuer(s)\n\n", len(issuers))
	result.Write(keystore.NewDecoder().EncodeMultiplePEM(issuers))

	return mcp.NewToolResultText(result.String()), nil
}

// payloadResult wraps data as base64 JSON, enforcing the configured size cap.
func payloadResult(deps *ServerDependencies, url string, data []byte) (*mcp.CallToolResult, error) {
	if limit := deps.Config.MCP.MaxResultBytes; len(data) > limit {
		return mcp.NewToolResultError(fmt.Sprintf("%s returned %d bytes, above the %d byte limit", url, len(data), limit)), nil
	}
	jsonData, err := json.MarshalIndent(fetchOutput{
		URL:    url,
		Bytes:  len(data),
		Base64: base64.StdEncoding.EncodeToString(data),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// toolError reports a fetch failure with its category.
func toolError(prefix string, err error) *mcp.CallToolResult {
	if kind := dataloader.KindOf(err); kind != 0 {
		return mcp.NewToolResultError(fmt.Sprintf("%s (%s): %v", prefix, kind, err))
	}
	if errors.Is(err, x509sources.ErrNoSources) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: certificate lists no locations", prefix))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}

// readCertificateInput reads a certificate from a file path, falling back
// to base64 data.
func readCertificateInput(input string) (*x509.Certificate, error) {
	var certData []byte

	if fileData, err := os.ReadFile(input); err == nil {
		certData = fileData
	} else if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(input)); err == nil {
		certData = decoded
	} else {
		return nil, errors.New("failed to read certificate: not a valid file path or base64 data")
	}

	certs, err := keystore.NewDecoder().DecodeMultiple(certData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificate: %v", err)
	}
	return certs[0], nil
}

// splitList splits a comma-separated list, dropping blank items.
func splitList(input string) []string {
	var items []string
	for _, item := range strings.Split(input, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
