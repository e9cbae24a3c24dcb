// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package mcpserver exposes the trust data loader as a Model Context Protocol
// ([MCP]) server over stdio. Its tools fetch CRL, OCSP and AIA data with the
// same fallback rules as the CLI and return binary payloads base64 encoded.
// The package uses a builder pattern for server construction.
//
// [MCP]: https://modelcontextprotocol.io/docs/getting-started/intro
package mcpserver
