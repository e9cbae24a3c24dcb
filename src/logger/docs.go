// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the Logger interface and two [zerolog] backed implementations:
// CLILogger for human-readable command-line output and StructuredLogger for JSON
// lines in the MCP server, where stdout is reserved for the protocol. Nop is the
// default for library code. All implementations are safe for concurrent use.
//
// [zerolog]: https://github.com/rs/zerolog
package logger
