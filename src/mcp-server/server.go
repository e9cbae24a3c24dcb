// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/H0llyW00dzZ/trust-data-loader/src/config"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"github.com/H0llyW00dzZ/trust-data-loader/src/version"
	"github.com/mark3labs/mcp-go/server"
)

var appVersion = version.Version // default version

// GetVersion returns the current version of the MCP server.
//
// The version is initially set to the default from the version package,
// but can be overridden when calling Run() with a specific version string.
func GetVersion() string {
	return appVersion
}

// Run starts the MCP server over stdio.
//
// Parameters:
//   - version: Version string to set for the server (e.g., "0.1.0")
//
// Returns:
//   - error: Server startup or runtime error, or graceful shutdown signal
//
// Configuration:
//   - Loads config from the TRUST_LOADER_CONFIG_FILE environment variable
//   - Falls back to defaults if the variable is not set
//
// Logging:
//   - Stdout carries the protocol, so logs go to mcp.logFile as JSON lines
//   - Without mcp.logFile the server logs nothing
//
// Graceful Shutdown:
//   - Responds to SIGINT (Ctrl+C) and SIGTERM signals
//   - Returns context.Canceled wrapped with "server shutdown" on signal
func Run(version string) error {
	appVersion = version

	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, log, os.Stdin, os.Stdout)
}

// serve runs the server on the given streams until ctx is done or the
// input ends.
func serve(ctx context.Context, cfg *config.Config, log logger.Logger, in io.Reader, out io.Writer) error {
	s, err := NewServerBuilder().
		WithConfig(cfg).
		WithLogger(log).
		WithVersion(appVersion).
		WithDefaultTools().
		Build()
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	stdioServer := server.NewStdioServer(s)

	log.Infof("%s %s listening on stdio", serverName, appVersion)

	errChan := make(chan error, 1)
	go func() {
		errChan <- stdioServer.Listen(ctx, in, out)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Infof("shutting down")
		return fmt.Errorf("server shutdown: %w", ctx.Err())
	}
}

// newLogger opens the configured log file. The returned logger is silent
// when no file is configured.
func newLogger(cfg *config.Config) (logger.Logger, func(), error) {
	if cfg.MCP.LogFile == "" {
		return logger.NewStructuredLogger(nil, true), func() {}, nil
	}

	f, err := os.OpenFile(cfg.MCP.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log := logger.NewStructuredLogger(f, false)
	if err := log.SetLevel(cfg.Log.Level); err != nil {
		f.Close()
		return nil, nil, err
	}
	return log, func() { f.Close() }, nil
}
