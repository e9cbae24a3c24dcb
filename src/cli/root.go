// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/config"
	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/helper/posix"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"github.com/spf13/cobra"
)

var (
	// OperationPerformed is set once a command has started fetching.
	OperationPerformed bool
	// OperationPerformedSuccessfully is set once a command has written its result.
	OperationPerformedSuccessfully bool
)

// ErrNoData is returned when every location was reachable but none had data.
var ErrNoData = errors.New("no location returned data")

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile string
	logLevel   string
	timeout    time.Duration
	trustStore string
	keyStore   string
	tlsVersion string
	noRedirect bool
}

// app carries the state of one CLI invocation.
type app struct {
	log   logger.Logger
	flags globalFlags
}

// Execute runs the root command with the process arguments.
//
// Parameters:
//   - ctx: Cancels in-flight fetches when done
//   - version: Version string shown by --version
//   - log: Logger for progress and diagnostics
//
// Returns:
//   - error: the failure of the executed command
func Execute(ctx context.Context, version string, log logger.Logger) error {
	return NewRootCommand(version, log).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Command output goes to the
// command's output writer; diagnostics go to log.
func NewRootCommand(version string, log logger.Logger) *cobra.Command {
	if log == nil {
		log = logger.Nop()
	}
	a := &app{log: log}

	rootCmd := &cobra.Command{
		Use:           posix.ExecutableName("trust-data-loader"),
		Short:         "Fetch CRL, OCSP and AIA data over HTTP, FTP, LDAP and files",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.flags.configFile, "config", "c", "", "configuration file (JSON or YAML); defaults to $"+config.EnvConfigFile)
	pf.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error (default from config)")
	pf.DurationVar(&a.flags.timeout, "timeout", 0, "connect and socket timeout (default from config)")
	pf.StringVar(&a.flags.trustStore, "trust-store", "", "trust store path (PEM, DER, PKCS7 or PKCS12)")
	pf.StringVar(&a.flags.keyStore, "key-store", "", "client key store path for mutual TLS (PEM or PKCS12)")
	pf.StringVar(&a.flags.tlsVersion, "tls-version", "", "minimum TLS version, e.g. TLSv1.2")
	pf.BoolVar(&a.flags.noRedirect, "no-redirect", false, "do not follow HTTP redirects")

	rootCmd.AddCommand(
		a.getCommand(),
		a.postCommand(),
		a.probeCommand(),
		a.crlCommand(),
		a.ocspCommand(),
		a.issuersCommand(),
	)

	return rootCmd
}

// loadConfig reads the configuration and applies the global flags on top.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.flags.configFile)
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("timeout") {
		ms := int(a.flags.timeout / time.Millisecond)
		cfg.Transport.ConnectTimeoutMs = ms
		cfg.Transport.SocketTimeoutMs = ms
	}
	if a.flags.trustStore != "" {
		cfg.TrustStore.Path = a.flags.trustStore
		cfg.TrustStore.Type = ""
	}
	if a.flags.keyStore != "" {
		cfg.KeyStore.Path = a.flags.keyStore
		cfg.KeyStore.Type = ""
	}
	if a.flags.tlsVersion != "" {
		cfg.Transport.TLSVersion = a.flags.tlsVersion
	}
	if a.flags.noRedirect {
		disabled := false
		cfg.Transport.RedirectsEnabled = &disabled
	}

	level := cfg.Log.Level
	if a.flags.logLevel != "" {
		level = a.flags.logLevel
	}
	if err := a.log.SetLevel(level); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newLoader builds a loader from the configuration and flags. A non-empty
// contentType replaces the configured one.
func (a *app) newLoader(cmd *cobra.Command, contentType string) (*dataloader.Loader, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		cfg.Transport.ContentType = contentType
	}
	return cfg.NewLoader(a.log)
}

// readCertificate loads the first certificate of a PEM, DER or PKCS7 file.
func readCertificate(path string) (*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading certificate file: %w", err)
	}
	certs, err := keystore.NewDecoder().DecodeMultiple(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding certificate %s: %w", path, err)
	}
	return certs[0], nil
}

// writeOutput writes data to path, or to the command output when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("error writing to output file: %w", err)
		}
	} else if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return err
	}
	OperationPerformedSuccessfully = true
	return nil
}
