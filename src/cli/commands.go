// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
	x509sources "github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/sources"
	"github.com/spf13/cobra"
)

func (a *app) getCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get URL [URL...]",
		Short: "Fetch the first location that returns data",
		Long: `Fetch each URL in order and write the data of the first one that has any.
Failing locations are logged and skipped; the error of the last one is reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := a.newLoader(cmd, "")
			if err != nil {
				return err
			}
			OperationPerformed = true

			res, err := l.GetAny(cmd.Context(), args)
			if err != nil {
				return err
			}
			if res == nil {
				return ErrNoData
			}
			a.log.Infof("fetched %d bytes from %s", len(res.Data), res.URL)
			return writeOutput(cmd, output, res.Data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	return cmd
}

func (a *app) postCommand() *cobra.Command {
	var (
		output      string
		dataFile    string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "post URL",
		Short: "POST a request body and write the response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := readBody(cmd, dataFile)
			if err != nil {
				return err
			}
			l, err := a.newLoader(cmd, contentType)
			if err != nil {
				return err
			}
			OperationPerformed = true

			data, err := l.Post(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "request body file, or - for stdin")
	cmd.Flags().StringVar(&contentType, "content-type", "", "request Content-Type")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}

func readBody(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading request body: %w", err)
	}
	return data, nil
}

func (a *app) probeCommand() *cobra.Command {
	var (
		format   string
		certFile string
	)

	cmd := &cobra.Command{
		Use:   "probe [URL...]",
		Short: "Fetch every location and report which ones answer",
		Long: `Fetch every URL independently and print one row per location.
With --cert the CRL distribution points and CA issuer locations of the
certificate are probed as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return fmt.Errorf("unsupported format %q: use table or json", format)
			}
			urls := append([]string(nil), args...)
			if certFile != "" {
				cert, err := readCertificate(certFile)
				if err != nil {
					return err
				}
				urls = append(urls, x509sources.CRLSources(cert)...)
				urls = append(urls, x509sources.IssuerSources(cert)...)
			}
			if len(urls) == 0 {
				return fmt.Errorf("nothing to probe: give URLs or --cert")
			}

			l, err := a.newLoader(cmd, "")
			if err != nil {
				return err
			}
			OperationPerformed = true

			results := x509sources.Probe(cmd.Context(), l, urls)
			if format == "json" {
				data, err := x509sources.RenderProbeJSON(results)
				if err != nil {
					return err
				}
				return writeOutput(cmd, "", append(data, '\n'))
			}
			return writeOutput(cmd, "", []byte(x509sources.RenderProbeTable(results)))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table or json")
	cmd.Flags().StringVar(&certFile, "cert", "", "also probe the locations listed in this certificate")
	return cmd
}

func (a *app) crlCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "crl CERT",
		Short: "Download the CRL of a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := readCertificate(args[0])
			if err != nil {
				return err
			}
			l, err := a.newLoader(cmd, "")
			if err != nil {
				return err
			}
			OperationPerformed = true

			res, err := x509sources.FetchCRL(cmd.Context(), l, cert)
			if err != nil {
				return err
			}
			if res == nil {
				return ErrNoData
			}
			a.log.Infof("CRL of %s from %s", cert.Subject.CommonName, res.URL)
			return writeOutput(cmd, output, res.Data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	return cmd
}

func (a *app) ocspCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "ocsp CERT [ISSUER]",
		Short: "Query the OCSP responders of a certificate",
		Long: `Post an OCSP request for CERT to each responder it lists and write the
raw DER response. Without ISSUER the issuer is fetched from the AIA locations.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := readCertificate(args[0])
			if err != nil {
				return err
			}
			l, err := a.newLoader(cmd, x509sources.OCSPRequestContentType)
			if err != nil {
				return err
			}
			OperationPerformed = true

			var issuer *x509.Certificate
			if len(args) == 2 {
				if issuer, err = readCertificate(args[1]); err != nil {
					return err
				}
			} else {
				issuers, err := x509sources.ResolveIssuers(cmd.Context(), l, cert, 1)
				if err != nil {
					return err
				}
				if len(issuers) == 0 {
					return fmt.Errorf("issuer of %s not found; pass ISSUER", cert.Subject.CommonName)
				}
				issuer = issuers[0]
			}

			res, err := x509sources.FetchOCSP(cmd.Context(), l, cert, issuer, a.log)
			if err != nil {
				return err
			}
			if res == nil {
				return ErrNoData
			}
			a.log.Infof("OCSP response for %s from %s", cert.Subject.CommonName, res.URL)
			return writeOutput(cmd, output, res.Data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	return cmd
}

func (a *app) issuersCommand() *cobra.Command {
	var (
		output    string
		derFormat bool
		maxDepth  int
	)

	cmd := &cobra.Command{
		Use:   "issuers CERT",
		Short: "Follow AIA issuer locations and write the issuers found",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cert, err := readCertificate(args[0])
			if err != nil {
				return err
			}
			l, err := a.newLoader(cmd, "")
			if err != nil {
				return err
			}
			OperationPerformed = true

			issuers, err := x509sources.ResolveIssuers(cmd.Context(), l, cert, maxDepth)
			if err != nil {
				return err
			}
			if len(issuers) == 0 {
				return ErrNoData
			}

			names := make([]string, 0, len(issuers))
			for _, c := range issuers {
				names = append(names, c.Subject.CommonName)
			}
			a.log.Infof("issuers of %s: %s", cert.Subject.CommonName, strings.Join(names, " <- "))

			var data []byte
			if derFormat {
				for _, c := range issuers {
					data = append(data, c.Raw...)
				}
			} else {
				data = keystore.NewDecoder().EncodeMultiplePEM(issuers)
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	cmd.Flags().BoolVarP(&derFormat, "der", "d", false, "output DER format")
	cmd.Flags().IntVar(&maxDepth, "max-depth", x509sources.DefaultMaxDepth, "maximum number of issuers to follow")
	return cmd
}
