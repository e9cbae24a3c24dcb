// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"bytes"
	"context"
	"crypto/x509"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/trust-data-loader/src/cli"
	"github.com/H0llyW00dzZ/trust-data-loader/src/config"
	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/testutil/pkitest"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ocsp"
)

const version = "1.3.3.7-testing"

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigFile, "")

	var out bytes.Buffer
	cmd := cli.NewRootCommand(version, logger.Nop())
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr + "/"
}

func writeCert(t *testing.T, cert *x509.Certificate) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cert.pem")
	require.NoError(t, os.WriteFile(path, pkitest.PEM(cert), 0o600))
	return path
}

func TestExecute(t *testing.T) {
	pki := pkitest.Generate(t)

	var ocspBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data.crl":
			_, _ = w.Write([]byte("crl-data"))
		case "/ca.der":
			_, _ = w.Write(pki.CACert.Raw)
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/echo":
			body, _ := io.ReadAll(r.Body)
			_, _ = w.Write(append([]byte(r.Header.Get("Content-Type")+":"), body...))
		case "/ocsp":
			ocspBody, _ = io.ReadAll(r.Body)
			_, _ = w.Write([]byte("ocsp-der"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	leaf := pki.Leaf(t,
		[]string{closedURL(t), srv.URL + "/data.crl"},
		[]string{srv.URL + "/ocsp"},
		[]string{srv.URL + "/ca.der"},
	)
	leafFile := writeCert(t, leaf)
	caFile := writeCert(t, pki.CACert)

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "get falls back",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "get", closedURL(t), srv.URL+"/data.crl")
				require.NoError(t, err)
				assert.Equal(t, "crl-data", out)
				assert.True(t, cli.OperationPerformedSuccessfully)
			},
		},
		{
			name: "get to file",
			testFunc: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "out.crl")
				out, err := run(t, "", "get", "-o", path, srv.URL+"/data.crl")
				require.NoError(t, err)
				assert.Empty(t, out)

				data, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Equal(t, []byte("crl-data"), data)
			},
		},
		{
			name: "get without entity",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "get", srv.URL+"/empty")
				assert.True(t, dataloader.IsEmptyEntity(err))
			},
		},
		{
			name: "get with only empty locations",
			testFunc: func(t *testing.T) {
				dir := t.TempDir()
				empty := filepath.Join(dir, "empty.crl")
				require.NoError(t, os.WriteFile(empty, nil, 0o600))

				_, err := run(t, "", "get", "file://"+filepath.ToSlash(empty), "file://"+filepath.ToSlash(filepath.Join(dir, "absent.crl")))
				assert.ErrorIs(t, err, cli.ErrNoData)
			},
		},
		{
			name: "get needs a URL",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "get")
				assert.Error(t, err)
			},
		},
		{
			name: "post from stdin",
			testFunc: func(t *testing.T) {
				out, err := run(t, "payload", "post", "--data", "-", "--content-type", "text/plain", srv.URL+"/echo")
				require.NoError(t, err)
				assert.Equal(t, "text/plain:payload", out)
			},
		},
		{
			name: "post requires data",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "post", srv.URL+"/echo")
				assert.ErrorContains(t, err, "data")
			},
		},
		{
			name: "probe as json",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "probe", "--format", "json", "--cert", leafFile)
				require.NoError(t, err)

				var report struct {
					Total     int `json:"total"`
					Available int `json:"available"`
				}
				require.NoError(t, json.Unmarshal([]byte(out), &report))
				assert.Equal(t, 3, report.Total)
				assert.Equal(t, 2, report.Available)
			},
		},
		{
			name: "probe as table",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "probe", srv.URL+"/data.crl")
				require.NoError(t, err)
				assert.Contains(t, out, srv.URL+"/data.crl")
				assert.Contains(t, out, "ok")
			},
		},
		{
			name: "probe rejects unknown format",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "probe", "--format", "xml", srv.URL)
				assert.ErrorContains(t, err, "unsupported format")
			},
		},
		{
			name: "probe without locations",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "probe")
				assert.ErrorContains(t, err, "nothing to probe")
			},
		},
		{
			name: "crl of certificate",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "crl", leafFile)
				require.NoError(t, err)
				assert.Equal(t, "crl-data", out)
			},
		},
		{
			name: "ocsp with explicit issuer",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "ocsp", leafFile, caFile)
				require.NoError(t, err)
				assert.Equal(t, "ocsp-der", out)

				req, err := ocsp.ParseRequest(ocspBody)
				require.NoError(t, err)
				assert.Equal(t, 0, req.SerialNumber.Cmp(leaf.SerialNumber))
			},
		},
		{
			name: "ocsp resolves the issuer",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "ocsp", leafFile)
				require.NoError(t, err)
				assert.Equal(t, "ocsp-der", out)
			},
		},
		{
			name: "issuers as PEM and DER",
			testFunc: func(t *testing.T) {
				out, err := run(t, "", "issuers", leafFile)
				require.NoError(t, err)
				assert.Equal(t, string(pkitest.PEM(pki.CACert)), out)

				out, err = run(t, "", "issuers", "--der", leafFile)
				require.NoError(t, err)
				assert.Equal(t, string(pki.CACert.Raw), out)
			},
		},
		{
			name: "invalid certificate file",
			testFunc: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "invalid.cer")
				require.NoError(t, os.WriteFile(path, []byte("invalid data"), 0o600))

				_, err := run(t, "", "crl", path)
				assert.ErrorContains(t, err, "error decoding certificate")
			},
		},
		{
			name: "non-existent certificate file",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "issuers", filepath.Join(t.TempDir(), "nonexistent.cer"))
				assert.ErrorIs(t, err, os.ErrNotExist)
			},
		},
		{
			name: "invalid TLS version flag",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "get", "--tls-version", "SSLv3", srv.URL+"/data.crl")
				assert.ErrorContains(t, err, "tlsVersion")
			},
		},
		{
			name: "invalid log level flag",
			testFunc: func(t *testing.T) {
				_, err := run(t, "", "get", "--log-level", "chatty", srv.URL+"/data.crl")
				assert.Error(t, err)
			},
		},
		{
			name: "config file is honored",
			testFunc: func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "loader.yaml")
				require.NoError(t, os.WriteFile(path, []byte("transport:\n  acceptedStatus: [404]\n"), 0o600))

				out, err := run(t, "", "get", "--config", path, srv.URL+"/missing")
				require.NoError(t, err)
				assert.Contains(t, out, "not found")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestExecuteVersion(t *testing.T) {
	out, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}
