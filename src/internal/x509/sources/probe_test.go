// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509sources_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	x509sources "github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			http.Error(w, "gone", http.StatusGone)
			return
		}
		_, _ = w.Write([]byte("payload"))
	})
	file := filepath.Join(t.TempDir(), "local.crl")
	require.NoError(t, os.WriteFile(file, []byte("local"), 0o600))

	urls := []string{
		srv.URL + "/ok",
		srv.URL + "/gone",
		"file://" + filepath.ToSlash(file),
		closedURL(t),
	}

	results := x509sources.Probe(context.Background(), dataloader.New(), urls)
	require.Len(t, results, len(urls))
	for i, r := range results {
		assert.Equal(t, urls[i], r.URL, "results keep input order")
	}

	sum := sha256.Sum256([]byte("payload"))
	assert.True(t, results[0].OK())
	assert.Equal(t, "http", results[0].Scheme)
	assert.Equal(t, 7, results[0].Bytes)
	assert.Equal(t, hex.EncodeToString(sum[:]), results[0].SHA256)

	assert.Equal(t, "failed", results[1].Status())
	assert.Equal(t, "http_status", results[1].Kind)

	assert.Equal(t, "file", results[2].Scheme)
	assert.Equal(t, 5, results[2].Bytes)

	assert.False(t, results[3].OK())
	assert.Equal(t, "connectivity", results[3].Kind)
}

func TestRenderProbe(t *testing.T) {
	results := []x509sources.ProbeResult{
		{URL: "http://crl.example/a.crl", Scheme: "http", Bytes: 10, SHA256: strings.Repeat("ab", 32)},
		{URL: "http://crl.example/b.crl", Scheme: "http", Error: "dataloader: connectivity", Err: assert.AnError},
		{URL: "ftp://ftp.example/c.crl", Scheme: "ftp"},
	}

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "table",
			testFunc: func(t *testing.T) {
				out := x509sources.RenderProbeTable(results)
				assert.Contains(t, out, "http://crl.example/a.crl")
				assert.Contains(t, out, "ftp://ftp.example/c.crl")
				assert.Contains(t, out, "failed")
				assert.Contains(t, out, "empty")
				assert.Contains(t, out, "|")
			},
		},
		{
			name: "empty table",
			testFunc: func(t *testing.T) {
				assert.Equal(t, "No locations to display", x509sources.RenderProbeTable(nil))
			},
		},
		{
			name: "json",
			testFunc: func(t *testing.T) {
				data, err := x509sources.RenderProbeJSON(results)
				require.NoError(t, err)

				var report struct {
					Total     int `json:"total"`
					Available int `json:"available"`
					Results   []struct {
						URL   string `json:"url"`
						Error string `json:"error"`
					} `json:"results"`
				}
				require.NoError(t, json.Unmarshal(data, &report))
				assert.Equal(t, 3, report.Total)
				assert.Equal(t, 1, report.Available)
				assert.Equal(t, "dataloader: connectivity", report.Results[1].Error)
			},
		},
		{
			name: "json without results",
			testFunc: func(t *testing.T) {
				data, err := x509sources.RenderProbeJSON(nil)
				require.NoError(t, err)
				assert.Contains(t, string(data), `"results": []`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}
