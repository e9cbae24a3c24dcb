// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509sources_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/testutil/pkitest"
	x509sources "github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ocsp"
)

func serve(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func closedURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr + "/"
}

func TestSourceLists(t *testing.T) {
	pki := pkitest.Generate(t)
	leaf := pki.Leaf(t,
		[]string{"http://crl.example/a.crl", "http://crl.example/a.crl", "ldap://dir.example/cn=CA?certificateRevocationList"},
		[]string{"http://ocsp.example"},
		nil,
	)

	assert.Equal(t, []string{"http://crl.example/a.crl", "ldap://dir.example/cn=CA?certificateRevocationList"}, x509sources.CRLSources(leaf))
	assert.Equal(t, []string{"http://ocsp.example"}, x509sources.OCSPSources(leaf))
	assert.Empty(t, x509sources.IssuerSources(leaf))
	assert.NotNil(t, x509sources.IssuerSources(leaf))
}

func TestNewOCSPRequest(t *testing.T) {
	pki := pkitest.Generate(t)
	leaf := pki.Leaf(t, nil, []string{"http://ocsp.example"}, nil)

	der, err := x509sources.NewOCSPRequest(leaf, pki.CACert)
	require.NoError(t, err)

	req, err := ocsp.ParseRequest(der)
	require.NoError(t, err)
	assert.Equal(t, 0, req.SerialNumber.Cmp(leaf.SerialNumber))

	_, err = x509sources.NewOCSPRequest(leaf, nil)
	assert.Error(t, err)
}

func TestFetchCRL(t *testing.T) {
	pki := pkitest.Generate(t)
	srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("crl-bytes"))
	})

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "falls back to the mirror",
			testFunc: func(t *testing.T) {
				leaf := pki.Leaf(t, []string{closedURL(t), srv.URL + "/ca.crl"}, nil, nil)

				res, err := x509sources.FetchCRL(context.Background(), dataloader.New(), leaf)
				require.NoError(t, err)
				assert.Equal(t, []byte("crl-bytes"), res.Data)
				assert.Equal(t, srv.URL+"/ca.crl", res.URL)
			},
		},
		{
			name: "no distribution points",
			testFunc: func(t *testing.T) {
				leaf := pki.Leaf(t, nil, nil, nil)

				_, err := x509sources.FetchCRL(context.Background(), dataloader.New(), leaf)
				assert.ErrorIs(t, err, x509sources.ErrNoSources)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestFetchOCSP(t *testing.T) {
	pki := pkitest.Generate(t)

	var gotType string
	srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		body, err := io.ReadAll(r.Body)
		if err != nil || r.Method != http.MethodPost {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if _, err := ocsp.ParseRequest(body); err != nil {
			http.Error(w, "malformed", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte("ocsp-response"))
	})

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "second responder answers",
			testFunc: func(t *testing.T) {
				leaf := pki.Leaf(t, nil, []string{closedURL(t), srv.URL}, nil)
				l := dataloader.New(dataloader.WithContentType(x509sources.OCSPRequestContentType))

				res, err := x509sources.FetchOCSP(context.Background(), l, leaf, pki.CACert, nil)
				require.NoError(t, err)
				assert.Equal(t, []byte("ocsp-response"), res.Data)
				assert.Equal(t, srv.URL, res.URL)
				assert.Equal(t, x509sources.OCSPRequestContentType, gotType)
			},
		},
		{
			name: "last responder failure is returned",
			testFunc: func(t *testing.T) {
				busy := serve(t, func(w http.ResponseWriter, _ *http.Request) {
					http.Error(w, "try later", http.StatusServiceUnavailable)
				})
				leaf := pki.Leaf(t, nil, []string{closedURL(t), busy.URL}, nil)

				res, err := x509sources.FetchOCSP(context.Background(), dataloader.New(), leaf, pki.CACert, nil)
				assert.Nil(t, res)
				require.True(t, dataloader.IsHTTPStatus(err))
				var e *dataloader.Error
				require.ErrorAs(t, err, &e)
				assert.Equal(t, http.StatusServiceUnavailable, e.StatusCode)
				assert.Equal(t, busy.URL, e.URL)
			},
		},
		{
			name: "no responders",
			testFunc: func(t *testing.T) {
				leaf := pki.Leaf(t, nil, nil, nil)

				_, err := x509sources.FetchOCSP(context.Background(), dataloader.New(), leaf, pki.CACert, nil)
				assert.ErrorIs(t, err, x509sources.ErrNoSources)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}
