// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509sources

import (
	"context"
	"crypto"
	"crypto/x509"
	"errors"
	"fmt"
	"strings"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"golang.org/x/crypto/ocsp"
)

// OCSPRequestContentType is sent with OCSP requests.
const OCSPRequestContentType = "application/ocsp-request"

// ErrNoSources indicates a certificate without locations of the requested kind.
var ErrNoSources = errors.New("x509sources: certificate lists no locations")

// CRLSources returns the CRL distribution points of cert in order, without
// blanks or duplicates.
func CRLSources(cert *x509.Certificate) []string {
	return clean(cert.CRLDistributionPoints)
}

// OCSPSources returns the OCSP responders of cert.
func OCSPSources(cert *x509.Certificate) []string {
	return clean(cert.OCSPServer)
}

// IssuerSources returns the AIA caIssuers locations of cert.
func IssuerSources(cert *x509.Certificate) []string {
	return clean(cert.IssuingCertificateURL)
}

func clean(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

// NewOCSPRequest builds a DER encoded OCSP request for cert, identified by
// a SHA-1 CertID as most responders expect.
func NewOCSPRequest(cert, issuer *x509.Certificate) ([]byte, error) {
	if cert == nil || issuer == nil {
		return nil, errors.New("x509sources: certificate and issuer are required")
	}
	req, err := ocsp.CreateRequest(cert, issuer, &ocsp.RequestOptions{Hash: crypto.SHA1})
	if err != nil {
		return nil, fmt.Errorf("x509sources: failed to create OCSP request: %w", err)
	}
	return req, nil
}

// Poster submits a request body to a location.
type Poster interface {
	Post(ctx context.Context, url string, body []byte) ([]byte, error)
}

// FetchCRL downloads the first available CRL of cert.
func FetchCRL(ctx context.Context, loader dataloader.DataLoader, cert *x509.Certificate) (*dataloader.FetchResult, error) {
	urls := CRLSources(cert)
	if len(urls) == 0 {
		return nil, ErrNoSources
	}
	return loader.GetAny(ctx, urls)
}

// FetchOCSP posts an OCSP request for cert to each responder in turn and
// returns the first response. The raw DER response is returned unparsed.
func FetchOCSP(ctx context.Context, p Poster, cert, issuer *x509.Certificate, log logger.Logger) (*dataloader.FetchResult, error) {
	urls := OCSPSources(cert)
	if len(urls) == 0 {
		return nil, ErrNoSources
	}
	req, err := NewOCSPRequest(cert, issuer)
	if err != nil {
		return nil, err
	}
	post := dataloader.GetterFunc(func(ctx context.Context, url string) ([]byte, error) {
		return p.Post(ctx, url, req)
	})
	return dataloader.GetAny(ctx, post, urls, log)
}
