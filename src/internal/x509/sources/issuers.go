// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509sources

import (
	"context"
	"crypto/x509"
	"fmt"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
)

// DefaultMaxDepth bounds ResolveIssuers when no depth is given.
const DefaultMaxDepth = 10

// AnyGetter performs an ordered fallback fetch.
type AnyGetter interface {
	GetAny(ctx context.Context, urls []string) (*dataloader.FetchResult, error)
}

// IsSelfSigned checks if a certificate is self-signed.
func IsSelfSigned(cert *x509.Certificate) bool {
	return cert.CheckSignatureFrom(cert) == nil
}

// ResolveIssuers follows AIA caIssuers locations upwards from leaf.
//
// Every location of a certificate is tried in order through g, so mirrored
// and LDAP locations act as fallbacks. Downloaded data may be DER, PEM or a
// certs-only PKCS7 bundle; the certificate that signed the current one is
// picked from it. The walk ends at a self-signed certificate, at a
// certificate without locations, when no location has data, or after
// maxDepth issuers.
//
// Returns:
//   - []*x509.Certificate: the issuers found, nearest first (leaf excluded)
//   - error: the failure of the last location of a step, or a decoding error
//
// Issuers found before a failure are returned along with the error.
func ResolveIssuers(ctx context.Context, g AnyGetter, leaf *x509.Certificate, maxDepth int) ([]*x509.Certificate, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var (
		decoder = keystore.NewDecoder()
		issuers []*x509.Certificate
		current = leaf
	)

	for len(issuers) < maxDepth {
		if IsSelfSigned(current) {
			break
		}
		urls := IssuerSources(current)
		if len(urls) == 0 {
			break
		}

		res, err := g.GetAny(ctx, urls)
		if err != nil {
			return issuers, err
		}
		if res == nil {
			break
		}

		certs, err := decoder.DecodeMultiple(res.Data)
		if err != nil {
			return issuers, fmt.Errorf("x509sources: failed to decode issuer from %s: %w", res.URL, err)
		}

		issuer := pickIssuer(current, certs)
		if issuer == nil || issuer.Equal(current) || contains(issuers, issuer) {
			break
		}
		issuers = append(issuers, issuer)
		current = issuer
	}

	return issuers, nil
}

// pickIssuer returns the certificate in candidates that signed cert, or the
// first candidate when none verifies.
func pickIssuer(cert *x509.Certificate, candidates []*x509.Certificate) *x509.Certificate {
	for _, c := range candidates {
		if cert.CheckSignatureFrom(c) == nil {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}

func contains(certs []*x509.Certificate, cert *x509.Certificate) bool {
	for _, c := range certs {
		if c.Equal(cert) {
			return true
		}
	}
	return false
}
