// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package pkitest generates throwaway PKI material for tests: a CA, a
// localhost server identity, a client identity and leaf certificates carrying
// AIA, CRL distribution point and OCSP locations. Files are written to
// t.TempDir() and removed with it.
package pkitest

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var serial atomic.Int64

// PKI holds generated material and the files it was written to.
type PKI struct {
	Dir string

	CACert *x509.Certificate
	CAKey  *ecdsa.PrivateKey
	CAPool *x509.CertPool

	// CAFile is the CA certificate as PEM, CADERFile the same certificate as DER.
	CAFile    string
	CADERFile string

	// ServerTLS is a localhost identity signed by the CA.
	ServerTLS tls.Certificate

	// ClientBundleFile holds the client certificate followed by its PKCS8 key.
	ClientBundleFile string
	// ClientCertOnlyFile holds the client certificate without a key.
	ClientCertOnlyFile string
	ClientCert         *x509.Certificate
}

// Generate creates a CA, a server identity and a client identity.
func Generate(t testing.TB) *PKI {
	t.Helper()
	dir := t.TempDir()

	caKey := newKey(t)
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(serial.Add(1)),
		Subject:               pkix.Name{CommonName: "Trust Loader Test CA", Organization: []string{"Test"}},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	require.NoError(t, err, "create CA cert")
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err, "parse CA cert")

	p := &PKI{
		Dir:       dir,
		CACert:    caCert,
		CAKey:     caKey,
		CAPool:    x509.NewCertPool(),
		CAFile:    filepath.Join(dir, "ca.pem"),
		CADERFile: filepath.Join(dir, "ca.der"),
	}
	p.CAPool.AddCert(caCert)
	writePEM(t, p.CAFile, "CERTIFICATE", caDER)
	require.NoError(t, os.WriteFile(p.CADERFile, caDER, 0o600))

	serverKey := newKey(t)
	serverDER := p.sign(t, &x509.Certificate{
		Subject:     pkix.Name{CommonName: "localhost"},
		DNSNames:    []string{"localhost"},
		IPAddresses: []net.IP{net.IPv4(127, 0, 0, 1), net.IPv6loopback},
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}, serverKey)
	serverLeaf, err := x509.ParseCertificate(serverDER)
	require.NoError(t, err)
	p.ServerTLS = tls.Certificate{
		Certificate: [][]byte{serverDER},
		PrivateKey:  serverKey,
		Leaf:        serverLeaf,
	}

	clientKey := newKey(t)
	clientDER := p.sign(t, &x509.Certificate{
		Subject:     pkix.Name{CommonName: "trust-loader-client"},
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}, clientKey)
	p.ClientCert, err = x509.ParseCertificate(clientDER)
	require.NoError(t, err)

	keyDER, err := x509.MarshalPKCS8PrivateKey(clientKey)
	require.NoError(t, err)

	p.ClientBundleFile = filepath.Join(dir, "client.pem")
	bundle := append(
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: clientDER}),
		pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})...,
	)
	require.NoError(t, os.WriteFile(p.ClientBundleFile, bundle, 0o600))

	p.ClientCertOnlyFile = filepath.Join(dir, "client-cert.pem")
	writePEM(t, p.ClientCertOnlyFile, "CERTIFICATE", clientDER)

	return p
}

// Leaf issues a certificate signed by the CA that points at the given
// revocation and issuer locations.
func (p *PKI) Leaf(t testing.TB, crlURLs, ocspURLs, issuerURLs []string) *x509.Certificate {
	t.Helper()
	der := p.sign(t, &x509.Certificate{
		Subject:               pkix.Name{CommonName: "leaf.example"},
		DNSNames:              []string{"leaf.example"},
		KeyUsage:              x509.KeyUsageDigitalSignature,
		CRLDistributionPoints: crlURLs,
		OCSPServer:            ocspURLs,
		IssuingCertificateURL: issuerURLs,
	}, newKey(t))
	cert, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return cert
}

// PEM encodes cert as a PEM block.
func PEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

func (p *PKI) sign(t testing.TB, tmpl *x509.Certificate, key *ecdsa.PrivateKey) []byte {
	t.Helper()
	tmpl.SerialNumber = big.NewInt(serial.Add(1))
	tmpl.NotBefore = time.Now().Add(-time.Hour)
	tmpl.NotAfter = time.Now().Add(24 * time.Hour)
	der, err := x509.CreateCertificate(rand.Reader, tmpl, p.CACert, &key.PublicKey, p.CAKey)
	require.NoError(t, err, "sign certificate")
	return der
}

func newKey(t testing.TB) *ecdsa.PrivateKey {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err, "generate key")
	return key
}

func writePEM(t testing.TB, path, blockType string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: data}), 0o600))
}
