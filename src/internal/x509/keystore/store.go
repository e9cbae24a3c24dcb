// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudflare/cfssl/helpers"
	"golang.org/x/crypto/pkcs12"
)

// Type names a key or trust store encoding.
type Type string

const (
	// TypePEM is one or more PEM blocks (certificates, optionally a private key).
	TypePEM Type = "PEM"
	// TypeDER is one or more concatenated DER certificates.
	TypeDER Type = "DER"
	// TypePKCS7 is a certs-only PKCS7 bundle, DER or PEM wrapped.
	TypePKCS7 Type = "PKCS7"
	// TypePKCS12 is a PKCS12 archive (.p12, .pfx).
	TypePKCS12 Type = "PKCS12"
	// TypeJKS is a Java KeyStore. It is recognised only to be rejected.
	TypeJKS Type = "JKS"
)

var (
	// ErrUnsupportedType indicates a store type that cannot be loaded.
	ErrUnsupportedType = errors.New("keystore: unsupported store type")

	// ErrNoPrivateKey indicates a key store without a private key.
	ErrNoPrivateKey = errors.New("keystore: no private key found")
)

// Source describes where a store lives and how to open it.
type Source struct {
	// Path is the store location. An empty path means "not configured".
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// Type is the store encoding. When empty it is derived from the file extension.
	Type Type `json:"type,omitempty" yaml:"type,omitempty"`
	// Password unlocks PKCS12 archives and encrypted PEM keys.
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
}

// IsSet reports whether a store path is configured.
func (s Source) IsSet() bool { return strings.TrimSpace(s.Path) != "" }

// ResolveType returns the explicit type, or one derived from the file
// extension. Unknown extensions resolve to PKCS12, the portable keystore
// format.
func (s Source) ResolveType() Type {
	if s.Type != "" {
		return Type(strings.ToUpper(string(s.Type)))
	}
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".pem", ".crt", ".cer", ".key":
		return TypePEM
	case ".der":
		return TypeDER
	case ".p7b", ".p7c":
		return TypePKCS7
	case ".jks":
		return TypeJKS
	default:
		return TypePKCS12
	}
}

// LoadTrustStore reads the trust anchors described by src into a pool.
//
// Returns:
//   - *x509.CertPool: pool holding every certificate of the store
//   - error: read, decode or type errors
func LoadTrustStore(src Source) (*x509.CertPool, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("keystore: failed to read trust store: %w", err)
	}

	certs, err := trustCertificates(data, src)
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	for _, cert := range certs {
		pool.AddCert(cert)
	}
	return pool, nil
}

func trustCertificates(data []byte, src Source) ([]*x509.Certificate, error) {
	decoder := NewDecoder()

	switch src.ResolveType() {
	case TypePEM, TypeDER, TypePKCS7:
		return decoder.DecodeMultiple(data)
	case TypePKCS12:
		blocks, err := pkcs12.ToPEM(data, src.Password)
		if err != nil {
			return nil, fmt.Errorf("keystore: failed to decode PKCS12 trust store: %w", err)
		}
		var certs []*x509.Certificate
		for _, block := range blocks {
			if block.Type != blockCertificate {
				continue
			}
			cert, err := x509.ParseCertificate(block.Bytes)
			if err != nil {
				return nil, ErrParseCertificate
			}
			certs = append(certs, cert)
		}
		if len(certs) == 0 {
			return nil, ErrNoCertificates
		}
		return certs, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, src.ResolveType())
	}
}

// LoadKeyStore reads the client identity described by src.
// The first certificate found is the leaf; any further certificates are
// sent as its chain.
func LoadKeyStore(src Source) (tls.Certificate, error) {
	data, err := os.ReadFile(src.Path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("keystore: failed to read key store: %w", err)
	}

	switch src.ResolveType() {
	case TypePEM:
		return pemKeyPair(data, src.Password)
	case TypePKCS12:
		blocks, err := pkcs12.ToPEM(data, src.Password)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("keystore: failed to decode PKCS12 key store: %w", err)
		}
		var pemData []byte
		for _, block := range blocks {
			pemData = append(pemData, pem.EncodeToMemory(block)...)
		}
		pair, err := tls.X509KeyPair(pemData, pemData)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("keystore: invalid PKCS12 key pair: %w", err)
		}
		return pair, nil
	default:
		return tls.Certificate{}, fmt.Errorf("%w for key store: %s", ErrUnsupportedType, src.ResolveType())
	}
}

// pemKeyPair splits a PEM bundle into certificates and a private key. The
// key may be PKCS1, PKCS8 or SEC1, and may be encrypted with password.
func pemKeyPair(data []byte, password string) (tls.Certificate, error) {
	var (
		pair   tls.Certificate
		keyPEM []byte
	)

	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		switch {
		case block.Type == blockCertificate:
			pair.Certificate = append(pair.Certificate, block.Bytes)
		case strings.HasSuffix(block.Type, "PRIVATE KEY") && keyPEM == nil:
			keyPEM = pem.EncodeToMemory(block)
		}
		data = rest
	}

	if len(pair.Certificate) == 0 {
		return tls.Certificate{}, ErrNoCertificates
	}
	if keyPEM == nil {
		return tls.Certificate{}, ErrNoPrivateKey
	}

	key, err := helpers.ParsePrivateKeyPEMWithPassword(keyPEM, []byte(password))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("keystore: failed to parse private key: %w", err)
	}
	pair.PrivateKey = key

	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return tls.Certificate{}, ErrParseCertificate
	}
	pair.Leaf = leaf

	return pair, nil
}
