// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package keystore

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

const (
	blockCertificate = "CERTIFICATE"
	blockPKCS7       = "PKCS7"
)

var (
	// ErrInvalidPEMBlock indicates that the provided data does not contain a valid PEM block.
	ErrInvalidPEMBlock = errors.New("keystore: invalid PEM block")

	// ErrInvalidBlockType indicates that the PEM block type is not the expected certificate type.
	ErrInvalidBlockType = errors.New("keystore: invalid block type")

	// ErrParseCertificate indicates a failure to parse the certificate from the provided data.
	ErrParseCertificate = errors.New("keystore: failed to parse certificate")

	// ErrParsePKCS7 indicates a failure to parse PKCS7 formatted data.
	ErrParsePKCS7 = errors.New("keystore: failed to parse PKCS7 data")

	// ErrNoCertificates indicates that decoding succeeded but yielded no certificates.
	ErrNoCertificates = errors.New("keystore: no certificates found")
)

// Decoder decodes [X.509] certificates in PEM, DER or PKCS7 form.
// AIA issuer locations commonly serve a single DER certificate or a
// certs-only PKCS7 bundle (.p7c); both are handled.
//
// [X.509]: https://en.wikipedia.org/wiki/X.509
type Decoder struct {
	certBlockType string
}

// NewDecoder creates a new Decoder with default settings.
func NewDecoder() *Decoder {
	return &Decoder{certBlockType: blockCertificate}
}

// IsPEM checks if the data is in PEM format.
func (d *Decoder) IsPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

// DecodeMultiple decodes every certificate held in data.
func (d *Decoder) DecodeMultiple(data []byte) ([]*x509.Certificate, error) {
	if d.IsPEM(data) {
		var certs []*x509.Certificate

		for len(data) > 0 {
			block, rest := pem.Decode(data)
			if block == nil {
				break
			}

			switch block.Type {
			case d.certBlockType:
				cert, err := x509.ParseCertificate(block.Bytes)
				if err != nil {
					return nil, ErrParseCertificate
				}
				certs = append(certs, cert)
			case blockPKCS7:
				bundle, err := d.decodePKCS7(block.Bytes)
				if err != nil {
					return nil, err
				}
				certs = append(certs, bundle...)
			default:
				return nil, ErrInvalidBlockType
			}

			data = rest
		}

		if len(certs) == 0 {
			return nil, ErrNoCertificates
		}
		return certs, nil
	}

	data = bytes.TrimSpace(data)
	if certs, err := x509.ParseCertificates(data); err == nil && len(certs) > 0 {
		return certs, nil
	}

	return d.decodePKCS7(data)
}

// Decode decodes the first certificate held in data.
func (d *Decoder) Decode(data []byte) (*x509.Certificate, error) {
	if d.IsPEM(data) {
		block, _ := pem.Decode(data)
		switch block.Type {
		case d.certBlockType, blockPKCS7:
			data = block.Bytes
		default:
			return nil, ErrInvalidBlockType
		}
	}

	cert, err := x509.ParseCertificate(data)
	if err == nil {
		return cert, nil
	}

	certs, err := d.decodePKCS7(data)
	if err != nil {
		return nil, err
	}

	return certs[0], nil
}

// decodePKCS7 extracts the certificates of a PKCS7 SignedData structure
// using Cloudflare's library.
func (d *Decoder) decodePKCS7(data []byte) ([]*x509.Certificate, error) {
	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrParsePKCS7
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificates
	}
	return p.Content.SignedData.Certificates, nil
}

// EncodePEM encodes a certificate to PEM format.
func (d *Decoder) EncodePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  d.certBlockType,
		Bytes: cert.Raw,
	})
}

// EncodeMultiplePEM encodes multiple certificates to PEM format.
func (d *Decoder) EncodeMultiplePEM(certs []*x509.Certificate) []byte {
	var data []byte

	for _, cert := range certs {
		data = append(data, d.EncodePEM(cert)...)
	}

	return data
}
