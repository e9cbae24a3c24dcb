// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// trust-data-loader is a command-line tool that fetches certificate
// revocation lists, OCSP responses and CA issuer certificates over HTTP,
// HTTPS, FTP, LDAP and local files, falling back across mirrors.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/trust-data-loader/cmd/trust-data-loader@latest
//
// # Usage
//
//	trust-data-loader [--config FILE] COMMAND [FLAGS] ARGS
//
// # Commands
//
//	get URL [URL...]     Fetch the first location that returns data
//	post URL -d FILE     POST a request body and write the response
//	probe [URL...]       Fetch every location and report which ones answer
//	crl CERT             Download the CRL of a certificate
//	ocsp CERT [ISSUER]   Query the OCSP responders of a certificate
//	issuers CERT         Follow AIA issuer locations
//
// # Examples
//
// Download a CRL from the first mirror that answers:
//
//	trust-data-loader get http://crl1.example/ca.crl ldap://dir.example/cn=CA -o ca.crl
//
// Check every distribution point of a certificate:
//
//	trust-data-loader probe --cert leaf.pem
//
// Fetch an OCSP response and inspect it with OpenSSL:
//
//	trust-data-loader ocsp leaf.pem issuer.pem -o resp.der
//	openssl ocsp -respin resp.der -text -noverify
package main
