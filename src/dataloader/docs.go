// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package dataloader retrieves remote trust data such as [CRLs], [OCSP]
// responses and issuer certificates referenced by AIA extensions.
//
// Sources are given as URLs. HTTP and HTTPS are fetched through a client
// built for each request from an immutable [Config]: trust and key stores
// for TLS, a per-scheme [ProxyConfig] with excluded hosts, and Basic
// credentials from a [CredentialStore] sent preemptively. FTP, file and
// LDAP locations are read with their own strategies and never fail; a
// problem there is logged and reported as no data.
//
// Revocation data is usually mirrored, so [Loader.GetAny] walks the
// candidate locations in order and stops at the first one that returns
// data:
//
//	loader := dataloader.New(
//		dataloader.WithConnectTimeout(5*time.Second),
//		dataloader.WithTrustStore(keystore.Source{Path: "roots.pem"}),
//		dataloader.WithLogger(log),
//	)
//
//	res, err := loader.GetAny(ctx, cert.CRLDistributionPoints)
//	if err != nil {
//		// the last candidate failed
//	}
//	if res == nil {
//		// no candidate had data
//	}
//
// Errors returned by the loader are *[Error] values whose [ErrorKind] tells
// configuration problems apart from connectivity, status and entity failures.
//
// [CRLs]: https://datatracker.ietf.org/doc/html/rfc5280#section-5
// [OCSP]: https://datatracker.ietf.org/doc/html/rfc6960
package dataloader
