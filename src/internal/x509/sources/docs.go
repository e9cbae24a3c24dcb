// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509sources locates the trust data an [X.509] certificate points
// at and retrieves it through a [dataloader] fallback fetch. It provides
// capabilities to:
//   - List [CRL] distribution points, [OCSP] responders and AIA issuer locations.
//   - Build DER encoded OCSP requests and post them to each responder in turn.
//   - Walk AIA issuer locations up to a self-signed certificate.
//   - Probe every candidate location independently and render the outcome.
//
// The package never interprets CRLs or OCSP responses; it only finds and
// downloads them.
//
// [X.509]: https://grokipedia.com/page/X.509
// [OCSP]: https://grokipedia.com/page/Online_Certificate_Status_Protocol
// [CRL]: https://grokipedia.com/page/Certificate_revocation_list
package x509sources
