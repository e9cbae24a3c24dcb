// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package keystore loads TLS trust and key material for the data loader and
// decodes [X.509] certificates fetched from AIA locations.
//
// Stores are described by a [Source] (path, type, password). Supported types are
// [PEM], DER, [PKCS7] bundles and [PKCS12] archives. Java KeyStore (JKS) files are
// not readable from Go and are rejected with [ErrUnsupportedType].
//
// [X.509]: https://grokipedia.com/page/X.509
// [PKCS7]: https://grokipedia.com/page/PKCS_7
// [PKCS12]: https://grokipedia.com/page/PKCS_12
// [PEM]: https://grokipedia.com/page/PEM#privacy-enhanced-mail
package keystore
