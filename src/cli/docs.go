// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the trust data loader.
// It implements a Cobra-based CLI with subcommands to fetch raw locations with
// fallback (get), post request bodies (post), probe every location of a list
// or certificate (probe), and retrieve the CRL, OCSP response or AIA issuers
// of a certificate (crl, ocsp, issuers). Results are written to stdout or a
// file; progress and diagnostics go to the logger.
package cli
