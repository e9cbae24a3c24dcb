// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package version provides centralized version information for the trust data loader.
package version

import "fmt"

// Version holds the current version of the trust data loader.
// This value can be overridden at build time using ldflags.
var Version = "0.1.0"

// UserAgent returns the default User-Agent sent on HTTP requests.
func UserAgent() string {
	return fmt.Sprintf("Trust-Data-Loader/%s (+https://github.com/H0llyW00dzZ/trust-data-loader)", Version)
}
