// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Scheme classifies a source location.
type Scheme int

const (
	// SchemeUnknown is any scheme not listed below. It is fetched over HTTP.
	SchemeUnknown Scheme = iota
	SchemeHTTP
	SchemeHTTPS
	SchemeFTP
	SchemeFile
	// SchemeLDAP covers ldap and ldaps.
	SchemeLDAP
)

// String returns the scheme name.
func (s Scheme) String() string {
	switch s {
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	case SchemeFTP:
		return "ftp"
	case SchemeFile:
		return "file"
	case SchemeLDAP:
		return "ldap"
	default:
		return "unknown"
	}
}

// ClassifyScheme maps a URL scheme to a Scheme, case-insensitively.
func ClassifyScheme(scheme string) Scheme {
	switch strings.ToLower(scheme) {
	case "http":
		return SchemeHTTP
	case "https":
		return SchemeHTTPS
	case "ftp":
		return SchemeFTP
	case "file":
		return SchemeFile
	case "ldap", "ldaps":
		return SchemeLDAP
	default:
		return SchemeUnknown
	}
}

// Endpoint is a parsed source location.
type Endpoint struct {
	// Raw is the location exactly as the caller supplied it.
	Raw    string
	URL    *url.URL
	Scheme Scheme
}

// ParseEndpoint parses raw after trimming surrounding whitespace.
func ParseEndpoint(raw string) (Endpoint, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Endpoint{Raw: raw}, fmt.Errorf("invalid url: %w", err)
	}
	return Endpoint{Raw: raw, URL: u, Scheme: ClassifyScheme(u.Scheme)}, nil
}

// Get fetches a single source. A nil slice with a nil error means the
// source had no data.
//
// HTTP and HTTPS sources report failures as *Error. FTP, file and LDAP
// sources never fail: problems are logged and reported as no data.
// Locations with any other scheme are fetched over HTTP.
func (l *Loader) Get(ctx context.Context, rawURL string) ([]byte, error) {
	ep, err := ParseEndpoint(rawURL)
	if err != nil {
		return nil, newError(KindConnectivity, rawURL, err)
	}

	switch ep.Scheme {
	case SchemeHTTP, SchemeHTTPS:
		return l.httpGet(ctx, ep)
	case SchemeFTP, SchemeFile:
		return l.streamGet(ctx, ep), nil
	case SchemeLDAP:
		return l.ldapGet(ctx, ep), nil
	default:
		l.log.Warnf("only HTTP, HTTPS, FTP, file and LDAP locations are supported, trying %s over HTTP", rawURL)
		return l.httpGet(ctx, ep)
	}
}

// GetWithRefresh is Get. The refresh flag exists for callers that put a
// cache in front of the loader; the loader itself never caches.
func (l *Loader) GetWithRefresh(ctx context.Context, rawURL string, refresh bool) ([]byte, error) {
	return l.Get(ctx, rawURL)
}
