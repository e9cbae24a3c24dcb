// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"crypto/tls"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"github.com/H0llyW00dzZ/trust-data-loader/src/version"
)

// Default transport settings.
const (
	DefaultConnectTimeout   = 6 * time.Second
	DefaultSocketTimeout    = 6 * time.Second
	DefaultMaxTotalConns    = 20
	DefaultMaxConnsPerRoute = 2
	DefaultTLSVersion       = "TLSv1.2"
	DefaultRedirects        = true
)

// DefaultAcceptedStatus returns the default accepted status set.
func DefaultAcceptedStatus() []int { return []int{200} }

// Config is the transport configuration captured when a Loader is built.
// A Loader never mutates it.
type Config struct {
	// ConnectTimeout bounds the TCP (and FTP/LDAP) dial.
	ConnectTimeout time.Duration
	// SocketTimeout bounds every individual read or write on a connection.
	SocketTimeout time.Duration
	// RedirectsEnabled lets the HTTP client follow redirects.
	RedirectsEnabled bool
	// MaxTotalConns caps pooled idle connections.
	MaxTotalConns int
	// MaxConnsPerRoute caps connections per host.
	MaxConnsPerRoute int
	// AcceptedStatus lists the HTTP status codes treated as success.
	AcceptedStatus []int
	// TLSVersion is the minimum negotiated protocol ("TLSv1.2", "TLSv1.3", ...).
	TLSVersion string
	// KeyStore is the optional client identity for mutual TLS.
	KeyStore keystore.Source
	// TrustStore is the optional set of trust anchors. When unset the
	// platform roots are used.
	TrustStore keystore.Source
	// ContentType, when set, is sent on GET and POST requests.
	ContentType string
	// UserAgent is sent on HTTP requests.
	UserAgent string
}

// DefaultConfig returns a fresh configuration with every default applied.
func DefaultConfig() Config {
	return Config{
		ConnectTimeout:   DefaultConnectTimeout,
		SocketTimeout:    DefaultSocketTimeout,
		RedirectsEnabled: DefaultRedirects,
		MaxTotalConns:    DefaultMaxTotalConns,
		MaxConnsPerRoute: DefaultMaxConnsPerRoute,
		AcceptedStatus:   DefaultAcceptedStatus(),
		TLSVersion:       DefaultTLSVersion,
		UserAgent:        version.UserAgent(),
	}
}

// normalize restores defaults for zero values that would make the
// transport unusable.
func (c *Config) normalize() {
	if len(c.AcceptedStatus) == 0 {
		c.AcceptedStatus = DefaultAcceptedStatus()
	}
	if c.MaxTotalConns <= 0 {
		c.MaxTotalConns = DefaultMaxTotalConns
	}
	if c.MaxConnsPerRoute <= 0 {
		c.MaxConnsPerRoute = DefaultMaxConnsPerRoute
	}
	if c.TLSVersion == "" {
		c.TLSVersion = DefaultTLSVersion
	}
}

func (c Config) clone() Config {
	c.AcceptedStatus = slices.Clone(c.AcceptedStatus)
	return c
}

func (c Config) accepts(status int) bool {
	return slices.Contains(c.AcceptedStatus, status)
}

// ParseTLSVersion maps a protocol name to a crypto/tls version constant.
// Both the Java style ("TLSv1.2") and the short style ("1.2") are accepted.
func ParseTLSVersion(name string) (uint16, error) {
	v := strings.ToLower(strings.TrimSpace(name))
	v = strings.TrimPrefix(v, "tlsv")
	v = strings.TrimPrefix(v, "tls")
	switch v {
	case "1", "1.0":
		return tls.VersionTLS10, nil
	case "1.1":
		return tls.VersionTLS11, nil
	case "1.2":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported TLS version %q", name)
	}
}

// Option customizes a Loader.
type Option func(*Loader)

// WithConfig replaces the whole transport configuration.
func WithConfig(cfg Config) Option {
	return func(l *Loader) { l.cfg = cfg.clone() }
}

// WithConnectTimeout sets the dial timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(l *Loader) { l.cfg.ConnectTimeout = d }
}

// WithSocketTimeout sets the per read/write idle timeout.
func WithSocketTimeout(d time.Duration) Option {
	return func(l *Loader) { l.cfg.SocketTimeout = d }
}

// WithRedirects enables or disables following HTTP redirects.
func WithRedirects(enabled bool) Option {
	return func(l *Loader) { l.cfg.RedirectsEnabled = enabled }
}

// WithMaxTotalConns sets the pool size.
func WithMaxTotalConns(n int) Option {
	return func(l *Loader) { l.cfg.MaxTotalConns = n }
}

// WithMaxConnsPerRoute sets the per host connection cap.
func WithMaxConnsPerRoute(n int) Option {
	return func(l *Loader) { l.cfg.MaxConnsPerRoute = n }
}

// WithAcceptedStatus sets the accepted status codes. An empty list keeps {200}.
func WithAcceptedStatus(codes ...int) Option {
	return func(l *Loader) { l.cfg.AcceptedStatus = slices.Clone(codes) }
}

// WithTLSVersion sets the minimum TLS version.
func WithTLSVersion(name string) Option {
	return func(l *Loader) { l.cfg.TLSVersion = name }
}

// WithKeyStore sets the client identity used for mutual TLS.
func WithKeyStore(src keystore.Source) Option {
	return func(l *Loader) { l.cfg.KeyStore = src }
}

// WithTrustStore sets the trust anchors used to verify servers.
func WithTrustStore(src keystore.Source) Option {
	return func(l *Loader) { l.cfg.TrustStore = src }
}

// WithProxyConfig sets the proxy configuration. The pointer is kept, not copied.
func WithProxyConfig(p *ProxyConfig) Option {
	return func(l *Loader) { l.proxy = p }
}

// WithContentType sets the Content-Type header sent on requests.
func WithContentType(ct string) Option {
	return func(l *Loader) { l.cfg.ContentType = ct }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(l *Loader) { l.cfg.UserAgent = ua }
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log == nil {
			log = logger.Nop()
		}
		l.log = log
	}
}
