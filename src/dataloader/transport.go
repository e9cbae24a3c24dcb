// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
)

// deadlineConn pushes the read or write deadline forward before every
// operation, so a connection idle for longer than timeout fails.
type deadlineConn struct {
	net.Conn
	timeout time.Duration
}

func (c *deadlineConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *deadlineConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}

func dialContext(connectTimeout, socketTimeout time.Duration) func(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: connectTimeout, KeepAlive: 30 * time.Second}
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := dialer.DialContext(ctx, network, addr)
		if err != nil || socketTimeout <= 0 {
			return conn, err
		}
		return &deadlineConn{Conn: conn, timeout: socketTimeout}, nil
	}
}

// tlsConfig builds the client TLS configuration from the trust and key
// stores. Without a trust store the platform roots are used.
func (c Config) tlsConfig() (*tls.Config, error) {
	minVersion, err := ParseTLSVersion(c.TLSVersion)
	if err != nil {
		return nil, err
	}
	cfg := &tls.Config{MinVersion: minVersion}

	if c.TrustStore.IsSet() {
		pool, err := keystore.LoadTrustStore(c.TrustStore)
		if err != nil {
			return nil, fmt.Errorf("unable to load trust store %s: %w", c.TrustStore.Path, err)
		}
		cfg.RootCAs = pool
	}

	if c.KeyStore.IsSet() {
		pair, err := keystore.LoadKeyStore(c.KeyStore)
		if err != nil {
			return nil, fmt.Errorf("unable to load key store %s: %w", c.KeyStore.Path, err)
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	return cfg, nil
}

// newClient builds a client dedicated to a single request to ep, together
// with the credential snapshot that request authenticates with.
//
// Construction is serialized per Loader. Callers must release the client
// with CloseIdleConnections once the request is done.
func (l *Loader) newClient(ep Endpoint) (*http.Client, *CredentialStore, error) {
	l.buildMu.Lock()
	defer l.buildMu.Unlock()

	tlsCfg, err := l.cfg.tlsConfig()
	if err != nil {
		return nil, nil, newError(KindTransportConfig, ep.Raw, err)
	}

	creds := NewCredentialStore()
	l.creds.CopyInto(creds)

	transport := &http.Transport{
		Proxy:                 l.proxy.route(ep, creds),
		DialContext:           dialContext(l.cfg.ConnectTimeout, l.cfg.SocketTimeout),
		TLSClientConfig:       tlsCfg,
		TLSHandshakeTimeout:   l.cfg.ConnectTimeout,
		MaxIdleConns:          l.cfg.MaxTotalConns,
		MaxIdleConnsPerHost:   l.cfg.MaxConnsPerRoute,
		MaxConnsPerHost:       l.cfg.MaxConnsPerRoute,
		IdleConnTimeout:       30 * time.Second,
		ExpectContinueTimeout: time.Second,
	}

	client := &http.Client{Transport: transport}
	if !l.cfg.RedirectsEnabled {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return client, creds, nil
}
