// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"context"
	"sync"

	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
)

// DataLoader is the retrieval surface used by validation code.
type DataLoader interface {
	Getter
	GetAny(ctx context.Context, urls []string) (*FetchResult, error)
	GetWithRefresh(ctx context.Context, url string, refresh bool) ([]byte, error)
	Post(ctx context.Context, url string, body []byte) ([]byte, error)
}

var _ DataLoader = (*Loader)(nil)

// Loader fetches trust data over HTTP(S), FTP, file and LDAP.
//
// Each request runs on its own client, built from the immutable
// configuration and the credentials registered at that moment. A Loader is
// safe for concurrent use; credentials should be registered before the
// first fetch.
type Loader struct {
	cfg   Config
	proxy *ProxyConfig
	creds *CredentialStore
	log   logger.Logger

	// buildMu serializes client construction.
	buildMu sync.Mutex

	// ldapDial replaces dialLDAP when set.
	ldapDial ldapDialer
}

// New creates a Loader with the default configuration adjusted by opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		cfg:   DefaultConfig(),
		creds: NewCredentialStore(),
		log:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cfg.normalize()
	return l
}

// Config returns a copy of the transport configuration.
func (l *Loader) Config() Config { return l.cfg.clone() }

// ProxyConfig returns the proxy configuration, or nil.
func (l *Loader) ProxyConfig() *ProxyConfig { return l.proxy }

// Credentials returns the loader's credential store.
func (l *Loader) Credentials() *CredentialStore { return l.creds }

// AddAuthentication registers Basic credentials for host and port. A port
// of AnyPort (or any value <= 0) matches every port of host. It returns l
// so calls can be chained.
func (l *Loader) AddAuthentication(host string, port int, scheme, username, password string) *Loader {
	l.creds.Add(HostKey{Host: host, Port: port, Scheme: scheme},
		Credential{Username: username, Password: password})
	return l
}

// PropagateAuthentication copies every registered credential into dst.
func (l *Loader) PropagateAuthentication(dst *Loader) {
	if dst == nil {
		return
	}
	l.creds.CopyInto(dst.creds)
}
