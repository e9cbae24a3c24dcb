// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"maps"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// AnyPort in a HostKey matches every port of the host.
const AnyPort = -1

// HostKey identifies the scope a credential applies to. An empty Scheme
// covers every scheme; a Port of 0 or less covers every port.
type HostKey struct {
	Host   string
	Port   int
	Scheme string
}

func (k HostKey) normalized() HostKey {
	k.Host = strings.ToLower(strings.TrimSpace(k.Host))
	k.Scheme = strings.ToLower(strings.TrimSpace(k.Scheme))
	if k.Port <= 0 {
		k.Port = AnyPort
	}
	return k
}

// String formats the key as scheme://host:port.
func (k HostKey) String() string {
	port := "*"
	if k.Port > 0 {
		port = strconv.Itoa(k.Port)
	}
	if k.Scheme == "" {
		return k.Host + ":" + port
	}
	return k.Scheme + "://" + k.Host + ":" + port
}

// Credential is a username and password pair sent as HTTP Basic auth.
type Credential struct {
	Username string
	Password string
}

// CredentialStore holds Basic credentials keyed by host. The zero value is
// ready to use and safe for concurrent use.
type CredentialStore struct {
	mu      sync.RWMutex
	entries map[HostKey]Credential
}

// NewCredentialStore returns an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{entries: make(map[HostKey]Credential)}
}

// Add registers cred for key, replacing any previous entry.
func (s *CredentialStore) Add(key HostKey, cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[HostKey]Credential)
	}
	s.entries[key.normalized()] = cred
}

// With returns a copy of the store with cred added. s is left unchanged.
func (s *CredentialStore) With(key HostKey, cred Credential) *CredentialStore {
	dst := NewCredentialStore()
	s.CopyInto(dst)
	dst.Add(key, cred)
	return dst
}

// Entries returns a snapshot of every stored credential.
func (s *CredentialStore) Entries() map[HostKey]Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}

// Len returns the number of stored credentials.
func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// CopyInto adds every credential of s to dst.
func (s *CredentialStore) CopyInto(dst *CredentialStore) {
	if dst == nil || dst == s {
		return
	}
	for k, v := range s.Entries() {
		dst.Add(k, v)
	}
}

// Lookup returns the credential registered for host, port and scheme. The
// host and scheme are matched case-insensitively. A stored empty scheme
// matches every scheme and a stored AnyPort matches every port.
//
// Candidates are tried from most to least specific: exact key, any scheme,
// any port, then any port with any scheme.
func (s *CredentialStore) Lookup(host string, port int, scheme string) (Credential, bool) {
	want := HostKey{Host: host, Port: port, Scheme: scheme}.normalized()

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, k := range []HostKey{
		want,
		{Host: want.Host, Port: want.Port},
		{Host: want.Host, Port: AnyPort, Scheme: want.Scheme},
		{Host: want.Host, Port: AnyPort},
	} {
		if v, ok := s.entries[k]; ok {
			return v, true
		}
	}
	return Credential{}, false
}

// lookupURL resolves the credential for the host, effective port and
// scheme of u.
func (s *CredentialStore) lookupURL(u *url.URL) (Credential, bool) {
	return s.Lookup(u.Hostname(), effectivePort(u), u.Scheme)
}

// effectivePort returns the URL port, or the scheme default.
func effectivePort(u *url.URL) int {
	if p := u.Port(); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			return n
		}
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return 443
	case "ftp":
		return 21
	case "ldap":
		return 389
	default:
		return 80
	}
}
