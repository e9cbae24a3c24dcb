// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-ldap/ldap/v3"
)

// DefaultLDAPAttribute is requested when an LDAP URL names no attribute.
const DefaultLDAPAttribute = "certificateRevocationList;binary"

var errNoLDAPValue = errors.New("no value returned")

// LDAPQuery is the directory lookup described by an LDAP URL of the form
// ldap://host:port/DN?attributes?scope?filter?extensions.
type LDAPQuery struct {
	// Addr is scheme://host[:port], suitable for ldap.DialURL.
	Addr string
	// BaseDN is the unescaped distinguished name.
	BaseDN string
	// Attribute is the first requested attribute, DefaultLDAPAttribute when
	// none is given.
	Attribute string
}

// ParseLDAPURL extracts the lookup from an LDAP URL. Only the first
// attribute is used; scope, filter and extensions are ignored since the
// lookup always reads the entry named by the DN.
func ParseLDAPURL(u *url.URL) (LDAPQuery, error) {
	if u == nil || u.Host == "" {
		return LDAPQuery{}, errors.New("ldap url has no host")
	}

	q := LDAPQuery{
		Addr:      strings.ToLower(u.Scheme) + "://" + u.Host,
		BaseDN:    strings.TrimPrefix(u.Path, "/"),
		Attribute: DefaultLDAPAttribute,
	}

	attrs, _, _ := strings.Cut(u.RawQuery, "?")
	first, _, _ := strings.Cut(attrs, ",")
	if first != "" {
		unescaped, err := url.QueryUnescape(first)
		if err != nil {
			return LDAPQuery{}, fmt.Errorf("invalid ldap attribute %q: %w", first, err)
		}
		q.Attribute = unescaped
	}
	return q, nil
}

// ldapGet reads the first value of the requested attribute. Every failure
// is logged and reported as no data.
func (l *Loader) ldapGet(ctx context.Context, ep Endpoint) []byte {
	q, err := ParseLDAPURL(ep.URL)
	if err != nil {
		l.log.Warnf("cannot download CRL from %s: %v", ep.Raw, err)
		return nil
	}

	data, err := l.ldapSearch(ctx, q)
	if err != nil {
		l.log.Warnf("cannot download CRL from %s, attribute %s: %v", ep.Raw, q.Attribute, err)
		return nil
	}
	return data
}

// ldapSearcher is the part of an LDAP connection the strategy needs.
type ldapSearcher interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

// ldapDialer opens a directory connection for q. The returned func
// releases it.
type ldapDialer func(ctx context.Context, q LDAPQuery) (ldapSearcher, func(), error)

// dialLDAP connects to the directory of q, over TLS for ldaps.
func (l *Loader) dialLDAP(ctx context.Context, q LDAPQuery) (ldapSearcher, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	opts := []ldap.DialOpt{ldap.DialWithDialer(&net.Dialer{Timeout: l.cfg.ConnectTimeout})}
	if strings.HasPrefix(q.Addr, "ldaps://") {
		l.buildMu.Lock()
		tlsCfg, err := l.cfg.tlsConfig()
		l.buildMu.Unlock()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, ldap.DialWithTLSConfig(tlsCfg))
	}

	conn, err := ldap.DialURL(q.Addr, opts...)
	if err != nil {
		return nil, nil, err
	}
	if l.cfg.SocketTimeout > 0 {
		conn.SetTimeout(l.cfg.SocketTimeout)
	}
	return conn, func() { conn.Close() }, nil
}

func (l *Loader) ldapSearch(ctx context.Context, q LDAPQuery) ([]byte, error) {
	dial := l.ldapDial
	if dial == nil {
		dial = l.dialLDAP
	}
	conn, release, err := dial(ctx, q)
	if err != nil {
		return nil, err
	}
	defer release()

	req := ldap.NewSearchRequest(
		q.BaseDN,
		ldap.ScopeBaseObject, ldap.NeverDerefAliases,
		0, 0, false,
		"(objectClass=*)",
		[]string{q.Attribute},
		nil,
	)
	res, err := conn.Search(req)
	if err != nil {
		return nil, err
	}
	return firstValue(res)
}

// firstValue returns the first value of the first attribute of the first
// entry.
func firstValue(res *ldap.SearchResult) ([]byte, error) {
	if res == nil || len(res.Entries) == 0 || len(res.Entries[0].Attributes) == 0 {
		return nil, errNoLDAPValue
	}
	attr := res.Entries[0].Attributes[0]
	if len(attr.ByteValues) == 0 || len(attr.ByteValues[0]) == 0 {
		return nil, errNoLDAPValue
	}
	return attr.ByteValues[0], nil
}
