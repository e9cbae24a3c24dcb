// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDirectory answers every search with a fixed result.
type fakeDirectory struct {
	result   *ldap.SearchResult
	err      error
	requests []*ldap.SearchRequest
	released bool
}

func (d *fakeDirectory) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	d.requests = append(d.requests, req)
	return d.result, d.err
}

func (d *fakeDirectory) dial(_ context.Context, _ LDAPQuery) (ldapSearcher, func(), error) {
	return d, func() { d.released = true }, nil
}

func entry(attrs ...*ldap.EntryAttribute) *ldap.SearchResult {
	return &ldap.SearchResult{Entries: []*ldap.Entry{{DN: "CN=Test CA,O=Example", Attributes: attrs}}}
}

func attribute(name string, values ...[]byte) *ldap.EntryAttribute {
	return &ldap.EntryAttribute{Name: name, ByteValues: values}
}

func TestLDAPGet(t *testing.T) {
	ctx := context.Background()
	const location = "ldap://ldap.example.com/CN=Test%20CA,O=Example?certificateRevocationList;binary"

	newLoader := func(d *fakeDirectory) (*Loader, *bytes.Buffer) {
		var buf bytes.Buffer
		log := logger.NewCLILogger()
		log.SetOutput(&buf)
		l := New(WithLogger(log))
		l.ldapDial = d.dial
		return l, &buf
	}

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "first value of the attribute",
			testFunc: func(t *testing.T) {
				crl := []byte{0x30, 0x82, 0x01, 0x00}
				d := &fakeDirectory{result: entry(
					attribute("certificateRevocationList;binary", crl, []byte("second")),
					attribute("other", []byte("ignored")),
				)}
				l, _ := newLoader(d)

				data, err := l.Get(ctx, location)
				require.NoError(t, err)
				assert.Equal(t, crl, data)
				assert.True(t, d.released)

				require.Len(t, d.requests, 1)
				req := d.requests[0]
				assert.Equal(t, "CN=Test CA,O=Example", req.BaseDN)
				assert.Equal(t, ldap.ScopeBaseObject, req.Scope)
				assert.Equal(t, "(objectClass=*)", req.Filter)
				assert.Equal(t, []string{"certificateRevocationList;binary"}, req.Attributes)
			},
		},
		{
			name: "default attribute",
			testFunc: func(t *testing.T) {
				d := &fakeDirectory{result: entry(attribute(DefaultLDAPAttribute, []byte("crl")))}
				l, _ := newLoader(d)

				data, err := l.Get(ctx, "ldap://ldap.example.com/CN=Test%20CA")
				require.NoError(t, err)
				assert.Equal(t, []byte("crl"), data)
				require.Len(t, d.requests, 1)
				assert.Equal(t, []string{DefaultLDAPAttribute}, d.requests[0].Attributes)
			},
		},
		{
			name: "no entries is no data",
			testFunc: func(t *testing.T) {
				d := &fakeDirectory{result: &ldap.SearchResult{}}
				l, buf := newLoader(d)

				data, err := l.Get(ctx, location)
				assert.NoError(t, err)
				assert.Nil(t, data)
				assert.Contains(t, buf.String(), "WARN:")
			},
		},
		{
			name: "entry without attributes is no data",
			testFunc: func(t *testing.T) {
				d := &fakeDirectory{result: entry()}
				l, buf := newLoader(d)

				data, err := l.Get(ctx, location)
				assert.NoError(t, err)
				assert.Nil(t, data)
				assert.Contains(t, buf.String(), "WARN:")
				assert.Contains(t, buf.String(), "certificateRevocationList;binary")
			},
		},
		{
			name: "attribute without values is no data",
			testFunc: func(t *testing.T) {
				d := &fakeDirectory{result: entry(attribute("certificateRevocationList;binary"))}
				l, _ := newLoader(d)

				data, err := l.Get(ctx, location)
				assert.NoError(t, err)
				assert.Nil(t, data)
			},
		},
		{
			name: "empty value is no data",
			testFunc: func(t *testing.T) {
				d := &fakeDirectory{result: entry(attribute("certificateRevocationList;binary", []byte{}))}
				l, _ := newLoader(d)

				data, err := l.Get(ctx, location)
				assert.NoError(t, err)
				assert.Nil(t, data)
			},
		},
		{
			name: "search failure is no data",
			testFunc: func(t *testing.T) {
				d := &fakeDirectory{err: errors.New("LDAP Result Code 32 \"No Such Object\"")}
				l, buf := newLoader(d)

				data, err := l.Get(ctx, location)
				assert.NoError(t, err)
				assert.Nil(t, data)
				assert.Contains(t, buf.String(), "No Such Object")
				assert.True(t, d.released)
			},
		},
		{
			name: "dial failure is no data",
			testFunc: func(t *testing.T) {
				l, buf := newLoader(&fakeDirectory{})
				l.ldapDial = func(context.Context, LDAPQuery) (ldapSearcher, func(), error) {
					return nil, nil, errors.New("connection refused")
				}

				data, err := l.Get(ctx, location)
				assert.NoError(t, err)
				assert.Nil(t, data)
				assert.Contains(t, buf.String(), "connection refused")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}
