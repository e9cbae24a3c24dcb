// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ProxyProperties describes one proxy.
type ProxyProperties struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// ExcludedHosts are target host names reached directly. Matching is
	// exact and case-insensitive.
	ExcludedHosts []string `json:"excludedHosts,omitempty" yaml:"excludedHosts,omitempty"`
}

// ProxyConfig holds the proxy used for HTTP targets and the one used for
// HTTPS targets. Either may be nil.
type ProxyConfig struct {
	HTTP  *ProxyProperties `json:"http,omitempty" yaml:"http,omitempty"`
	HTTPS *ProxyProperties `json:"https,omitempty" yaml:"https,omitempty"`
}

// ParseExcludedHosts splits a host list separated by commas, semicolons or
// spaces. Empty items are dropped.
func ParseExcludedHosts(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
}

// URL returns the proxy address as http://[user:password@]host:port. The
// proxy is always reached over plain HTTP; HTTPS targets are tunneled with
// CONNECT.
func (p *ProxyProperties) URL() *url.URL {
	u := &url.URL{
		Scheme: "http",
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
	}
	if p.User != "" && p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	}
	return u
}

func (p *ProxyProperties) excludes(host string) bool {
	for _, h := range p.ExcludedHosts {
		if strings.EqualFold(strings.TrimSpace(h), host) {
			return true
		}
	}
	return false
}

// forScheme returns the properties applying to scheme. Targets that are not
// HTTPS use the HTTP properties.
func (c *ProxyConfig) forScheme(scheme Scheme) *ProxyProperties {
	if c == nil {
		return nil
	}
	var p *ProxyProperties
	if scheme == SchemeHTTPS {
		p = c.HTTPS
	} else {
		p = c.HTTP
	}
	if p == nil || strings.TrimSpace(p.Host) == "" {
		return nil
	}
	return p
}

// route returns the transport proxy function for ep, or nil for a direct
// connection. Proxy credentials are registered in creds under the proxy's
// host and port.
func (c *ProxyConfig) route(ep Endpoint, creds *CredentialStore) func(*http.Request) (*url.URL, error) {
	props := c.forScheme(ep.Scheme)
	if props == nil {
		return nil
	}

	if props.User != "" && props.Password != "" && creds != nil {
		creds.Add(HostKey{Host: props.Host, Port: props.Port, Scheme: "http"},
			Credential{Username: props.User, Password: props.Password})
	}

	proxyURL := props.URL()
	return func(req *http.Request) (*url.URL, error) {
		if props.excludes(req.URL.Hostname()) {
			return nil, nil
		}
		return proxyURL, nil
	}
}
