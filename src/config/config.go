// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/x509/keystore"
	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	// EnvConfigFile names the configuration file when no path is given.
	EnvConfigFile = "TRUST_LOADER_CONFIG_FILE"
	// EnvKeyStorePassword overrides keyStore.password.
	EnvKeyStorePassword = "TRUST_LOADER_KEYSTORE_PASSWORD"
	// EnvTrustStorePassword overrides trustStore.password.
	EnvTrustStorePassword = "TRUST_LOADER_TRUSTSTORE_PASSWORD"
	// EnvProxyPassword overrides the password of both proxies.
	EnvProxyPassword = "TRUST_LOADER_PROXY_PASSWORD"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Proxy describes one proxy. ExcludedHosts is a single string separated by
// commas, semicolons or spaces.
type Proxy struct {
	Host          string `json:"host" yaml:"host"`
	Port          int    `json:"port" yaml:"port"`
	User          string `json:"user,omitempty" yaml:"user,omitempty"`
	Password      string `json:"password,omitempty" yaml:"password,omitempty"`
	ExcludedHosts string `json:"excludedHosts,omitempty" yaml:"excludedHosts,omitempty"`
}

func (p *Proxy) properties() *dataloader.ProxyProperties {
	if p == nil || strings.TrimSpace(p.Host) == "" {
		return nil
	}
	return &dataloader.ProxyProperties{
		Host:          p.Host,
		Port:          p.Port,
		User:          p.User,
		Password:      p.Password,
		ExcludedHosts: dataloader.ParseExcludedHosts(p.ExcludedHosts),
	}
}

// Credential is a Basic credential registered on the loader. A port of 0
// matches every port of the host and an empty scheme matches every scheme.
type Credential struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	Scheme   string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
}

// Config represents the loader configuration file.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// TRUST_LOADER_CONFIG_FILE environment variable or an explicit path, with
// defaults applied for any missing values. Timeouts are in milliseconds.
// Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Transport: HTTP client settings
	Transport struct {
		ConnectTimeoutMs int `json:"connectTimeoutMs" yaml:"connectTimeoutMs"`
		SocketTimeoutMs  int `json:"socketTimeoutMs" yaml:"socketTimeoutMs"`
		// RedirectsEnabled: follow HTTP redirects (default true)
		RedirectsEnabled *bool  `json:"redirectsEnabled,omitempty" yaml:"redirectsEnabled,omitempty"`
		MaxTotalConns    int    `json:"maxTotalConns" yaml:"maxTotalConns"`
		MaxConnsPerRoute int    `json:"maxConnsPerRoute" yaml:"maxConnsPerRoute"`
		AcceptedStatus   []int  `json:"acceptedStatus,omitempty" yaml:"acceptedStatus,omitempty"`
		TLSVersion       string `json:"tlsVersion" yaml:"tlsVersion"`
		ContentType      string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
		UserAgent        string `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	} `json:"transport" yaml:"transport"`

	// KeyStore: client identity for mutual TLS
	KeyStore keystore.Source `json:"keyStore" yaml:"keyStore"`
	// TrustStore: trust anchors; the platform roots are used when unset
	TrustStore keystore.Source `json:"trustStore" yaml:"trustStore"`

	// Proxy: separate proxies for HTTP and HTTPS targets
	Proxy struct {
		HTTP  *Proxy `json:"http,omitempty" yaml:"http,omitempty"`
		HTTPS *Proxy `json:"https,omitempty" yaml:"https,omitempty"`
	} `json:"proxy" yaml:"proxy"`

	// Credentials: Basic credentials sent preemptively to matching hosts
	Credentials []Credential `json:"credentials,omitempty" yaml:"credentials,omitempty"`

	// Log: logging settings
	Log struct {
		Level string `json:"level" yaml:"level"`
	} `json:"log" yaml:"log"`

	// MCP: settings of the MCP server
	MCP struct {
		// TimeoutSeconds bounds a single tool call
		TimeoutSeconds int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
		// MaxResultBytes caps the data a tool returns
		MaxResultBytes int `json:"maxResultBytes" yaml:"maxResultBytes"`
		// LogFile receives JSON logs; the server is silent without it
		LogFile string `json:"logFile,omitempty" yaml:"logFile,omitempty"`
	} `json:"mcp" yaml:"mcp"`
}

// MCP defaults.
const (
	DefaultMCPTimeoutSeconds = 30
	DefaultMCPMaxResultBytes = 4 << 20
)

// Default returns a configuration holding every default.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	t := &c.Transport
	if t.ConnectTimeoutMs <= 0 {
		t.ConnectTimeoutMs = int(dataloader.DefaultConnectTimeout / time.Millisecond)
	}
	if t.SocketTimeoutMs <= 0 {
		t.SocketTimeoutMs = int(dataloader.DefaultSocketTimeout / time.Millisecond)
	}
	if t.RedirectsEnabled == nil {
		enabled := dataloader.DefaultRedirects
		t.RedirectsEnabled = &enabled
	}
	if t.MaxTotalConns <= 0 {
		t.MaxTotalConns = dataloader.DefaultMaxTotalConns
	}
	if t.MaxConnsPerRoute <= 0 {
		t.MaxConnsPerRoute = dataloader.DefaultMaxConnsPerRoute
	}
	if len(t.AcceptedStatus) == 0 {
		t.AcceptedStatus = dataloader.DefaultAcceptedStatus()
	}
	if t.TLSVersion == "" {
		t.TLSVersion = dataloader.DefaultTLSVersion
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.MCP.TimeoutSeconds <= 0 {
		c.MCP.TimeoutSeconds = DefaultMCPTimeoutSeconds
	}
	if c.MCP.MaxResultBytes <= 0 {
		c.MCP.MaxResultBytes = DefaultMCPMaxResultBytes
	}
}

// detectConfigFormat determines the configuration file format based on file extension.
func detectConfigFormat(configPath string) configFormat {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// Load loads the configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//
// Returns:
//   - *Config: the loaded configuration with defaults applied
//   - error: if the configuration file cannot be read or parsed
//
// Configuration Priority:
//  1. Config file values (the file named by configPath, else by TRUST_LOADER_CONFIG_FILE)
//  2. Default values for anything the file leaves unset
//  3. Password environment variables override both
func Load(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
			return nil, err
		}
	}

	config.applyDefaults()
	config.applyEnv()

	return config, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvKeyStorePassword); v != "" {
		c.KeyStore.Password = v
	}
	if v := os.Getenv(EnvTrustStorePassword); v != "" {
		c.TrustStore.Password = v
	}
	if v := os.Getenv(EnvProxyPassword); v != "" {
		for _, p := range []*Proxy{c.Proxy.HTTP, c.Proxy.HTTPS} {
			if p != nil {
				p.Password = v
			}
		}
	}
}

// ProxyConfig converts the proxy section, or returns nil when no proxy is set.
func (c *Config) ProxyConfig() *dataloader.ProxyConfig {
	httpProxy, httpsProxy := c.Proxy.HTTP.properties(), c.Proxy.HTTPS.properties()
	if httpProxy == nil && httpsProxy == nil {
		return nil
	}
	return &dataloader.ProxyConfig{HTTP: httpProxy, HTTPS: httpsProxy}
}

// Options converts the configuration into loader options. The TLS version
// is checked here so a typo fails at startup rather than on first fetch.
func (c *Config) Options(log logger.Logger) ([]dataloader.Option, error) {
	if _, err := dataloader.ParseTLSVersion(c.Transport.TLSVersion); err != nil {
		return nil, fmt.Errorf("invalid transport.tlsVersion: %w", err)
	}

	cfg := dataloader.DefaultConfig()
	cfg.ConnectTimeout = time.Duration(c.Transport.ConnectTimeoutMs) * time.Millisecond
	cfg.SocketTimeout = time.Duration(c.Transport.SocketTimeoutMs) * time.Millisecond
	if c.Transport.RedirectsEnabled != nil {
		cfg.RedirectsEnabled = *c.Transport.RedirectsEnabled
	}
	cfg.MaxTotalConns = c.Transport.MaxTotalConns
	cfg.MaxConnsPerRoute = c.Transport.MaxConnsPerRoute
	cfg.AcceptedStatus = c.Transport.AcceptedStatus
	cfg.TLSVersion = c.Transport.TLSVersion
	cfg.ContentType = c.Transport.ContentType
	if c.Transport.UserAgent != "" {
		cfg.UserAgent = c.Transport.UserAgent
	}
	cfg.KeyStore = c.KeyStore
	cfg.TrustStore = c.TrustStore

	opts := []dataloader.Option{dataloader.WithConfig(cfg), dataloader.WithLogger(log)}
	if p := c.ProxyConfig(); p != nil {
		opts = append(opts, dataloader.WithProxyConfig(p))
	}
	return opts, nil
}

// Apply registers the configured credentials on l.
func (c *Config) Apply(l *dataloader.Loader) {
	for _, cred := range c.Credentials {
		l.AddAuthentication(cred.Host, cred.Port, cred.Scheme, cred.Username, cred.Password)
	}
}

// NewLoader builds a loader from the configuration.
func (c *Config) NewLoader(log logger.Logger) (*dataloader.Loader, error) {
	opts, err := c.Options(log)
	if err != nil {
		return nil, err
	}
	l := dataloader.New(opts...)
	c.Apply(l)
	return l, nil
}
