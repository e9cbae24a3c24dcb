// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package config loads the trust data loader configuration from JSON or YAML
// files and turns it into [dataloader] options.
//
// Example YAML:
//
//	transport:
//	  connectTimeoutMs: 6000
//	  socketTimeoutMs: 6000
//	  acceptedStatus: [200]
//	  tlsVersion: TLSv1.2
//	trustStore:
//	  path: /etc/trust/roots.pem
//	keyStore:
//	  path: /etc/trust/client.p12
//	  type: PKCS12
//	proxy:
//	  https:
//	    host: proxy.corp.example
//	    port: 8080
//	    excludedHosts: "crl.corp.example, ocsp.corp.example"
//	credentials:
//	  - host: crl.partner.example
//	    port: 443
//	    username: fetcher
//	    password: changeit
//	mcp:
//	  timeoutSeconds: 30
//	  logFile: /var/log/trust-data-loader-mcp.json
//
// Secrets can be kept out of the file with TRUST_LOADER_KEYSTORE_PASSWORD,
// TRUST_LOADER_TRUSTSTORE_PASSWORD and TRUST_LOADER_PROXY_PASSWORD.
package config
