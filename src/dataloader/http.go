// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"bytes"
	"context"
	"io"
	"net/http"
)

func (l *Loader) httpGet(ctx context.Context, ep Endpoint) ([]byte, error) {
	return l.do(ctx, http.MethodGet, ep, nil)
}

// Post sends body to rawURL over HTTP and returns the response entity.
// Unlike Get, every status or entity problem is returned as an error.
func (l *Loader) Post(ctx context.Context, rawURL string, body []byte) ([]byte, error) {
	ep, err := ParseEndpoint(rawURL)
	if err != nil {
		return nil, newError(KindConnectivity, rawURL, err)
	}
	return l.do(ctx, http.MethodPost, ep, body)
}

// do executes one request on a client built for it and releases the client
// afterwards. Basic credentials matching the target are sent up front.
func (l *Loader) do(ctx context.Context, method string, ep Endpoint, body []byte) ([]byte, error) {
	client, creds, err := l.newClient(ep)
	if err != nil {
		return nil, err
	}
	defer client.CloseIdleConnections()

	var reader io.Reader
	if method == http.MethodPost {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, ep.URL.String(), reader)
	if err != nil {
		return nil, newError(KindConnectivity, ep.Raw, err)
	}
	if l.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", l.cfg.UserAgent)
	}
	if l.cfg.ContentType != "" {
		req.Header.Set("Content-Type", l.cfg.ContentType)
	}
	if cred, ok := creds.lookupURL(req.URL); ok {
		req.SetBasicAuth(cred.Username, cred.Password)
	}

	l.log.Debugf("%s %s", method, ep.Raw)

	resp, err := client.Do(req)
	if err != nil {
		return nil, newError(KindConnectivity, ep.Raw, err)
	}
	defer resp.Body.Close()

	return l.readResponse(ep.Raw, resp)
}
