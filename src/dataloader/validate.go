// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/H0llyW00dzZ/trust-data-loader/src/internal/helper/gc"
)

// readResponse checks the status against the accepted set and drains the
// entity into memory. The caller closes the body.
//
// A response without an entity fails with KindEmptyEntity. An entity that
// is present but empty yields an empty, non-nil slice.
func (l *Loader) readResponse(rawURL string, resp *http.Response) ([]byte, error) {
	if !l.cfg.accepts(resp.StatusCode) {
		return nil, statusError(rawURL, resp.StatusCode, reasonPhrase(resp))
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, newError(KindEmptyEntity, rawURL, nil)
	}

	data, err := gc.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindConnectivity, rawURL, err)
	}
	return data, nil
}

// reasonPhrase extracts the reason from a "404 Not Found" style status line.
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
