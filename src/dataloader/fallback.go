// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader

import (
	"context"

	"github.com/H0llyW00dzZ/trust-data-loader/src/logger"
)

// Getter fetches a single location.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// GetterFunc adapts a function to Getter.
type GetterFunc func(ctx context.Context, url string) ([]byte, error)

// Get calls f.
func (f GetterFunc) Get(ctx context.Context, url string) ([]byte, error) { return f(ctx, url) }

// FetchResult is the payload of a successful fallback fetch and the
// location, as supplied by the caller, that produced it.
type FetchResult struct {
	Data []byte
	URL  string
}

// GetAny tries urls in order with g and returns the first non-empty result.
//
// Candidates with no data are skipped. Errors from every candidate but the
// last are logged and skipped; the last candidate's error is returned as an
// *Error, whatever its kind. When no candidate has data the result is nil
// with a nil error.
func GetAny(ctx context.Context, g Getter, urls []string, log logger.Logger) (*FetchResult, error) {
	if log == nil {
		log = logger.Nop()
	}

	for i, u := range urls {
		data, err := g.Get(ctx, u)
		if err != nil {
			e := asError(u, err)
			if i == len(urls)-1 {
				return nil, e
			}
			log.Warnf("impossible to obtain data using %s: %v", u, err)
			continue
		}
		if len(data) == 0 {
			log.Debugf("no data at %s, trying next location", u)
			continue
		}
		return &FetchResult{Data: data, URL: u}, nil
	}
	return nil, nil
}

// GetAny tries urls in order and returns the first non-empty result.
// See the package level GetAny.
func (l *Loader) GetAny(ctx context.Context, urls []string) (*FetchResult, error) {
	return GetAny(ctx, l, urls, l.log)
}
