// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509sources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
)

// maxProbeWorkers bounds concurrent probes.
const maxProbeWorkers = 8

// ProbeResult is the outcome of fetching a single location.
type ProbeResult struct {
	URL      string        `json:"url"`
	Scheme   string        `json:"scheme"`
	Bytes    int           `json:"bytes"`
	SHA256   string        `json:"sha256,omitempty"`
	Duration time.Duration `json:"durationNs"`
	Kind     string        `json:"kind,omitempty"`
	Err      error         `json:"-"`
	Error    string        `json:"error,omitempty"`
}

// OK reports whether the location returned data.
func (r ProbeResult) OK() bool { return r.Err == nil && r.Bytes > 0 }

// Status returns a short label for the result.
func (r ProbeResult) Status() string {
	switch {
	case r.Err != nil:
		return "failed"
	case r.Bytes == 0:
		return "empty"
	default:
		return "ok"
	}
}

// Probe fetches every location with g independently of the others, unlike
// GetAny which stops at the first success. Results keep the order of urls.
//
// Thread Safety: g must be safe for concurrent use; *dataloader.Loader is.
func Probe(ctx context.Context, g dataloader.Getter, urls []string) []ProbeResult {
	results := make([]ProbeResult, len(urls))
	sem := make(chan struct{}, maxProbeWorkers)

	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = probeOne(ctx, g, u)
		}(i, u)
	}
	wg.Wait()
	return results
}

func probeOne(ctx context.Context, g dataloader.Getter, u string) ProbeResult {
	res := ProbeResult{URL: u, Scheme: schemeOf(u)}

	start := time.Now()
	data, err := g.Get(ctx, u)
	res.Duration = time.Since(start)

	if err != nil {
		res.Err = err
		res.Error = err.Error()
		if k := dataloader.KindOf(err); k != 0 {
			res.Kind = k.String()
		}
		return res
	}
	res.Bytes = len(data)
	if len(data) > 0 {
		sum := sha256.Sum256(data)
		res.SHA256 = hex.EncodeToString(sum[:])
	}
	return res
}

func schemeOf(u string) string {
	if ep, err := dataloader.ParseEndpoint(u); err == nil {
		return ep.Scheme.String()
	}
	return dataloader.SchemeUnknown.String()
}
