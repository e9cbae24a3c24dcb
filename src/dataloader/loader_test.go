// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dataloader_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/H0llyW00dzZ/trust-data-loader/src/dataloader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderGet(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "200 with entity",
			testFunc: func(t *testing.T) {
				srv := serve(t, body("crl-bytes"))

				data, err := dataloader.New().Get(ctx, srv.URL+"/ca.crl")
				require.NoError(t, err)
				assert.Equal(t, []byte("crl-bytes"), data)
			},
		},
		{
			name: "surrounding whitespace is trimmed",
			testFunc: func(t *testing.T) {
				srv := serve(t, body("crl-bytes"))

				data, err := dataloader.New().Get(ctx, "  "+srv.URL+"/ca.crl\n")
				require.NoError(t, err)
				assert.Equal(t, []byte("crl-bytes"), data)
			},
		},
		{
			name: "404 is a status error carrying the code",
			testFunc: func(t *testing.T) {
				srv := serve(t, http.NotFound)

				data, err := dataloader.New().Get(ctx, srv.URL+"/missing.crl")
				require.Error(t, err)
				assert.Nil(t, data)
				assert.True(t, dataloader.IsHTTPStatus(err))
				assert.ErrorIs(t, err, dataloader.ErrHTTPStatus)

				var le *dataloader.Error
				require.True(t, errors.As(err, &le))
				assert.Equal(t, 404, le.StatusCode)
				assert.Equal(t, "Not Found", le.Reason)
				assert.Equal(t, srv.URL+"/missing.crl", le.URL)
			},
		},
		{
			name: "200 without entity is an empty entity error",
			testFunc: func(t *testing.T) {
				srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
				})

				data, err := dataloader.New().Get(ctx, srv.URL)
				assert.Nil(t, data)
				assert.True(t, dataloader.IsEmptyEntity(err), "got %v", err)
			},
		},
		{
			name: "present but empty entity is no data",
			testFunc: func(t *testing.T) {
				srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusOK)
					w.(http.Flusher).Flush()
				})

				data, err := dataloader.New().Get(ctx, srv.URL)
				require.NoError(t, err)
				assert.NotNil(t, data)
				assert.Empty(t, data)
			},
		},
		{
			name: "custom accepted status",
			testFunc: func(t *testing.T) {
				srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
					w.WriteHeader(http.StatusAccepted)
					_, _ = w.Write([]byte("queued"))
				})

				_, err := dataloader.New().Get(ctx, srv.URL)
				assert.True(t, dataloader.IsHTTPStatus(err))

				data, err := dataloader.New(dataloader.WithAcceptedStatus(200, 202)).Get(ctx, srv.URL)
				require.NoError(t, err)
				assert.Equal(t, []byte("queued"), data)
			},
		},
		{
			name: "headers",
			testFunc: func(t *testing.T) {
				var ua, ct string
				srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
					ua, ct = r.UserAgent(), r.Header.Get("Content-Type")
					_, _ = w.Write([]byte("ok"))
				})

				_, err := dataloader.New(
					dataloader.WithUserAgent("probe/1.0"),
					dataloader.WithContentType("application/pkix-crl"),
				).Get(ctx, srv.URL)
				require.NoError(t, err)
				assert.Equal(t, "probe/1.0", ua)
				assert.Equal(t, "application/pkix-crl", ct)
			},
		},
		{
			name: "default user agent",
			testFunc: func(t *testing.T) {
				var ua string
				srv := serve(t, func(w http.ResponseWriter, r *http.Request) {
					ua = r.UserAgent()
					_, _ = w.Write([]byte("ok"))
				})

				_, err := dataloader.New().Get(ctx, srv.URL)
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(ua, "Trust-Data-Loader/"), ua)
			},
		},
		{
			name: "connection refused is a connectivity error",
			testFunc: func(t *testing.T) {
				_, err := dataloader.New().Get(ctx, "http://"+closedAddr(t)+"/ca.crl")
				assert.True(t, dataloader.IsConnectivity(err), "got %v", err)
			},
		},
		{
			name: "socket timeout",
			testFunc: func(t *testing.T) {
				srv := serve(t, func(w http.ResponseWriter, _ *http.Request) {
					time.Sleep(300 * time.Millisecond)
					_, _ = w.Write([]byte("late"))
				})

				_, err := dataloader.New(dataloader.WithSocketTimeout(50*time.Millisecond)).Get(ctx, srv.URL)
				assert.True(t, dataloader.IsConnectivity(err), "got %v", err)
			},
		},
		{
			name: "invalid url",
			testFunc: func(t *testing.T) {
				_, err := dataloader.New().Get(ctx, "http://[::1")
				assert.True(t, dataloader.IsConnectivity(err), "got %v", err)
			},
		},
		{
			name: "unknown scheme is tried over HTTP and logged",
			testFunc: func(t *testing.T) {
				log := newCaptureLogger()

				_, err := dataloader.New(dataloader.WithLogger(log)).Get(ctx, "gopher://127.0.0.1/crl")
				assert.True(t, dataloader.IsConnectivity(err), "got %v", err)
				assert.Contains(t, log.String(), "WARN:")
				assert.Contains(t, log.String(), "gopher://127.0.0.1/crl")
			},
		},
		{
			name: "GetWithRefresh ignores refresh",
			testFunc: func(t *testing.T) {
				srv := serve(t, body("fresh"))

				for _, refresh := range []bool{true, false} {
					data, err := dataloader.New().GetWithRefresh(ctx, srv.URL, refresh)
					require.NoError(t, err)
					assert.Equal(t, []byte("fresh"), data)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestLoaderRedirects(t *testing.T) {
	target := serve(t, body("moved-crl"))
	origin := serve(t, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL+"/ca.crl", http.StatusFound)
	})

	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "followed by default",
			testFunc: func(t *testing.T) {
				data, err := dataloader.New().Get(context.Background(), origin.URL)
				require.NoError(t, err)
				assert.Equal(t, []byte("moved-crl"), data)
			},
		},
		{
			name: "disabled surfaces the redirect status",
			testFunc: func(t *testing.T) {
				_, err := dataloader.New(dataloader.WithRedirects(false)).Get(context.Background(), origin.URL)

				var le *dataloader.Error
				require.True(t, errors.As(err, &le), "got %v", err)
				assert.Equal(t, dataloader.KindHTTPStatus, le.Kind)
				assert.Equal(t, http.StatusFound, le.StatusCode)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestNewDefaults(t *testing.T) {
	cfg := dataloader.New().Config()

	assert.Equal(t, 6*time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 6*time.Second, cfg.SocketTimeout)
	assert.True(t, cfg.RedirectsEnabled)
	assert.Equal(t, 20, cfg.MaxTotalConns)
	assert.Equal(t, 2, cfg.MaxConnsPerRoute)
	assert.Equal(t, []int{200}, cfg.AcceptedStatus)
	assert.Equal(t, "TLSv1.2", cfg.TLSVersion)
	assert.Nil(t, dataloader.New().ProxyConfig())
}

func TestNewNormalizes(t *testing.T) {
	cfg := dataloader.New(
		dataloader.WithAcceptedStatus(),
		dataloader.WithMaxTotalConns(0),
		dataloader.WithMaxConnsPerRoute(-1),
		dataloader.WithTLSVersion(""),
	).Config()

	assert.Equal(t, []int{200}, cfg.AcceptedStatus)
	assert.Equal(t, dataloader.DefaultMaxTotalConns, cfg.MaxTotalConns)
	assert.Equal(t, dataloader.DefaultMaxConnsPerRoute, cfg.MaxConnsPerRoute)
	assert.Equal(t, dataloader.DefaultTLSVersion, cfg.TLSVersion)
}

func TestConfigIsCopied(t *testing.T) {
	l := dataloader.New(dataloader.WithAcceptedStatus(200, 204))

	cfg := l.Config()
	cfg.AcceptedStatus[0] = 500

	assert.Equal(t, []int{200, 204}, l.Config().AcceptedStatus)
}

func TestWithConfig(t *testing.T) {
	base := dataloader.DefaultConfig()
	base.RedirectsEnabled = false
	base.ConnectTimeout = time.Second

	cfg := dataloader.New(dataloader.WithConfig(base), dataloader.WithSocketTimeout(2*time.Second)).Config()

	assert.False(t, cfg.RedirectsEnabled)
	assert.Equal(t, time.Second, cfg.ConnectTimeout)
	assert.Equal(t, 2*time.Second, cfg.SocketTimeout)
}

func TestParseTLSVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{in: "TLSv1.2", want: 0x0303},
		{in: "TLSv1.3", want: 0x0304},
		{in: "tlsv1.1", want: 0x0302},
		{in: "TLSv1", want: 0x0301},
		{in: "1.2", want: 0x0303},
		{in: "TLS1.3", want: 0x0304},
		{in: "SSLv3", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := dataloader.ParseTLSVersion(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
