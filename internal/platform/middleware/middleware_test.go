// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storefront/internal/platform/ctxutil"
	"github.com/taibuivan/storefront/internal/platform/middleware"
)

/*
TestRequestID verifies client IDs are reused only when well formed.
*/
func TestRequestID(t *testing.T) {
	tests := []struct {
		name   string
		header string
		reused bool
	}{
		{"absent", "", false},
		{"well formed", "trace-01.abc_9", true},
		{"injection attempt", "abc\nlevel=ERROR", false},
		{"too long", strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetRequestID(request.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("X-Request-ID", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))
			if tt.reused {
				assert.Equal(t, tt.header, seen)
			} else {
				assert.NotEqual(t, tt.header, seen)
			}
		})
	}
}

/*
TestPanicRecovery verifies a panic becomes the standard 500 body.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body["code"])
	assert.NotContains(t, recorder.Body.String(), "boom")
}

/*
TestRateLimit verifies buckets are tracked per client IP.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, middleware.Limit{RPS: 1, Burst: 1})(
		http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}))

	call := func(ip string) int {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = ip + ":5555"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder.Code
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2"))
}

/*
TestRateLimit_ForwardedForFromUntrustedPeer verifies a client rotating
X-Forwarded-For still shares one bucket keyed on its socket address.
*/
func TestRateLimit_ForwardedForFromUntrustedPeer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, middleware.Limit{RPS: 0.01, Burst: 2})(
		http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		}))

	allowed := 0
	for i := 0; i < 50; i++ {
		request := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		request.RemoteAddr = "198.51.100.9:40000"
		request.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		request.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		if recorder.Code == http.StatusNoContent {
			allowed++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
		}
	}

	assert.Equal(t, 2, allowed)
}

/*
TestTrustedProxies_ClientIP verifies forwarding headers count only behind a
trusted peer.
*/
func TestTrustedProxies_ClientIP(t *testing.T) {
	proxies := middleware.TrustedProxies{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		proxies    middleware.TrustedProxies
		remoteAddr string
		forwarded  string
		realIP     string
		want       string
	}{
		{"no proxies ignores headers", nil, "192.0.2.1:5555", "203.0.113.7", "198.51.100.4", "192.0.2.1"},
		{"untrusted peer ignores headers", proxies, "192.0.2.1:5555", "203.0.113.7", "", "192.0.2.1"},
		{"trusted peer uses forwarded", proxies, "10.0.0.2:443", "203.0.113.7", "", "203.0.113.7"},
		{"spoofed prefix is skipped", proxies, "10.0.0.2:443", "1.2.3.4, 203.0.113.7", "", "203.0.113.7"},
		{"trusted hops are skipped", proxies, "10.0.0.2:443", "203.0.113.7, 10.0.0.5", "", "203.0.113.7"},
		{"trusted peer uses real ip", proxies, "10.0.0.2:443", "", "198.51.100.4", "198.51.100.4"},
		{"trusted peer without headers", proxies, "10.0.0.2:443", "", "", "10.0.0.2"},
		{"mapped ipv4 peer", proxies, "[::ffff:10.0.0.2]:443", "203.0.113.7", "", "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				request.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}

			assert.Equal(t, tt.want, tt.proxies.ClientIP(request))
		})
	}
}
