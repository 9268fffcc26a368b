// Package httputil provides shared HTTP plumbing for the Riskify gateway:
// pooled clients with tiered timeouts and bounded response reading.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize caps response body reads. Inference APIs return small
// JSON payloads; anything larger is a misbehaving upstream.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB

// Shared transport with connection pooling, reused by every client tier
// so the process keeps one pool of TCP connections.
var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// TimeoutTier buckets operations by how long they may reasonably take.
type TimeoutTier int

const (
	// TierFast for health checks and status probes (5s).
	TierFast TimeoutTier = iota
	// TierMedium for standard API calls (30s).
	TierMedium
	// TierSlow for model inference, which may include a cold start (60s).
	TierSlow
)

var timeoutDurations = map[TimeoutTier]time.Duration{
	TierFast:   5 * time.Second,
	TierMedium: 30 * time.Second,
	TierSlow:   60 * time.Second,
}

var (
	clients    map[TimeoutTier]*http.Client
	clientOnce sync.Once
)

// Client returns the shared HTTP client for a timeout tier. Use these
// instead of constructing http.Client values per call site so connections
// are reused.
func Client(tier TimeoutTier) *http.Client {
	clientOnce.Do(func() {
		clients = make(map[TimeoutTier]*http.Client, len(timeoutDurations))
		for t, d := range timeoutDurations {
			clients[t] = &http.Client{Timeout: d, Transport: sharedTransport}
		}
	})
	if c, ok := clients[tier]; ok {
		return c
	}
	return clients[TierMedium]
}

// ReadResponseBody reads a response body with a size limit. A maxSize of
// zero or less applies MaxResponseSize.
func ReadResponseBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
