package server

import (
	"context"
	"net/http"
	"strconv"
)

// rateLimitContextKey is the context key for rate limit info
type rateLimitContextKey struct{}

// RateLimitInfo carries the per-client request quota for the current day.
// Handlers fill it in after consulting the quota gate; the middleware writes
// it out as x-ratelimit-* headers.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	set       bool
}

// SetRateLimits records the quota state for this request. No-op if the
// middleware isn't present.
func SetRateLimits(ctx context.Context, limit, remaining int) {
	if rl, ok := ctx.Value(rateLimitContextKey{}).(*RateLimitInfo); ok {
		rl.Limit = limit
		rl.Remaining = remaining
		rl.set = true
	}
}

// RateLimitHeadersMiddleware injects a mutable RateLimitInfo into the request
// context and writes normalized x-ratelimit-* headers once the handler has
// populated it.
func RateLimitHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := &RateLimitInfo{}
		ctx := context.WithValue(r.Context(), rateLimitContextKey{}, info)
		wrapped := &rateLimitResponseWriter{ResponseWriter: w, info: info}
		next.ServeHTTP(wrapped, r.WithContext(ctx))
	})
}

// rateLimitResponseWriter wraps ResponseWriter to write rate limit headers
// just before the first byte of the response.
type rateLimitResponseWriter struct {
	http.ResponseWriter
	info         *RateLimitInfo
	wroteHeaders bool
}

func (rw *rateLimitResponseWriter) WriteHeader(code int) {
	if !rw.wroteHeaders {
		rw.writeRateLimitHeaders()
		rw.wroteHeaders = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *rateLimitResponseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeaders {
		rw.writeRateLimitHeaders()
		rw.wroteHeaders = true
	}
	return rw.ResponseWriter.Write(b)
}

func (rw *rateLimitResponseWriter) writeRateLimitHeaders() {
	if rw.info == nil || !rw.info.set {
		return
	}
	h := rw.Header()
	h.Set("x-ratelimit-limit-requests", strconv.Itoa(rw.info.Limit))
	// 0 is a valid remaining value
	h.Set("x-ratelimit-remaining-requests", strconv.Itoa(rw.info.Remaining))
}
