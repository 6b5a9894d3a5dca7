// Package ratelimit throttles anonymous endpoints per client address.
package ratelimit

import (
	"context"
	"net"
	"net/http"

	"github.com/sirupsen/logrus"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Middleware rejects a request with 429 once its client is over the limit.
// Limiter failures let the request through.
func Middleware(l Limiter, logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			ok, err := l.Allow(r.Context(), ip)
			if err != nil {
				logger.WithError(err).WithField("ip", ip).Warn("rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}
			if !ok {
				w.Header().Set("Retry-After", "1")
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
