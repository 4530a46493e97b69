package server

import (
	"hash/fnv"
	"io"
	"net"
	"net/http"

	"golang.org/x/time/rate"
)

// throttle spreads clients over a fixed set of token buckets by remote host.
// Clients sharing a bucket share its budget.
type throttle struct {
	buckets         []*rate.Limiter
	tooManyRequests http.Handler
}

func newThrottle(buckets int, perSecond float64, burst int, tooManyRequests http.Handler) *throttle {
	if burst < 1 {
		burst = 1
	}

	b := make([]*rate.Limiter, buckets)
	for i := range b {
		b[i] = rate.NewLimiter(rate.Limit(perSecond), burst)
	}

	return &throttle{
		buckets:         b,
		tooManyRequests: tooManyRequests,
	}
}

func (t *throttle) bucket(r *http.Request) *rate.Limiter {
	var bucket int
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		h := fnv.New64()
		io.WriteString(h, host)
		bucket = int(h.Sum64() % uint64(len(t.buckets)))
	}
	return t.buckets[bucket]
}

func (t *throttle) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.bucket(r).Allow() {
			t.tooManyRequests.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
