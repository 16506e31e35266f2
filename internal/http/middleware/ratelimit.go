package middlewarex

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RateLimit caps requests per client IP per minute using a redis fixed
// window. A nil client or a redis outage lets traffic through: losing the
// limiter must not take the endpoint down with it.
func RateLimit(rdb *redis.Client, perMin int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rdb == nil || perMin <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := "rl:" + clientIP(r) + ":" + time.Now().UTC().Format("200601021504")
			n, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if n == 1 {
				rdb.Expire(r.Context(), key, time.Minute)
			}
			if n > int64(perMin) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
