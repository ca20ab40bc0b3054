// internal/httpx/middleware.go
package httpx

import (
	"log"
	"net/http"
	"runtime/debug"

	"golang.org/x/time/rate"
)

// Recover converts panics into a 500 envelope instead of a dropped
// connection. The stack is logged, never sent to the client.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic recovered: %v\n%s", rec, debug.Stack())
				write(w, http.StatusInternalServerError, envelope{
					Success: false,
					Message: "Something went wrong!",
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests above rps with 429 once the burst is spent.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				write(w, http.StatusTooManyRequests, envelope{
					Success: false,
					Message: "Too many requests",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
