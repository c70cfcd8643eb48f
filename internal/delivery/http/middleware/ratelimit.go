package middleware

import (
	"net/http"
	"time"

	h "eventticketing/internal/delivery/http/helpers"

	"github.com/go-chi/httprate"
)

// RateLimit caps requests per client IP within window. A non-positive
// requests disables limiting.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "too many requests")
		}),
	)
}
