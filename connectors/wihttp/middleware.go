package wihttp

import (
	"net/http"
)

// Middleware shows the indicator for as long as each request is being served.
func Middleware(indicator Indicator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			indicator.SetVisible(r.Context(), true)
			defer indicator.SetVisible(r.Context(), false)

			next.ServeHTTP(w, r)
		})
	}
}
