package server

import (
	"net/http"
)

func hostMiddleware(host string, next http.Handler) http.Handler {
	if host == "" {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Host != host {
			w.Header().Set("Location", "//"+host+r.URL.RequestURI())
			w.WriteHeader(http.StatusTemporaryRedirect)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// headersMiddleware sets the response headers shared by every page.
func headersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Robots-Tag", "noindex, nofollow")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
