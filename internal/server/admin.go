package server

import (
	"crypto/subtle"
	"net/http"
)

const adminKeyName = "X-Admin-Key"

type admin struct {
	key             []byte
	notFoundHandler http.Handler
}

func newAdmin(key string, notFoundHandler http.Handler) *admin {
	return &admin{
		key:             []byte(key),
		notFoundHandler: notFoundHandler,
	}
}

func (a *admin) allowed(r *http.Request) bool {
	if len(a.key) == 0 {
		return false
	}

	key := r.Header.Get(adminKeyName)
	if key == "" {
		if cookie, _ := r.Cookie(adminKeyName); cookie != nil {
			key = cookie.Value
		}
	}
	return subtle.ConstantTimeCompare([]byte(key), a.key) == 1
}

// middleware hides the wrapped handler behind the 404 page unless the admin key matches.
func (a *admin) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.allowed(r) {
			next.ServeHTTP(w, r)
			return
		}

		a.notFoundHandler.ServeHTTP(w, r)
	})
}
