package server

import (
	"net/http"
	"strings"
)

func pathKey(p string) string {
	p = strings.Trim(p, "/")
	p = strings.ReplaceAll(p, "-", "")
	p = strings.ReplaceAll(p, "_", "")
	return strings.ToLower(p)
}

// demoPathMiddleware redirects loose spellings of a demo path, such as
// /CaesarCipher or /caesar, to the canonical /caesar-cipher/.
func demoPathMiddleware(demos []*demo, next http.Handler) http.Handler {
	m := map[string]string{}
	for _, d := range demos {
		m[pathKey(d.path)] = "/" + d.path + "/"
		m[pathKey(d.name)] = "/" + d.path + "/"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path, ok := m[pathKey(r.URL.Path)]; ok && r.URL.Path != path {
			w.Header().Set("Location", path)
			w.WriteHeader(http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}
