package server

import (
	"net/http"

	"dailies/internal/ctxlog"
	"dailies/internal/rec"
)

func recoverMiddleware(errHandler http.Handler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			// net/http uses this panic to abort a response on purpose.
			if v == http.ErrAbortHandler {
				panic(v)
			}

			log := ctxlog.Get(r.Context())
			log.Error("recovered panic", "error", rec.Panic(v))

			clear(w.Header())
			errHandler.ServeHTTP(w, r)
		}()

		next.ServeHTTP(w, r)
	})
}
