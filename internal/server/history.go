package server

import (
	"iter"
	"net/http"

	"dailies/internal/ctxlog"
	"dailies/internal/db"
)

const historyPageSize = 100

// History stores demo runs. *db.DB implements it.
type History interface {
	AddRun(demo string, run db.Run) error
	Runs(demo string) iter.Seq2[db.Run, error]
}

func (s *Server) historyPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d *demo
		for _, dd := range demos {
			if dd.name == r.PathValue("demo") {
				d = dd
			}
		}
		if d == nil || s.history == nil {
			s.notFound.ServeHTTP(w, r)
			return
		}

		data := pageData{Demo: d}
		for run, err := range s.history.Runs(d.name) {
			if err != nil {
				log := ctxlog.Get(r.Context())
				log.Error("failed to load history", "demo", d.name, "error", err)
				data.Warning = "History is unavailable."
				break
			}
			data.Runs = append(data.Runs, run)
			if len(data.Runs) == historyPageSize {
				break
			}
		}

		s.pages.render(w, r, "history.html", data)
	})
}
