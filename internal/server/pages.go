package server

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"dailies/internal/calc"
	"dailies/internal/ctxlog"
	"dailies/internal/db"
	"dailies/internal/tip"
)

const maxFormBytes = 64 << 10

type pageData struct {
	Demos []*demo
	Demo  *demo
	Form  url.Values

	Result  string
	Warning string

	Percentages []int
	Ops         []calc.Op

	Runs []db.Run
}

// Title and Path are read by the templates.
func (d *demo) Title() string { return d.title }
func (d *demo) Path() string  { return "/" + d.path + "/" }
func (d *demo) Name() string  { return d.name }

type pages struct {
	tmpl *template.Template
}

func newPages() *pages {
	return &pages{
		tmpl: template.Must(template.ParseFS(assets, "templates/*.html")),
	}
}

func (p *pages) render(w http.ResponseWriter, r *http.Request, name string, data pageData) {
	log := ctxlog.Get(r.Context())

	data.Demos = demos

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to write response", "error", err)
	}
}

// run executes a demo and records the outcome.
func (s *Server) run(ctx context.Context, d *demo, in url.Values) (string, error) {
	log := ctxlog.Get(ctx)

	out, err := d.run(in)
	s.metrics.DemoRun(d.name, err)

	if err != nil {
		log.Info("demo rejected input", "demo", d.name, "error", err)
	} else {
		log.Info("demo run", "demo", d.name)
	}

	if s.history != nil {
		run := db.Run{
			Input:  make(map[string]string, len(d.fields)),
			Output: out,
			At:     time.Now().UTC(),
		}
		for _, f := range d.fields {
			run.Input[f] = in.Get(f)
		}
		if err != nil {
			run.Error = err.Error()
		}

		if herr := s.history.AddRun(d.name, run); herr != nil {
			log.Error("failed to record run", "demo", d.name, "error", herr)
		}
	}

	return out, err
}

func warning(err error) string {
	var ie *inputError
	var fe *tip.FieldError
	switch {
	case errors.As(err, &ie), errors.As(err, &fe):
		return "Please check your input: " + err.Error()
	default:
		return err.Error()
	}
}

func (s *Server) demoPage(d *demo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := pageData{
			Demo:        d,
			Percentages: tip.Percentages,
			Ops:         calc.Ops(),
		}

		if r.Method == http.MethodPost {
			r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
			if err := r.ParseForm(); err != nil {
				data.Warning = "Could not read the form."
			} else {
				data.Form = r.PostForm
				out, err := s.run(r.Context(), d, r.PostForm)
				if err != nil {
					data.Warning = warning(err)
				} else {
					data.Result = out
				}
			}
		}

		s.pages.render(w, r, d.name+".html", data)
	})
}

func (s *Server) indexPage() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.pages.render(w, r, "index.html", pageData{})
	})
}
