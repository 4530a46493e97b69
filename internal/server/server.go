// Package server serves the demos as HTML forms and a JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"dailies/internal/ctxlog"
	"dailies/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	addr            string
	handler         http.Handler
	shutdownTimeout time.Duration
	tls             *tlsLoader

	history  History
	metrics  *metrics.Metrics
	pages    *pages
	notFound http.Handler
}

// New builds the server. history may be nil, in which case runs are not recorded.
func New(config Config, history History) *Server {
	if config.Port == 0 {
		panic("server: port is required")
	}
	if config.ThrottleBuckets == 0 {
		panic("server: throttleBuckets is required")
	}
	if config.ThrottleRate <= 0 {
		panic("server: throttleRate is required")
	}
	if config.ShutdownTimeout == 0 {
		panic("server: shutdownTimeout is required")
	}

	static, err := fs.Sub(assets, "static")
	if err != nil {
		panic(fmt.Errorf("server: static assets: %w", err))
	}

	s := &Server{
		addr:            fmt.Sprintf("0.0.0.0:%d", config.Port),
		shutdownTimeout: config.ShutdownTimeout,
		history:         history,
		metrics:         metrics.Get(),
		pages:           newPages(),
		notFound:        notFoundHandler(dataFile(static, "404.html")),
	}
	if config.TLS.CertFile != "" {
		s.tls = newTLSLoader(config.TLS)
	}

	tooMany := tooManyRequestsHandler(dataFile(static, "429.html"))
	internalError := internalServerErrorHandler(dataFile(static, "500.html"))
	thr := newThrottle(config.ThrottleBuckets, config.ThrottleRate, config.ThrottleBurst, tooMany)
	adm := newAdmin(config.AdminKey, s.notFound)

	mux := http.NewServeMux()

	slog.Info("registering handler", "path", "/")
	mux.Handle("/", s.notFound)
	mux.Handle("GET /{$}", s.indexPage())
	mux.Handle("GET /static/style.css", cachedHandler(dataFile(static, "style.css")))

	for _, d := range demos {
		slog.Info("registering handler", "path", d.Path(), "demo", d.name)
		page := s.demoPage(d)
		mux.Handle("GET "+d.Path()+"{$}", page)
		mux.Handle("POST "+d.Path()+"{$}", page)
	}

	mux.Handle("POST /api/{demo}", s.api())
	mux.Handle("GET /history/{demo}", adm.middleware(s.historyPage()))
	mux.Handle("GET /metrics", adm.middleware(promhttp.Handler()))

	handler := http.Handler(mux)
	handler = thr.middleware(handler)
	handler = demoPathMiddleware(demos, handler)
	handler = headersMiddleware(handler)
	handler = hostMiddleware(config.Host, handler)
	handler = recoverMiddleware(internalError, handler)
	handler = logMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s.handler = handler
	return s
}

func (s *Server) Run(ctx context.Context) error {
	logger := ctxlog.Get(ctx)

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		BaseContext:       func(net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}
	if s.tls != nil {
		srv.TLSConfig = s.tls.config()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server is running", "addr", s.addr, "tls", s.tls != nil)

		var err error
		if s.tls != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	if s.tls != nil {
		g.Go(func() error {
			s.tls.reloadLoop(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()

		logger.Info("server is shutting down")

		stopCtx, stopCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer stopCancel()

		err := srv.Shutdown(stopCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Error("server shutdown timeout exceeded")
		} else if err == nil {
			logger.Info("all clients closed successfully")
		}
		return err
	})

	return g.Wait()
}
