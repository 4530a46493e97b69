// Package ctxlog provides context-aware structured logging utilities.
package ctxlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Config struct {
	// Dir receives one log file per process start. Empty logs to stderr only.
	Dir   string     `yaml:"dir"`
	Level slog.Level `yaml:"level"`
}

var setupOnce sync.Once

// Setup installs the process logger on first call and stores it in ctx.
// Later calls reuse the default logger.
func Setup(ctx context.Context, name string, config Config) context.Context {
	setupOnce.Do(func() {
		w := io.Writer(os.Stderr)

		if config.Dir != "" {
			err := os.MkdirAll(config.Dir, 0755)
			if err != nil {
				panic(fmt.Errorf("ctxlog: create log dir: %w", err))
			}

			file := name + "-" + time.Now().Format("2006-01-02-15-04-05.log")
			logFile, err := os.Create(filepath.Join(config.Dir, file))
			if err != nil {
				panic(fmt.Errorf("ctxlog: create log file: %w", err))
			}

			w = io.MultiWriter(os.Stderr, logFile)
		}

		logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: config.Level}))
		slog.SetDefault(logger.With("app", name))
	})

	return Store(ctx, slog.Default())
}

type ctxKey struct{}

var key ctxKey

func Store(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, key, log)
}

func Get(ctx context.Context) *slog.Logger {
	log, ok := ctx.Value(key).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return log
}

func Close(ctx context.Context, name string, closer io.Closer) error {
	logger := Get(ctx)
	err := closer.Close()
	if err != nil {
		logger.Error("failed to close", "closer", name, "error", err)
		return err
	}
	return nil
}

func With(ctx context.Context, kv ...any) context.Context {
	return Store(ctx, Get(ctx).With(kv...))
}
