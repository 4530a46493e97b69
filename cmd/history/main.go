package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dailies/internal/config"
	"dailies/internal/ctxlog"
	"dailies/internal/db"
	"dailies/internal/rec"
)

func run(ctx context.Context, c config.Config) (err error) {
	defer rec.Error(&err)

	logger := ctxlog.Get(ctx)

	logger.Info("opening db", "file", c.DB.File)
	history, err := db.Open(c.DB)
	if err != nil {
		return err
	}
	defer ctxlog.Close(ctx, "db", history.Closer())

	for _, demo := range db.Demos {
		for run, err := range history.Runs(demo) {
			if err != nil {
				return err
			}
			logger.Info("run", "demo", demo, "at", run.At, "input", run.Input, "output", run.Output, "error", run.Error)
		}
	}

	return nil
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	file := "config.yaml"
	if len(os.Args) > 1 {
		file = os.Args[1]
	}

	c, err := config.Load(ctx, file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// History output goes to stderr only; no log file per listing.
	c.Log.Dir = ""
	ctx = ctxlog.Setup(ctx, "history", c.Log)
	logger := ctxlog.Get(ctx)

	err = run(ctx, c)
	if err != nil {
		logger.Error("stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}
