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
	"dailies/internal/server"
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

	logger.Info("starting server")
	srv := server.New(c.Server, history)

	return srv.Run(ctx)
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

	ctx = ctxlog.Setup(ctx, "dailies", c.Log)
	logger := ctxlog.Get(ctx)

	err = run(ctx, c)
	if err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
	logger.Info("server gracefully stopped")
}
