package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"pocketspese/internal/app"
	"pocketspese/internal/cli"
	"pocketspese/internal/console"
	"pocketspese/internal/log"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	a, err := app.New(cfg, logger, nil)
	if err != nil {
		logger.Error("Failed to start session", log.FieldError, err.Error())
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer stop()
		return console.New(a, os.Stdin, os.Stdout, logger).Run(gctx)
	})

	err = g.Wait()
	a.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Session ended with error", log.FieldError, err.Error())
		os.Exit(1)
	}
}
