package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/weegigs/wee-indicator-go/support"
)

func build(ctx context.Context, cfg *support.Config) (*Application, func(), error) {
	switch cfg.Mode {
	case support.Live:
		return live(ctx, cfg)
	case support.Local:
		return local(ctx, cfg)
	default:
		return memory(cfg), func() {}, nil
	}
}

func run() error {
	cfg, err := support.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := tracing(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
	}()

	app, cleanup, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return app.Serve(ctx, cfg.ListenAddress)
}

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("indicator server failed")
	}
}
