package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	brandcms "github.com/goliatone/go-brand-cms"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := brandcms.LoadConfig()
	if err != nil {
		return err
	}

	module, err := brandcms.New(cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	if err := module.Migrate(ctx); err != nil {
		return err
	}

	logger := module.Container().LoggerProvider().GetLogger("brandcms.server")

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           module.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "base_path", cfg.Server.BasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
