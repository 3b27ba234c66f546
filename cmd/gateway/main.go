package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/dwikikusuma/ec-training/internal/bootstrap"
	"github.com/dwikikusuma/ec-training/internal/facade"
	"github.com/dwikikusuma/ec-training/internal/httpapi"
	"github.com/dwikikusuma/ec-training/pkg/config"
	"github.com/dwikikusuma/ec-training/pkg/logger"
	"github.com/dwikikusuma/ec-training/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{
		Service:   "gateway",
		Env:       cfg.AppEnv,
		Level:     cfg.LogLevel,
		AddSource: true,
	})

	root := context.Background()
	ctx, cancel := shutdown.WithSignals(root)
	defer cancel()

	// The gateway serves its own endpoint, so remote mode would loop back.
	if facade.Mode(cfg.DataMode) == facade.ModeRemote {
		log.Error("gateway cannot run with DATA_MODE=remote; use mock or grpc")
		os.Exit(1)
	}

	hub := httpapi.NewHub(log)
	go hub.Run(ctx)

	data, backend, closeData, err := bootstrap.DataAccess(ctx, cfg, log, hub)
	if err != nil {
		log.Error("data access init failed", slog.Any("err", err), slog.String("mode", cfg.DataMode))
		os.Exit(1)
	}
	defer closeData()

	var ready func(context.Context) error
	if backend != nil {
		ready = backend.Ready
	} else {
		log.Warn("stock events are published by the backend process only", slog.String("mode", cfg.DataMode))
	}

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr: addr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Data:  data,
			Log:   log,
			Hub:   hub,
			Ready: ready,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("http server starting", slog.String("addr", addr), slog.String("mode", cfg.DataMode))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown error", slog.Any("err", err))
	}

	wg.Wait()
	log.Info("bye")
}
