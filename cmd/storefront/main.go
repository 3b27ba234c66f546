package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/dwikikusuma/ec-training/internal/bootstrap"
	"github.com/dwikikusuma/ec-training/internal/facade"
	"github.com/dwikikusuma/ec-training/internal/rpc"
	"github.com/dwikikusuma/ec-training/pkg/config"
	"github.com/dwikikusuma/ec-training/pkg/logger"
	"github.com/dwikikusuma/ec-training/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "storefront", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	backend, err := bootstrap.OpenBackend(ctx, cfg, log)
	if err != nil {
		log.Error("backend init failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer backend.Close()

	addr := fmt.Sprintf(":%d", cfg.GRPCPort)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.Error("listen failed", slog.Any("err", err), slog.String("addr", addr))
		os.Exit(1)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(rpc.LoggingInterceptor(log)))
	rpc.Register(grpcServer, rpc.NewServer(facade.NewLocal(backend.Services, 0)))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("grpc starting", slog.String("addr", addr), slog.String("store", cfg.StoreDriver))
		if err := grpcServer.Serve(lis); err != nil {
			log.Error("grpc serve error", slog.Any("err", err))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown requested")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopCtx.Done():
		log.Warn("graceful stop timeout, forcing stop")
		grpcServer.Stop()
	case <-stopped:
	}

	wg.Wait()
	log.Info("bye")
}
