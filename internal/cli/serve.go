package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	grpcrouter "github.com/dtroode/jobboard/internal/api/grpc/router"
	grpcserver "github.com/dtroode/jobboard/internal/api/grpc/server"
	httpserver "github.com/dtroode/jobboard/internal/api/http/server"
	"github.com/dtroode/jobboard/internal/app"
	"github.com/dtroode/jobboard/internal/config"
	"github.com/dtroode/jobboard/internal/events"
	"github.com/dtroode/jobboard/internal/logger"
	"github.com/dtroode/jobboard/internal/model"
	"github.com/dtroode/jobboard/internal/scheduler"
	"github.com/dtroode/jobboard/internal/server"
	"github.com/dtroode/jobboard/internal/storage/minio"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(build BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
			defer stop()

			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			log := logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stdout)

			build.print(cmd.OutOrStdout())
			return serve(ctx, cfg, log)
		},
	}
}

// serve runs until ctx ends or a server fails to start; the latter is
// returned after the remaining servers are stopped.
func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	if cfg.LogLevel >= 0 {
		gin.SetMode(gin.ReleaseMode)
	}

	stores, err := app.OpenStores(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer stores.Close()

	var storage model.Storage
	if cfg.Storage.Enabled {
		bucket, err := minio.New(ctx, cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to initialize resume storage: %w", err)
		}
		storage = bucket
	} else {
		log.Warn("resume storage disabled")
	}

	var publisher model.EventPublisher = events.Noop{}
	if cfg.Redis.URL != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("failed to initialize event bus: %w", err)
		}
		defer rdb.Close()
		publisher = events.NewRedisPublisher(rdb)
	}

	a := app.New(cfg, stores, storage, publisher, log)

	janitor := scheduler.NewJanitor(a.Tokens, cfg.Janitor.Spec, cfg.Janitor.Retention, log)
	if err := janitor.Start(ctx); err != nil {
		return err
	}
	defer janitor.Stop()

	servers := []model.Server{httpserver.NewHTTPServer(a.Handler(), ":"+cfg.HTTP.Port)}
	if cfg.GRPC.Enabled {
		gs, health := grpcrouter.New(log).Register()
		servers = append(servers, grpcserver.NewGRPCServer(gs, health, ":"+cfg.GRPC.Port))
	}

	sl := server.NewSecurityLayer(cfg.TLS)

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(s model.Server) {
			defer wg.Done()
			log.Info("Starting server on", "address", s.Address())
			if err := s.Start(sl); err != nil {
				log.Error("failed to start server", "error", err, "address", s.Address())
				cancel(fmt.Errorf("server on %s: %w", s.Address(), err))
			}
		}(s)
	}

	<-ctx.Done()
	startErr := context.Cause(ctx)
	if errors.Is(startErr, context.Canceled) {
		startErr = nil
		log.Info("received interruption signal, shutting down")
	} else {
		log.Info("server failed, shutting down", "error", startErr)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Health goes NOT_SERVING before the API stops taking requests.
	for i := len(servers) - 1; i >= 0; i-- {
		if err := servers[i].Stop(shutdownCtx); err != nil {
			log.Error("error during server shutdown", "error", err, "address", servers[i].Address())
		}
	}

	wg.Wait()
	log.Info("shutdown complete")

	return startErr
}
