// cmd/creator-pilot/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"creator-pilot/internal/agent"
	"creator-pilot/internal/common/config"
	"creator-pilot/internal/common/database"
	"creator-pilot/internal/common/logger"
	"creator-pilot/internal/common/observability"
	"creator-pilot/internal/normalizer"
	"creator-pilot/internal/prompt"
	"creator-pilot/internal/router"
	"creator-pilot/internal/sequence"
	"creator-pilot/internal/server"
	"creator-pilot/internal/session"
	"creator-pilot/pkg/registry"
)

func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("%s aborted after %d attempts: %w", operationName, i+1, ctx.Err())
			}
			delay *= 2
			if delay > 30*time.Second {
				delay = 30 * time.Second
			}
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// loadRegistry falls back to the embedded registry when no file is
// configured or the file is missing.
func loadRegistry(path string, log *zap.Logger) (*registry.CapabilityRegistry, error) {
	if path == "" {
		return registry.Default(), nil
	}
	reg, err := registry.LoadRegistry(path)
	if os.IsNotExist(err) {
		log.Warn("capability registry file not found, using embedded default", zap.String("path", path))
		return registry.Default(), nil
	}
	return reg, err
}

func main() {
	configPath := flag.String("config", "", "path to a config file (default: configs/config.yaml)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting creator-pilot",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.NewNoop()
	if cfg.Observability.MetricsEnabled {
		obs = observability.New(cfg.Observability.ServiceName, nil)
	}
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg, err := loadRegistry(cfg.Registry.Path, zapLog)
	if err != nil {
		zapLog.Fatal("capability registry load failed", zap.Error(err))
	}

	// --- Sequence tracker ---
	var (
		tracker sequence.Tracker = sequence.NewMemoryTracker()
		pinger  server.Pinger
	)
	if cfg.Sequence.Backend == "redis" {
		redis := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(ctx, func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		tracker = sequence.NewRedisTracker(redis.Client, cfg.Sequence.KeyPrefix)
		pinger = redis
	}

	// --- Core components ---
	n, err := normalizer.New(reg, log)
	if err != nil {
		zapLog.Fatal("normalizer init failed", zap.Error(err))
	}
	prompts := prompt.NewBuilder(cfg.Prompt.MaxFieldRunes)
	client := agent.NewClient(agent.ConfigFrom(cfg), obs, log)

	controller := session.NewController(session.Dependencies{
		Invoker:    client,
		Router:     router.New(client, n, prompts, log),
		Normalizer: n,
		Prompts:    prompts,
		Tracker:    tracker,
		SyncDelay:  config.GetDuration(cfg.Onboarding.SyncDelay),
		Logger:     log,
	})

	api := server.New(server.Options{
		Controller: controller,
		Registry:   reg,
		Redis:      pinger,
		Version:    cfg.App.Version,
		Logger:     log,
	})
	srv := server.NewHTTPServer(cfg.Server, api.Handler())

	if err := server.Run(ctx, srv, config.GetDuration(cfg.Server.ShutdownTimeout), log); err != nil {
		zapLog.Error("http server failed", zap.Error(err))
		os.Exit(1)
	}
	zapLog.Info("creator-pilot stopped gracefully")
}
