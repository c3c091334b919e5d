package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/videocc/videocc/internal/infrastructure/config"
	"github.com/videocc/videocc/internal/infrastructure/database"
	httpRouter "github.com/videocc/videocc/internal/interfaces/http"
	"github.com/videocc/videocc/internal/shared/biztime"
	"github.com/videocc/videocc/internal/shared/logger"
)

// The worker runs the maintenance jobs for API replicas started with
// --no-jobs. Fraud history pruning only reaches a shared redis store.
func main() {
	env := "development"
	if len(os.Args) > 1 {
		env = os.Args[1]
	}
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		logger.Fatal("failed to initialize business timezone", "error", err)
	}

	if cfg.Guard.Fraud.Store != "redis" {
		log.Warnw("fraud store is not shared; the worker can only sweep VIP expiry", "fraud_store", cfg.Guard.Fraud.Store)
	}

	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer database.Close()

	container, err := httpRouter.NewContainer(database.Get(), cfg, nil, log)
	if err != nil {
		logger.Fatal("failed to build container", "error", err)
	}
	defer container.Shutdown()

	container.StartScheduler()
	log.Infow("maintenance worker started", "environment", env)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	log.Infow("received signal, shutting down", "signal", sig.String())
}
