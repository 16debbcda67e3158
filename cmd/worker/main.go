// The worker daemon executes registered jobs on behalf of remote executors.
// Deployments build their own daemon binary that imports the packages
// registering their jobs, so the names an executor submits resolve here.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nemanja-m/gridexec/internal/cluster/server"
	"github.com/nemanja-m/gridexec/internal/shared/config"
	"github.com/nemanja-m/gridexec/internal/shared/logging"
	"github.com/nemanja-m/gridexec/pkg/jobs"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.LoadWorker(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	service := server.NewService(cfg.Server.Addr, logger)
	srv := server.New(cfg.Server, service, logger)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Failed to start worker daemon", "error", err)
		}
	}()

	logger.Info("Worker daemon started",
		"node_id", service.NodeID().String(),
		"address", cfg.Server.Addr,
		"jobs", jobs.List(),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	srv.Stop()
	logger.Info("Worker daemon stopped", "node_id", service.NodeID().String())
}
