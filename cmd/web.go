// Package cmd wires the bridge together and runs the admin HTTP server.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"google.golang.org/grpc"

	httpserver "github.com/OliveiraNt/maned-bridge/internal/adapters/http"
	"github.com/OliveiraNt/maned-bridge/internal/application"
	"github.com/OliveiraNt/maned-bridge/internal/domain"
	"github.com/OliveiraNt/maned-bridge/internal/infrastructure/kafka"
	"github.com/OliveiraNt/maned-bridge/internal/infrastructure/placement"
	"github.com/OliveiraNt/maned-bridge/internal/infrastructure/repository"
	"github.com/OliveiraNt/maned-bridge/internal/metrics"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

// StartWeb builds the placement client, the optional audit sink and the
// directories on top of repo, then serves the admin API until SIGINT or
// SIGTERM.
func StartWeb(repo *repository.ConfigRepository) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := repo.Current()
	m := metrics.New(metrics.DefaultNamespace)

	pool := placement.NewPool(cfg.Placement.DialTimeout, grpc.WithChainUnaryInterceptor(m.UnaryClientInterceptor()))
	defer func() {
		if err := pool.Close(); err != nil {
			utils.Logger.Warn("closing placement connections failed", "err", err)
		}
	}()
	client := placement.NewClient(pool)

	var audit domain.AuditSink
	if cfg.Audit.Enabled() {
		sink, err := kafka.Connect(ctx, cfg.Audit)
		if err != nil {
			utils.Logger.Warn("audit trail disabled", "err", err)
		} else {
			defer sink.Close()
			audit = sink
		}
	}

	topicService := application.NewTopicService(repo, client, audit)
	authDriver := application.NewAuthDriver(repo, client, audit)
	utils.Logger.Info("application layer initialized", "cluster", cfg.ClusterName, "placement", cfg.Placement.Server)

	server := httpserver.New(topicService, authDriver, m)
	if err := server.Run(ctx, ":"+strconv.Itoa(cfg.HTTP.Port)); err != nil {
		utils.Logger.Error("HTTP server terminated", "err", err)
		return
	}
	utils.Logger.Info("HTTP server stopped")
}
