package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	electionledger "pericles/contexts/election-ops/election-ledger"
	"pericles/contexts/election-ops/election-ledger/adapters/memory"
	postgresadapter "pericles/contexts/election-ops/election-ledger/adapters/postgres"
	workerapp "pericles/contexts/election-ops/election-ledger/application/workers"
	"pericles/contexts/election-ops/election-ledger/domain/entities"
	"pericles/internal/platform/config"
	"pericles/internal/platform/db"
	"pericles/internal/platform/httpserver"
	"pericles/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres == nil {
		return nil
	}
	return a.postgres.Close()
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	projection   workerapp.TallyProjectionConsumer
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	admin := strings.TrimSpace(cfg.AdminIdentity)
	if admin == "" {
		return nil, errors.New("ELECTION_ADMIN_IDENTITY is required")
	}

	deps := electionledger.Dependencies{
		Admin:  entities.Identity(admin),
		Logger: logger,
	}

	var pg *db.Postgres
	if strings.TrimSpace(cfg.PostgresDSN) != "" {
		pg, err = db.Connect(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := postgresadapter.Migrate(pg.DB); err != nil {
			_ = pg.Close()
			return nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, logger)
		deps.Outbox = repo
		deps.Clock = postgresadapter.SystemClock{}
		deps.IDGen = postgresadapter.UUIDGenerator{}
	} else {
		logger.Warn("POSTGRES_DSN not set; election notifications stay in memory",
			"event", "bootstrap_memory_outbox",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		store := memory.NewStore()
		deps.Outbox = store
		deps.Clock = store
		deps.IDGen = store
	}

	module := electionledger.NewModule(deps)
	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if err := postgresadapter.Migrate(pg.DB); err != nil {
		_ = pg.Close()
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: bus,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		projection: workerapp.TallyProjectionConsumer{
			Subscriber:  bus,
			Projections: repo,
			Clock:       postgresadapter.SystemClock{},
			Disabled:    !cfg.EnableTallyProjection,
			Logger:      logger,
		},
		relayEnabled: cfg.EnableOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func (a *WorkerApp) Run(ctx context.Context) error {
	if err := a.projection.Start(ctx); err != nil {
		return err
	}
	if !a.relayEnabled {
		a.logger.Info("outbox relay disabled by feature flag",
			"event", "bootstrap_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := a.outboxRelay.RunOnce(ctx); err != nil {
				a.logger.Error("outbox relay cycle failed",
					"event", "bootstrap_relay_cycle_failed",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", err.Error(),
				)
			}
		}
	}
}

func (a *WorkerApp) Close() error {
	return a.postgres.Close()
}

func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
