package commands

import (
	"context"
	"fmt"

	"github.com/epistat/roadinj/internal/data/repos"
	"github.com/epistat/roadinj/pkg/config"
	"github.com/epistat/roadinj/pkg/database"
	"github.com/epistat/roadinj/pkg/logger"
)

// loadConfig loads config and builds the logger
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.New(cfg), nil
}

// openRepo connects to Postgres when configured. A nil repository
// means the pipeline runs file-only; commands that require the
// database use requireRepo instead.
func openRepo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, *repos.CohortRepository, error) {
	if !cfg.HasDatabase() {
		log.Debug("No DATABASE_URL configured; running file-only")
		return nil, nil, nil
	}

	db, err := database.New(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	repo := repos.NewCohortRepository(db.Pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	return db, repo, nil
}

// requireRepo is openRepo for commands that cannot run without Postgres
func requireRepo(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.DB, *repos.CohortRepository, error) {
	if !cfg.HasDatabase() {
		return nil, nil, fmt.Errorf("this command requires DATABASE_URL to be set")
	}
	return openRepo(ctx, cfg, log)
}
