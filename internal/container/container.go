// Package container wires configuration, database, repositories, the
// signal engine and the API surface into one dependency graph.
package container

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"suppsignal/adapters/api"
	"suppsignal/adapters/postgres"
	"suppsignal/adapters/rng"
	"suppsignal/internal/config"
	"suppsignal/internal/engine"
	"suppsignal/internal/errors"
	"suppsignal/internal/logging"
	"suppsignal/internal/profiles"
	"suppsignal/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *logging.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	CheckinStore    ports.CheckinStore
	SupplementStore ports.SupplementStore
	BaselineStore   ports.BaselineStore

	// Engine and surface
	Resolver *profiles.Resolver
	Engine   *engine.Engine
	API      *api.Service
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	log := logging.NewDefaultLogger()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to migrate schema")
	}

	c := &Container{
		Config:          cfg,
		Logger:          log,
		DB:              db,
		CheckinStore:    postgres.NewCheckinRepository(db),
		SupplementStore: postgres.NewSupplementRepository(db),
		BaselineStore:   postgres.NewBaselineRepository(db),
		Resolver:        profiles.NewResolver(log),
	}

	c.Engine = engine.New(engine.Deps{
		Checkins:            c.CheckinStore,
		Supplements:         c.SupplementStore,
		Baselines:           c.BaselineStore,
		Profiles:            c.Resolver,
		RNG:                 rng.NewSeededAdapter(),
		Logger:              log,
		BootstrapIterations: cfg.Engine.BootstrapIterations,
		BaseSeed:            cfg.Engine.BaseSeed,
	})
	c.API = api.NewService(c.Engine, log)
	return c, nil
}

// Close releases held resources
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
