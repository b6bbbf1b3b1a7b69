package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"camino_routes/internal/accounts"
	"camino_routes/internal/config"
	"camino_routes/internal/store"
	"camino_routes/internal/trail"
)

// backend is the storage selected by STORE_DRIVER.
type backend struct {
	routes   store.Repository
	accounts accounts.Store
	close    func()
}

func openBackend(ctx context.Context, cfg config.Config, decoder *trail.Decoder) (*backend, error) {
	switch cfg.StoreDriver {
	case "memory":
		logrus.Warn("Using in-memory store; routes are lost on exit")
		return &backend{routes: store.NewMemory(), accounts: accounts.NewMemory(), close: func() {}}, nil

	case "mongo":
		client, db, err := config.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		routes := store.NewMongo(db, decoder)
		if err := routes.CreateIndexes(ctx); err != nil {
			return nil, fmt.Errorf("create route indexes: %w", err)
		}
		editors := accounts.NewMongo(db)
		if err := editors.CreateIndexes(ctx); err != nil {
			return nil, fmt.Errorf("create editor indexes: %w", err)
		}
		logrus.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
		return &backend{
			routes:   routes,
			accounts: editors,
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logrus.WithError(err).Warn("MongoDB disconnect failed")
				}
			},
		}, nil

	case "postgres", "":
		db, err := config.OpenPostgres(cfg.DB)
		if err != nil {
			return nil, err
		}
		routes := store.NewPostgres(db)
		if err := routes.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate routes: %w", err)
		}
		editors := accounts.NewPostgres(db)
		if err := editors.Migrate(); err != nil {
			return nil, fmt.Errorf("migrate editors: %w", err)
		}
		logrus.WithField("host", cfg.DB.Host).Info("Connected to PostgreSQL")
		return &backend{
			routes:   routes,
			accounts: editors,
			close: func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
}
