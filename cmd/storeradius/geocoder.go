package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/high-creek-software/storeradius"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	_ "github.com/shaxbee/go-spatialite"
)

// openRepository opens the gazetteer for a postgis or spatialite config.
// The returned func releases the connection.
func openRepository(ctx context.Context, cfg *storeradius.Config) (storeradius.Repository, func(), error) {
	switch cfg.Geocoder.Provider {
	case storeradius.ProviderPostGIS:
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "connecting to postgis")
		}
		repo, err := storeradius.NewRepositoryPgx(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case storeradius.ProviderSpatialite:
		db, err := sql.Open("spatialite", cfg.Database.Path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "opening %s", cfg.Database.Path)
		}
		repo, err := storeradius.NewRepositorySpatialite(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	}

	return nil, nil, errors.Errorf("geocoder %q has no local postcode table", cfg.Geocoder.Provider)
}

// newResolver builds the configured Resolver.
func newResolver(ctx context.Context, cfg *storeradius.Config, logger *slog.Logger) (storeradius.Resolver, func(), error) {
	if cfg.Geocoder.Provider == storeradius.ProviderPostcodesIO {
		client := &http.Client{Timeout: cfg.Geocoder.Timeout}
		return storeradius.NewPostcodesIO(cfg.Geocoder.URL, cfg.Geocoder.BatchSize, client, logger), func() {}, nil
	}

	repo, closeFn, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return storeradius.NewGazetteer(repo, cfg.Geocoder.BatchSize, logger), closeFn, nil
}
