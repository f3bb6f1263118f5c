package storeradius

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// Gazetteer resolves postcodes from a local Repository instead of a remote
// provider.
type Gazetteer struct {
	repository Repository
	batchSize  int
	logger     *slog.Logger
}

func NewGazetteer(repository Repository, batchSize int, logger *slog.Logger) *Gazetteer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gazetteer{
		repository: repository,
		batchSize:  batchSize,
		logger:     logger,
	}
}

func (g *Gazetteer) Resolve(ctx context.Context, postcode string) (Coordinate, bool) {
	p, err := g.repository.FindPostcode(ctx, postcode)
	if isNotFound(err) {
		g.logger.Warn("postcode not in gazetteer", "postcode", postcode)
		return Coordinate{}, false
	} else if err != nil {
		g.logger.Error("error finding postcode", "postcode", postcode, "err", err)
		return Coordinate{}, false
	}

	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}, true
}

func (g *Gazetteer) ResolveBulk(ctx context.Context, postcodes []string) CoordinateMap {
	coords := make(CoordinateMap, len(postcodes))
	for _, chunk := range batches(postcodes, g.batchSize) {
		found, err := g.repository.FindPostcodes(ctx, chunk)
		if err != nil {
			g.logger.Error("error finding postcode batch", "size", len(chunk), "err", err)
			continue
		}

		byKey := make(map[string]Coordinate, len(found))
		for _, p := range found {
			byKey[NormalizePostcode(p.Postcode)] = Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
		}

		// Answer under the caller's spelling of each postcode.
		for _, query := range chunk {
			if c, ok := byKey[NormalizePostcode(query)]; ok {
				coords[query] = c
			}
		}
	}
	return coords
}

func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}
