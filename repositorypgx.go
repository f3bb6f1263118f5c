package storeradius

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

const (
	createPostcodeTablePgx = `CREATE TABLE IF NOT EXISTS postcodes(
    	postcode varchar(16) primary key,
    	location geometry(Point, 4326)
	);`

	createLocationIndex = `CREATE INDEX IF NOT EXISTS idx_postcodes_location ON postcodes USING gist(location);`
)

type RepositoryPgx struct {
	conn *pgxpool.Pool
}

func NewRepositoryPgx(ctx context.Context, conn *pgxpool.Pool) (Repository, error) {
	_, err := conn.Exec(ctx, createPostcodeTablePgx)
	if err != nil {
		return nil, errors.Wrap(err, "creating postcodes table")
	}

	_, err = conn.Exec(ctx, createLocationIndex)
	if err != nil {
		return nil, errors.Wrap(err, "creating postcodes location index")
	}

	return &RepositoryPgx{conn: conn}, nil
}

func (r *RepositoryPgx) Store(ctx context.Context, postcode string, latitude, longitude float64) error {
	_, err := r.conn.Exec(ctx, `INSERT INTO postcodes(postcode, location) VALUES($1, ST_SetSRID(ST_MakePoint($2, $3), 4326))
		ON CONFLICT (postcode) DO UPDATE SET location = EXCLUDED.location;`, NormalizePostcode(postcode), longitude, latitude)
	return err
}

func (r *RepositoryPgx) FindPostcode(ctx context.Context, postcode string) (Postcode, error) {
	row := r.conn.QueryRow(ctx, "SELECT postcode, ST_X(location), ST_Y(location) FROM postcodes WHERE postcode = $1;", NormalizePostcode(postcode))
	var p Postcode
	err := row.Scan(&p.Postcode, &p.Longitude, &p.Latitude)
	return p, err
}

func (r *RepositoryPgx) FindPostcodes(ctx context.Context, postcodes []string) ([]Postcode, error) {
	keys := make([]string, len(postcodes))
	for i, p := range postcodes {
		keys[i] = NormalizePostcode(p)
	}

	rows, err := r.conn.Query(ctx, "SELECT postcode, ST_X(location), ST_Y(location) FROM postcodes WHERE postcode = ANY($1);", keys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Postcode
	for rows.Next() {
		var p Postcode
		if err = rows.Scan(&p.Postcode, &p.Longitude, &p.Latitude); err != nil {
			return nil, errors.Wrap(err, "scanning postcode")
		}
		results = append(results, p)
	}

	return results, rows.Err()
}
