package storeradius

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

const (
	createPostcodeTableSpatialite = `CREATE TABLE IF NOT EXISTS postcodes(
    	postcode varchar(16) primary key
	);`

	addGeoColumn = `SELECT AddGeometryColumn('postcodes', 'location', 4326, 'POINT', 'XY');`

	createLocationIndexSpatialite = `SELECT CreateSpatialIndex('postcodes', 'location');`

	geometryColumnExists = `SELECT count(*) FROM geometry_columns WHERE f_table_name = 'postcodes';`
)

type RepositorySpatialite struct {
	db *sql.DB
}

// NewRepositorySpatialite prepares the postcodes table on a database opened
// with the "spatialite" driver.
func NewRepositorySpatialite(ctx context.Context, db *sql.DB) (Repository, error) {

	_, err := db.ExecContext(ctx, "SELECT InitSpatialMetaData(1);")
	if err != nil {
		return nil, errors.Wrap(err, "initialising spatial metadata")
	}

	_, err = db.ExecContext(ctx, createPostcodeTableSpatialite)
	if err != nil {
		return nil, errors.Wrap(err, "creating postcodes table")
	}

	var columns int
	if err = db.QueryRowContext(ctx, geometryColumnExists).Scan(&columns); err != nil {
		return nil, errors.Wrap(err, "checking postcodes geometry column")
	}

	// AddGeometryColumn fails on a table that already has one.
	if columns == 0 {
		_, err = db.ExecContext(ctx, addGeoColumn)
		if err != nil {
			return nil, errors.Wrap(err, "adding postcodes geometry column")
		}

		_, err = db.ExecContext(ctx, createLocationIndexSpatialite)
		if err != nil {
			return nil, errors.Wrap(err, "creating postcodes spatial index")
		}
	}

	return &RepositorySpatialite{db: db}, nil
}

func (r *RepositorySpatialite) Store(ctx context.Context, postcode string, latitude, longitude float64) error {
	_, err := r.db.ExecContext(ctx, "INSERT OR REPLACE INTO postcodes(postcode, location) VALUES(?, MakePoint(?, ?, 4326));", NormalizePostcode(postcode), longitude, latitude)
	return err
}

func (r *RepositorySpatialite) FindPostcode(ctx context.Context, postcode string) (Postcode, error) {

	row := r.db.QueryRowContext(ctx, "SELECT postcode, X(location), Y(location) FROM postcodes WHERE postcode = ?;", NormalizePostcode(postcode))
	var p Postcode
	err := row.Scan(&p.Postcode, &p.Longitude, &p.Latitude)
	return p, err
}

func (r *RepositorySpatialite) FindPostcodes(ctx context.Context, postcodes []string) ([]Postcode, error) {
	if len(postcodes) == 0 {
		return nil, nil
	}

	args := make([]any, len(postcodes))
	for i, p := range postcodes {
		args[i] = NormalizePostcode(p)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postcodes)), ",")

	rows, err := r.db.QueryContext(ctx, "SELECT postcode, X(location), Y(location) FROM postcodes WHERE postcode IN ("+placeholders+");", args...)
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
