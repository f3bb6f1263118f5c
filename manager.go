package storeradius

import (
	"context"
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Manager interface {
	ImportPostcodes(ctx context.Context, r io.Reader) (int, error)
}

type ManagerImpl struct {
	repository Repository
	logger     *slog.Logger
}

func NewManagerImpl(repository Repository, logger *slog.Logger) Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &ManagerImpl{
		repository: repository,
		logger:     logger,
	}

	return m
}

type csvColumns struct {
	postcode, latitude, longitude int
}

func findColumns(header []string) (csvColumns, error) {
	cols := csvColumns{postcode: -1, latitude: -1, longitude: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "postcode", "pcd", "pcds":
			if cols.postcode < 0 {
				cols.postcode = i
			}
		case "latitude", "lat":
			cols.latitude = i
		case "longitude", "long", "lon", "lng":
			cols.longitude = i
		}
	}
	if cols.postcode < 0 || cols.latitude < 0 || cols.longitude < 0 {
		return cols, errors.Errorf("csv header %v needs postcode, latitude and longitude columns", header)
	}
	return cols, nil
}

// ImportPostcodes stores every row of a postcode CSV in the repository and
// returns how many rows were stored. Unreadable or incomplete rows are
// logged and skipped.
func (m *ManagerImpl) ImportPostcodes(ctx context.Context, r io.Reader) (int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return 0, errors.Wrap(err, "reading csv header")
	}
	cols, err := findColumns(header)
	if err != nil {
		return 0, err
	}
	width := max(cols.postcode, cols.latitude, cols.longitude) + 1

	stored := 0
	for {
		fields, err := cr.Read()
		if err != nil && errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return stored, errors.Wrap(err, "reading csv")
			}
			m.logger.Error("error reading line", "err", err)
			continue
		}
		if len(fields) < width {
			m.logger.Error("short line", "fields", len(fields))
			continue
		}

		postcode := strings.TrimSpace(fields[cols.postcode])
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(fields[cols.latitude]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(fields[cols.longitude]), 64)
		if postcode == "" || latErr != nil || lonErr != nil {
			m.logger.Warn("skipping postcode without coordinates", "postcode", postcode)
			continue
		}

		if err = m.repository.Store(ctx, postcode, lat, lon); err != nil {
			m.logger.Error("error inserting postcode", "postcode", postcode, "err", err)
			continue
		}
		stored++
	}

	m.logger.Info("imported postcodes", "count", stored)
	return stored, nil
}
