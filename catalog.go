package storeradius

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CatalogLoader supplies the store catalog. Load never fails: an unreadable
// source is logged and yields an empty catalog.
type CatalogLoader interface {
	Load(ctx context.Context) []Store
}

// decodeStores reads a JSON array of stores.
func decodeStores(r io.Reader) ([]Store, error) {
	var stores []Store
	if err := json.NewDecoder(r).Decode(&stores); err != nil {
		return nil, errors.Wrap(err, "decoding stores")
	}
	return stores, nil
}

// JSONFileCatalog reads the catalog from a JSON file on every Load.
type JSONFileCatalog struct {
	path   string
	logger *slog.Logger
}

func NewJSONFileCatalog(path string, logger *slog.Logger) *JSONFileCatalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONFileCatalog{path: path, logger: logger}
}

func (c *JSONFileCatalog) Load(ctx context.Context) []Store {
	f, err := os.Open(c.path)
	if err != nil {
		c.logger.Error("error reading stores file", "path", c.path, "err", err)
		return []Store{}
	}
	defer f.Close()

	stores, err := decodeStores(f)
	if err != nil {
		c.logger.Error("error reading stores file", "path", c.path, "err", err)
		return []Store{}
	}
	return stores
}

// NewCatalogLoader picks the loader for cfg.Source: s3:// locations, .dbf
// tables, and JSON files otherwise.
func NewCatalogLoader(ctx context.Context, cfg CatalogConfig, logger *slog.Logger) (CatalogLoader, error) {
	switch {
	case strings.HasPrefix(cfg.Source, "s3://"):
		return NewS3CatalogFromURI(ctx, cfg.Source, cfg.Region, logger)
	case strings.EqualFold(filepath.Ext(cfg.Source), ".dbf"):
		return NewDBaseCatalog(cfg.Source, cfg.NameField, cfg.PostcodeField, logger), nil
	default:
		return NewJSONFileCatalog(cfg.Source, logger), nil
	}
}
