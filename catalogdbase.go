package storeradius

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Valentin-Kaiser/go-dbase/dbase"
)

// DBaseCatalog reads the catalog from a dBase table, one store per
// non-deleted row.
type DBaseCatalog struct {
	path          string
	nameField     string
	postcodeField string
	logger        *slog.Logger
}

func NewDBaseCatalog(path, nameField, postcodeField string, logger *slog.Logger) *DBaseCatalog {
	if nameField == "" {
		nameField = "NAME"
	}
	if postcodeField == "" {
		postcodeField = "POSTCODE"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DBaseCatalog{
		path:          path,
		nameField:     nameField,
		postcodeField: postcodeField,
		logger:        logger,
	}
}

func (c *DBaseCatalog) Load(ctx context.Context) []Store {
	table, err := dbase.OpenTable(&dbase.Config{
		Filename:   c.path,
		TrimSpaces: true,
		Untested:   true,
	})
	if err != nil {
		c.logger.Error("error opening stores table", "path", c.path, "err", err)
		return []Store{}
	}
	defer table.Close()

	stores := []Store{}
	for !table.EOF() {
		if ctx.Err() != nil {
			c.logger.Error("stores table read cancelled", "path", c.path, "err", ctx.Err())
			return []Store{}
		}

		row, err := table.Next()
		if err != nil {
			c.logger.Error("error reading stores table", "path", c.path, "err", err)
			return []Store{}
		}
		if row.Deleted {
			continue
		}

		values, err := row.ToMap()
		if err != nil {
			c.logger.Error("error decoding stores row", "path", c.path, "row", row.Position, "err", err)
			continue
		}
		stores = append(stores, c.storeFromRow(values))
	}
	return stores
}

// storeFromRow picks the configured columns out of a decoded row, matching
// column names case-insensitively.
func (c *DBaseCatalog) storeFromRow(values map[string]interface{}) Store {
	var s Store
	for column, v := range values {
		switch {
		case strings.EqualFold(column, c.nameField):
			s.Name = fieldString(v)
		case strings.EqualFold(column, c.postcodeField):
			s.Postcode = fieldString(v)
		}
	}
	return s
}

func fieldString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case []byte:
		return strings.TrimSpace(string(t))
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
