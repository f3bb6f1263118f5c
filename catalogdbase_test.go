package storeradius

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDBaseStoreFromRow(t *testing.T) {
	c := NewDBaseCatalog("stores.dbf", "", "", nil)

	s := c.storeFromRow(map[string]interface{}{
		"NAME":     "Store 1  ",
		"postcode": []byte("E15 2SR "),
		"OPENED":   int32(1999),
	})
	assert.Equal(t, Store{Name: "Store 1", Postcode: "E15 2SR"}, s)
}

func TestDBaseStoreFromRowCustomColumns(t *testing.T) {
	c := NewDBaseCatalog("stores.dbf", "SHOPNAME", "PCODE", nil)

	s := c.storeFromRow(map[string]interface{}{
		"SHOPNAME": "Hatfield",
		"PCODE":    "AL9 5JP",
		"NAME":     "ignored",
	})
	assert.Equal(t, Store{Name: "Hatfield", Postcode: "AL9 5JP"}, s)

	assert.Equal(t, Store{}, c.storeFromRow(map[string]interface{}{"PCODE": nil}))
}

func TestDBaseCatalogMissingFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	stores := NewDBaseCatalog(filepath.Join(t.TempDir(), "missing.dbf"), "", "", logger).Load(context.Background())
	assert.NotNil(t, stores)
	assert.Empty(t, stores)
}
