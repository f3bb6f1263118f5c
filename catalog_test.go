package storeradius_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/high-creek-software/storeradius"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestJSONFileCatalog(t *testing.T) {
	path := writeFile(t, "stores.json", `[{"name": "Store 1", "postcode": "E15 2SR", "extra": true}, {"name": "Store 2", "postcode": "TW8 9LF"}]`)

	stores := storeradius.NewJSONFileCatalog(path, discard).Load(context.Background())
	assert.Equal(t, []storeradius.Store{
		{Name: "Store 1", Postcode: "E15 2SR"},
		{Name: "Store 2", Postcode: "TW8 9LF"},
	}, stores)
}

func TestJSONFileCatalogUnreadable(t *testing.T) {
	missing := storeradius.NewJSONFileCatalog(filepath.Join(t.TempDir(), "missing.json"), discard).Load(context.Background())
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	corrupt := storeradius.NewJSONFileCatalog(writeFile(t, "stores.json", `[{"name":`), discard).Load(context.Background())
	assert.NotNil(t, corrupt)
	assert.Empty(t, corrupt)
}

type fakeObjects struct {
	body  string
	err   error
	input *s3.GetObjectInput
}

func (f *fakeObjects) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.body))}, nil
}

func TestS3Catalog(t *testing.T) {
	objects := &fakeObjects{body: `[{"name": "Store 1", "postcode": "E15 2SR"}]`}

	stores := storeradius.NewS3Catalog(objects, "bucket", "catalog/stores.json", discard).Load(context.Background())
	assert.Equal(t, []storeradius.Store{{Name: "Store 1", Postcode: "E15 2SR"}}, stores)
	assert.Equal(t, "bucket", aws.ToString(objects.input.Bucket))
	assert.Equal(t, "catalog/stores.json", aws.ToString(objects.input.Key))
}

func TestS3CatalogFailures(t *testing.T) {
	failing := &fakeObjects{err: errors.New("access denied")}
	assert.Empty(t, storeradius.NewS3Catalog(failing, "bucket", "stores.json", discard).Load(context.Background()))

	corrupt := &fakeObjects{body: `not json`}
	assert.Empty(t, storeradius.NewS3Catalog(corrupt, "bucket", "stores.json", discard).Load(context.Background()))
}

func TestNewCatalogLoader(t *testing.T) {
	ctx := context.Background()

	loader, err := storeradius.NewCatalogLoader(ctx, storeradius.CatalogConfig{Source: "data/stores.json"}, discard)
	require.NoError(t, err)
	assert.IsType(t, &storeradius.JSONFileCatalog{}, loader)

	loader, err = storeradius.NewCatalogLoader(ctx, storeradius.CatalogConfig{Source: "data/STORES.DBF"}, discard)
	require.NoError(t, err)
	assert.IsType(t, &storeradius.DBaseCatalog{}, loader)

	_, err = storeradius.NewCatalogLoader(ctx, storeradius.CatalogConfig{Source: "s3://bucket-only"}, discard)
	assert.Error(t, err)
}
