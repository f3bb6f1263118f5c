package storeradius

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseS3URI(t *testing.T) {
	bucket, key, err := parseS3URI("s3://my-bucket/catalog/stores.json")
	assert.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "catalog/stores.json", key)

	for _, bad := range []string{"s3://bucket", "s3:///key", "https://bucket/key", "::"} {
		_, _, err = parseS3URI(bad)
		assert.Error(t, err, bad)
	}
}
