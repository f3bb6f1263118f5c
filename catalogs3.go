package storeradius

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

// ObjectGetter is the part of the S3 client the catalog needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Catalog reads a JSON catalog object from S3 on every Load.
type S3Catalog struct {
	client ObjectGetter
	bucket string
	key    string
	logger *slog.Logger
}

func NewS3Catalog(client ObjectGetter, bucket, key string, logger *slog.Logger) *S3Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Catalog{client: client, bucket: bucket, key: key, logger: logger}
}

// NewS3CatalogFromURI builds an S3Catalog for an s3://bucket/key location
// using the default AWS credential chain.
func NewS3CatalogFromURI(ctx context.Context, uri, region string, logger *slog.Logger) (*S3Catalog, error) {
	bucket, key, err := parseS3URI(uri)
	if err != nil {
		return nil, err
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}

	return NewS3Catalog(s3.NewFromConfig(cfg), bucket, key, logger), nil
}

func parseS3URI(uri string) (string, string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", "", errors.Wrapf(err, "parsing %q", uri)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || u.Host == "" || key == "" {
		return "", "", errors.Errorf("%q is not an s3://bucket/key location", uri)
	}
	return u.Host, key, nil
}

func (c *S3Catalog) Load(ctx context.Context) []Store {
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key),
	})
	if err != nil {
		c.logger.Error("error fetching stores object", "bucket", c.bucket, "key", c.key, "err", err)
		return []Store{}
	}
	defer out.Body.Close()

	stores, err := decodeStores(out.Body)
	if err != nil {
		c.logger.Error("error reading stores object", "bucket", c.bucket, "key", c.key, "err", err)
		return []Store{}
	}
	return stores
}
