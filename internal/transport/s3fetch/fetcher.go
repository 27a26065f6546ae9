package s3fetch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"feedbridge/internal/transport"
)

// Config carries the connection settings for an S3-compatible endpoint.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Fetcher downloads remote documents from S3-compatible object storage.
// The source's Bucket and Path select the object.
type Fetcher struct {
	client *minio.Client
}

func NewFetcher(cfg Config) (*Fetcher, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &Fetcher{client: client}, nil
}

func (f *Fetcher) Fetch(ctx context.Context, src transport.Source) (*transport.Document, error) {
	bucket := strings.TrimSpace(src.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 source needs a bucket")
	}
	object := strings.TrimPrefix(strings.TrimSpace(src.Path), "/")
	if object == "" {
		return nil, fmt.Errorf("s3 source needs an object path")
	}

	obj, err := f.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, object, err)
	}
	defer obj.Close()

	payload, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s/%s: %w", bucket, object, err)
	}
	return transport.Decode(payload), nil
}
