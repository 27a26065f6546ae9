package config

import (
	"os"
	"strings"
)

// localS3Config targets the docker-compose minio for local runs.
func localS3Config() S3Config {
	return S3Config{
		Enabled:   true,
		Endpoint:  firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_ENDPOINT")), "minio:9000"),
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_ACCESS_KEY")), "feedbridge"),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("FEED_S3_SECRET_KEY")), "feedbridge123"),
		UseSSL:    false,
	}
}
