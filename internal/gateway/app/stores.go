package app

import (
	"context"
	"fmt"
	"log"

	"feedbridge/internal/gateway/config"
	integrationrepo "feedbridge/internal/gateway/repository/integration"
	integrationsvc "feedbridge/internal/gateway/service/integration"
	"feedbridge/internal/llm"
	"feedbridge/internal/transport/ftpfetch"
	"feedbridge/internal/transport/httpfetch"
	"feedbridge/internal/transport/s3fetch"
)

func initStore(cfg *config.Config) (*integrationrepo.Store, error) {
	if dsn := cfg.Store.DatabaseURL; dsn != "" {
		store, err := integrationrepo.NewPostgres(dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open integration store: %w", err)
		}
		log.Printf("integration store: postgres")
		return store, nil
	}
	log.Printf("integration store: file path=%s", cfg.Store.Path)
	return integrationrepo.New(cfg.Store.Path), nil
}

// registerFetchers binds one fetcher per supported scheme and returns the
// cleanup hooks for the ones that hold connections.
func registerFetchers(cfg *config.Config, svc *integrationsvc.Service) []func() error {
	var cleanup []func() error

	httpFetcher := httpfetch.NewFetcher(cfg.Feed.HTTPTimeout)
	svc.RegisterFetcher("http", httpFetcher)
	svc.RegisterFetcher("https", httpFetcher)

	ftpPool := ftpfetch.NewPool(cfg.Feed.FTPMaxIdle, cfg.Feed.FTPIdleTTL)
	svc.RegisterFetcher("ftp", ftpfetch.NewFetcher(ftpPool))
	cleanup = append(cleanup, func() error {
		ftpPool.Close()
		return nil
	})

	if cfg.Feed.S3.Enabled {
		s3Fetcher, err := s3fetch.NewFetcher(s3fetch.Config{
			Endpoint:  cfg.Feed.S3.Endpoint,
			Region:    cfg.Feed.S3.Region,
			AccessKey: cfg.Feed.S3.AccessKey,
			SecretKey: cfg.Feed.S3.SecretKey,
			UseSSL:    cfg.Feed.S3.UseSSL,
		})
		if err != nil {
			log.Printf("s3 transport disabled: %v", err)
		} else {
			svc.RegisterFetcher("s3", s3Fetcher)
			log.Printf("s3 transport: endpoint=%s", cfg.Feed.S3.Endpoint)
		}
	}

	return cleanup
}

func initSuggestClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if !cfg.Suggest.Enabled {
		log.Printf("suggestions disabled: no API key configured")
		return nil, nil
	}
	client, err := llm.NewGeminiClient(ctx, cfg.Suggest.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize suggestion client: %w", err)
	}
	log.Printf("suggestion client: %s", client.Name())
	return client, nil
}
