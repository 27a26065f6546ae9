package app

import (
	"context"
	"fmt"

	"feedbridge/internal/cache/document"
	"feedbridge/internal/gateway/config"
	"feedbridge/internal/gateway/handler"
	"feedbridge/internal/gateway/server"
	integrationsvc "feedbridge/internal/gateway/service/integration"
	suggestsvc "feedbridge/internal/gateway/service/suggest"
)

type App struct {
	server  *server.Server
	cleanup []func() error
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Dependencies
	store, err := initStore(cfg)
	if err != nil {
		return nil, err
	}
	docCache := document.NewCache(cfg.Cache.MaxEntries, cfg.Cache.MaxBytes, cfg.Cache.TTL)

	integrationSvc := integrationsvc.New(store, docCache)
	cleanup := registerFetchers(cfg, integrationSvc)
	cleanup = append(cleanup, store.Close)

	llmClient, err := initSuggestClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if llmClient != nil {
		cleanup = append(cleanup, llmClient.Close)
	}
	suggestSvc := suggestsvc.New(llmClient)

	integrationHandler := handler.NewIntegrationHandler(integrationSvc)
	mappingHandler := handler.NewMappingHandler(suggestSvc)
	previewHandler := handler.NewPreviewHandler(integrationSvc)

	// Routing & Server
	mux := server.NewMux(integrationHandler, mappingHandler, previewHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server:  srv,
		cleanup: cleanup,
	}, nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	for _, fn := range a.cleanup {
		_ = fn()
	}
	return err
}
