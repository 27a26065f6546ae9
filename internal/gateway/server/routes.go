package server

import (
	"net/http"

	"feedbridge/internal/gateway/handler"
	"feedbridge/internal/gateway/middleware"
)

func NewMux(
	integrationHandler *handler.IntegrationHandler,
	mappingHandler *handler.MappingHandler,
	previewHandler *handler.PreviewHandler,
) http.Handler {
	mux := http.NewServeMux()

	// Integration lifecycle
	mux.HandleFunc("/v1/integrations", integrationHandler.HandleCollection)
	mux.HandleFunc("/v1/integrations/", integrationHandler.HandleItem)

	// Stateless engine endpoints
	mux.HandleFunc("/v1/mapping/extract", mappingHandler.HandleExtract)
	mux.HandleFunc("/v1/mapping/validate", mappingHandler.HandleValidate)
	mux.HandleFunc("/v1/mapping/transform", mappingHandler.HandleTransform)
	mux.HandleFunc("/v1/mapping/suggest", mappingHandler.HandleSuggest)

	// Live preview channel
	mux.HandleFunc("/v1/preview/ws", previewHandler.HandlePreviewWS)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Middleware
	return middleware.CORS(mux)
}
