package handler

import (
	"net/http"
	"strings"

	"feedbridge/internal/engine/mapping"
	integrationsvc "feedbridge/internal/gateway/service/integration"
	"feedbridge/internal/transport"
)

type IntegrationHandler struct {
	svc *integrationsvc.Service
}

func NewIntegrationHandler(svc *integrationsvc.Service) *IntegrationHandler {
	return &IntegrationHandler{svc: svc}
}

type integrationRequest struct {
	Name   string           `json:"name"`
	Source transport.Source `json:"source"`
	Path   string           `json:"path"`
}

// HandleCollection serves /v1/integrations: list and create.
func (h *IntegrationHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"integrations": h.svc.List(),
		})
	case http.MethodPost:
		var in integrationRequest
		if !decodeBody(w, r, &in) {
			return
		}
		if strings.TrimSpace(in.Source.Scheme) == "" || strings.TrimSpace(in.Source.Host) == "" {
			writeError(w, http.StatusBadRequest, "invalid_source", "source scheme and host are required")
			return
		}
		rec := h.svc.Create(in.Name, in.Source, in.Path)
		writeJSON(w, http.StatusCreated, rec)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// HandleItem serves /v1/integrations/{id} and its subresources.
func (h *IntegrationHandler) HandleItem(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/integrations/")
	id, sub, _ := strings.Cut(rest, "/")
	id = strings.TrimSpace(id)
	if !isIntegrationID(id) {
		writeError(w, http.StatusNotFound, "not_found", "unknown integration id")
		return
	}

	switch sub {
	case "":
		h.handleRecord(w, r, id)
	case "inspect":
		h.handleInspect(w, r, id)
	case "mapping":
		h.handleMapping(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

func (h *IntegrationHandler) handleRecord(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		rec, ok := h.svc.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "integration not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodPut:
		var in integrationRequest
		if !decodeBody(w, r, &in) {
			return
		}
		rec, ok := h.svc.Update(id, in.Name, in.Source, in.Path)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "integration not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		if !h.svc.Delete(id) {
			writeError(w, http.StatusNotFound, "not_found", "integration not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"deleted": id})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleInspect fetches the document and reports what the configured path
// points at. ?refetch=1 bypasses the cache.
func (h *IntegrationHandler) handleInspect(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, ok := h.svc.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "integration not found")
		return
	}
	pathExpr := rec.PathExpr
	if v := r.URL.Query().Get("path"); v != "" {
		pathExpr = v
	}
	if r.URL.Query().Get("refetch") == "1" {
		if _, err := h.svc.Refetch(r.Context(), rec.Source); err != nil {
			writeError(w, http.StatusBadGateway, "fetch_failed", err.Error())
			return
		}
	}
	inspection, _, err := h.svc.Inspect(r.Context(), rec.Source, pathExpr)
	if err != nil {
		writePathError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inspection)
}

func (h *IntegrationHandler) handleMapping(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		rec, ok := h.svc.Get(id)
		if !ok {
			writeError(w, http.StatusNotFound, "not_found", "integration not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"mapping": rec.Mapping})
	case http.MethodPut:
		var in struct {
			Spec mapping.Spec `json:"spec"`
		}
		if !decodeBody(w, r, &in) {
			return
		}
		rec, err := h.svc.SaveMapping(r.Context(), id, in.Spec)
		if err != nil {
			writePathError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
