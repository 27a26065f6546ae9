package handler

import (
	"net/http"

	"feedbridge/internal/engine/jsonpath"
	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/engine/transform"
	suggestsvc "feedbridge/internal/gateway/service/suggest"
)

// MappingHandler exposes the mapping engine as stateless endpoints. Every
// call carries its own document or record; nothing here touches the store.
type MappingHandler struct {
	suggestSvc *suggestsvc.Service
}

func NewMappingHandler(suggestSvc *suggestsvc.Service) *MappingHandler {
	return &MappingHandler{suggestSvc: suggestSvc}
}

// HandleExtract resolves a path against an inline document and discovers
// the mappable fields at the target.
func (h *MappingHandler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Document any    `json:"document"`
		Path     string `json:"path"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	extracted, err := jsonpath.Extract(in.Document, in.Path)
	if err != nil {
		writePathError(w, err)
		return
	}
	recordCount := 1
	if arr, ok := extracted.([]any); ok {
		recordCount = len(arr)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"shape":       jsonpath.Classify(extracted).String(),
		"options":     mapping.DiscoverOptions(extracted),
		"recordCount": recordCount,
		"extracted":   extracted,
	})
}

// HandleValidate reconciles a spec against a set of options.
func (h *MappingHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Spec    mapping.Spec          `json:"spec"`
		Options []mapping.FieldOption `json:"options"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"spec": mapping.Validate(in.Spec, in.Options),
	})
}

// HandleTransform applies a spec to a single record.
func (h *MappingHandler) HandleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Record any          `json:"record"`
		Spec   mapping.Spec `json:"spec"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	product, err := transform.Apply(in.Record, in.Spec)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "record_invalid", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": product})
}

// HandleSuggest asks the model for a mapping proposal and merges the valid
// parts into the submitted spec.
func (h *MappingHandler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !h.suggestSvc.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "suggest_disabled", "suggestions are not configured")
		return
	}
	var in struct {
		Spec    mapping.Spec          `json:"spec"`
		Options []mapping.FieldOption `json:"options"`
		Sample  any                   `json:"sample"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	merged, rejected, err := h.suggestSvc.Suggest(r.Context(), in.Spec, in.Options, in.Sample)
	if err != nil {
		writeError(w, http.StatusBadGateway, "suggest_failed", err.Error())
		return
	}
	if rejected == nil {
		rejected = []mapping.Rejection{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"spec":     merged,
		"rejected": rejected,
	})
}
