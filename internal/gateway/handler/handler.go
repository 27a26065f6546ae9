package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"feedbridge/internal/engine/jsonpath"
)

// isIntegrationID checks whether the given string looks like a generated
// integration ID.
func isIntegrationID(id string) bool {
	return strings.HasPrefix(strings.TrimSpace(id), "integration-")
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

// writePathError maps the extraction engine's typed errors onto wire codes
// so the client can tell an empty path from an unmappable one.
func writePathError(w http.ResponseWriter, err error) {
	var empty *jsonpath.EmptyError
	if errors.As(err, &empty) {
		writeError(w, http.StatusUnprocessableEntity, "path_empty", err.Error())
		return
	}
	var shape *jsonpath.ShapeError
	if errors.As(err, &shape) {
		writeError(w, http.StatusUnprocessableEntity, "path_shape", err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "fetch_failed", err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "invalid json body")
		return false
	}
	return true
}
