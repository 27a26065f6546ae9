package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	suggestsvc "feedbridge/internal/gateway/service/suggest"
	"feedbridge/internal/llm"
)

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHandleExtract(t *testing.T) {
	h := NewMappingHandler(suggestsvc.New(nil))

	rr := postJSON(t, h.HandleExtract, `{
		"document": {"data": {"products": [{"sku": "A"}, {"sku": "B"}]}},
		"path": "data.products"
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	out := decodeResponse(t, rr)
	if out["shape"] != "array_of_objects" {
		t.Fatalf("shape = %v", out["shape"])
	}
	if out["recordCount"] != float64(2) {
		t.Fatalf("recordCount = %v", out["recordCount"])
	}
}

func TestHandleExtractEmptyPath(t *testing.T) {
	h := NewMappingHandler(suggestsvc.New(nil))

	rr := postJSON(t, h.HandleExtract, `{"document": {"a": 1}, "path": "missing"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	out := decodeResponse(t, rr)
	errBody, _ := out["error"].(map[string]any)
	if errBody["code"] != "path_empty" {
		t.Fatalf("code = %v, want path_empty", errBody["code"])
	}
}

func TestHandleExtractShapeError(t *testing.T) {
	h := NewMappingHandler(suggestsvc.New(nil))

	rr := postJSON(t, h.HandleExtract, `{"document": {"a": 42}, "path": "a"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	out := decodeResponse(t, rr)
	errBody, _ := out["error"].(map[string]any)
	if errBody["code"] != "path_shape" {
		t.Fatalf("code = %v, want path_shape", errBody["code"])
	}
}

func TestHandleTransform(t *testing.T) {
	h := NewMappingHandler(suggestsvc.New(nil))

	rr := postJSON(t, h.HandleTransform, `{
		"record": {"name": "Widget"},
		"spec": {"titleKey": "name"}
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	out := decodeResponse(t, rr)
	product, _ := out["product"].(map[string]any)
	if product["title"] != "Widget" {
		t.Fatalf("title = %v", product["title"])
	}

	rr = postJSON(t, h.HandleTransform, `{"record": "scalar", "spec": {"titleKey": "name"}}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
}

func TestHandleSuggestDisabled(t *testing.T) {
	h := NewMappingHandler(suggestsvc.New(nil))

	rr := postJSON(t, h.HandleSuggest, `{}`)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rr.Code)
	}
}

func TestHandleSuggestWithFakeClient(t *testing.T) {
	fake := llm.NewFakeClient(`{"titleKey": "name", "optionalFieldKeys": {"vendor": "brand"}}`)
	h := NewMappingHandler(suggestsvc.New(fake))

	rr := postJSON(t, h.HandleSuggest, `{
		"spec": {},
		"options": [{"label": "name", "value": "name"}, {"label": "brand", "value": "brand"}],
		"sample": {"name": "Widget", "brand": "Acme"}
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	out := decodeResponse(t, rr)
	spec, _ := out["spec"].(map[string]any)
	if spec["titleKey"] != "name" {
		t.Fatalf("titleKey = %v", spec["titleKey"])
	}
}
