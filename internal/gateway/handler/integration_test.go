package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"feedbridge/internal/cache/document"
	integrationrepo "feedbridge/internal/gateway/repository/integration"
	integrationsvc "feedbridge/internal/gateway/service/integration"
	"feedbridge/internal/transport"
)

type stubFetcher struct {
	payload string
}

func (s *stubFetcher) Fetch(_ context.Context, _ transport.Source) (*transport.Document, error) {
	return transport.Decode([]byte(s.payload)), nil
}

func newTestHandler(t *testing.T, payload string) *IntegrationHandler {
	t.Helper()
	svc := integrationsvc.New(integrationrepo.NewMemory(), document.NewCache(8, 1<<20, time.Minute))
	svc.RegisterFetcher("http", &stubFetcher{payload: payload})
	return NewIntegrationHandler(svc)
}

func createIntegration(t *testing.T, h *IntegrationHandler, body string) map[string]any {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/integrations", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.HandleCollection(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	return decodeResponse(t, rr)
}

func TestIntegrationCreateAndGet(t *testing.T) {
	h := newTestHandler(t, `{"products": []}`)

	rec := createIntegration(t, h, `{
		"name": "Supplier feed",
		"source": {"scheme": "http", "host": "feed.example.com", "path": "/products.json"},
		"path": "products"
	}`)
	id, _ := rec["id"].(string)
	if !strings.HasPrefix(id, "integration-") {
		t.Fatalf("id = %q", id)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/integrations/"+id, nil)
	rr := httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	got := decodeResponse(t, rr)
	if got["name"] != "Supplier feed" {
		t.Fatalf("name = %v", got["name"])
	}
}

func TestIntegrationCreateRequiresSource(t *testing.T) {
	h := newTestHandler(t, `{}`)

	req := httptest.NewRequest(http.MethodPost, "/v1/integrations", strings.NewReader(`{"name": "x"}`))
	rr := httptest.NewRecorder()
	h.HandleCollection(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
}

func TestIntegrationInspect(t *testing.T) {
	h := newTestHandler(t, `{"data": {"products": [{"sku": "A", "price": 9.5}]}}`)

	rec := createIntegration(t, h, `{
		"source": {"scheme": "http", "host": "feed.example.com", "path": "/feed.json"},
		"path": "data.products"
	}`)
	id := rec["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/v1/integrations/"+id+"/inspect", nil)
	rr := httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("inspect status = %d: %s", rr.Code, rr.Body.String())
	}
	out := decodeResponse(t, rr)
	if out["shape"] != "array_of_objects" {
		t.Fatalf("shape = %v", out["shape"])
	}
	opts, _ := out["options"].([]any)
	if len(opts) != 2 {
		t.Fatalf("options = %v", out["options"])
	}
}

func TestIntegrationInspectBadPath(t *testing.T) {
	h := newTestHandler(t, `{"data": {}}`)

	rec := createIntegration(t, h, `{
		"source": {"scheme": "http", "host": "feed.example.com", "path": "/feed.json"},
		"path": "data.missing"
	}`)
	id := rec["id"].(string)

	req := httptest.NewRequest(http.MethodGet, "/v1/integrations/"+id+"/inspect", nil)
	rr := httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rr.Code)
	}
	out := decodeResponse(t, rr)
	errBody, _ := out["error"].(map[string]any)
	if errBody["code"] != "path_empty" {
		t.Fatalf("code = %v", errBody["code"])
	}
}

func TestIntegrationSaveMapping(t *testing.T) {
	h := newTestHandler(t, `{"items": [{"name": "Widget", "brand": "Acme"}]}`)

	rec := createIntegration(t, h, `{
		"source": {"scheme": "http", "host": "feed.example.com", "path": "/feed.json"},
		"path": "items"
	}`)
	id := rec["id"].(string)

	body := `{"spec": {"titleKey": "name", "optionalFieldKeys": {"vendor": "brand"}, "activeOptionalFields": ["vendor"]}}`
	req := httptest.NewRequest(http.MethodPut, "/v1/integrations/"+id+"/mapping", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/integrations/"+id+"/mapping", nil)
	rr = httptest.NewRecorder()
	h.HandleItem(rr, req)
	out := decodeResponse(t, rr)
	raw, _ := json.Marshal(out["mapping"])
	var persisted struct {
		TitleKey string            `json:"titleKey"`
		Root     map[string]string `json:"root"`
	}
	if err := json.Unmarshal(raw, &persisted); err != nil {
		t.Fatalf("decode mapping: %v", err)
	}
	if persisted.TitleKey != "name" {
		t.Fatalf("titleKey = %q", persisted.TitleKey)
	}
	if persisted.Root["vendor"] != "brand" {
		t.Fatalf("root = %v", persisted.Root)
	}
}

func TestIntegrationDelete(t *testing.T) {
	h := newTestHandler(t, `{}`)

	rec := createIntegration(t, h, `{
		"source": {"scheme": "http", "host": "feed.example.com", "path": "/feed.json"}
	}`)
	id := rec["id"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/v1/integrations/"+id, nil)
	rr := httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/integrations/"+id, nil)
	rr = httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rr.Code)
	}
}

func TestIntegrationUnknownID(t *testing.T) {
	h := newTestHandler(t, `{}`)

	req := httptest.NewRequest(http.MethodGet, "/v1/integrations/bogus", nil)
	rr := httptest.NewRecorder()
	h.HandleItem(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
