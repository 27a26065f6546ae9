package integration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"feedbridge/internal/cache/document"
	"feedbridge/internal/engine/jsonpath"
	"feedbridge/internal/engine/mapping"
	integrationrepo "feedbridge/internal/gateway/repository/integration"
	"feedbridge/internal/transport"
)

// Service orchestrates the integration lifecycle: fetch the remote document
// (through the cache), extract the dataset at the configured path, discover
// mappable fields, and keep the persisted mapping reconciled with whatever
// the document currently looks like.
type Service struct {
	store    *integrationrepo.Store
	cache    *document.Cache
	fetchers map[string]transport.Fetcher
}

func New(store *integrationrepo.Store, cache *document.Cache) *Service {
	return &Service{
		store:    store,
		cache:    cache,
		fetchers: make(map[string]transport.Fetcher),
	}
}

// RegisterFetcher binds a transport to a source scheme.
func (s *Service) RegisterFetcher(scheme string, f transport.Fetcher) {
	s.fetchers[strings.ToLower(strings.TrimSpace(scheme))] = f
}

// FetchDocument returns the document for a source, from cache when fresh.
func (s *Service) FetchDocument(ctx context.Context, src transport.Source) (*transport.Document, error) {
	uri := src.URI()
	if doc, ok := s.cache.Get(uri); ok {
		return doc, nil
	}
	scheme := strings.ToLower(strings.TrimSpace(src.Scheme))
	fetcher, ok := s.fetchers[scheme]
	if !ok {
		return nil, fmt.Errorf("no transport registered for scheme %q", scheme)
	}
	doc, err := fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	s.cache.Put(uri, doc)
	return doc, nil
}

// Refetch drops the cached copy and downloads the document again.
func (s *Service) Refetch(ctx context.Context, src transport.Source) (*transport.Document, error) {
	s.cache.Invalidate(src.URI())
	return s.FetchDocument(ctx, src)
}

// Inspection is what the mapping screens need after a path edit: the shape
// at the path, the discoverable fields and the selectable record count.
type Inspection struct {
	Shape       string                `json:"shape"`
	Options     []mapping.FieldOption `json:"options"`
	RecordCount int                   `json:"recordCount"`
}

// Inspect fetches, extracts and discovers in one step. Path failures come
// back as the engine's typed errors so callers can tell an empty path from
// an unmappable one.
func (s *Service) Inspect(ctx context.Context, src transport.Source, pathExpr string) (*Inspection, any, error) {
	doc, err := s.FetchDocument(ctx, src)
	if err != nil {
		return nil, nil, err
	}
	if !doc.IsJSON() {
		return nil, nil, fmt.Errorf("document at %s is not JSON", src.URI())
	}
	extracted, err := jsonpath.Extract(doc.Value, pathExpr)
	if err != nil {
		return nil, nil, err
	}
	inspection := &Inspection{
		Shape:       jsonpath.Classify(extracted).String(),
		Options:     mapping.DiscoverOptions(extracted),
		RecordCount: recordCount(extracted),
	}
	return inspection, extracted, nil
}

func recordCount(extracted any) int {
	if arr, ok := extracted.([]any); ok {
		return len(arr)
	}
	if extracted == nil {
		return 0
	}
	return 1
}

// Create stores a new integration record.
func (s *Service) Create(name string, src transport.Source, pathExpr string) integrationrepo.Record {
	now := time.Now()
	rec := integrationrepo.Record{
		ID:        fmt.Sprintf("integration-%d", now.UnixNano()),
		Name:      name,
		Source:    src,
		PathExpr:  pathExpr,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.store.Put(rec)
	saved, _ := s.store.Get(rec.ID)
	return saved
}

func (s *Service) Get(id string) (integrationrepo.Record, bool) {
	return s.store.Get(id)
}

func (s *Service) List() []integrationrepo.Record {
	return s.store.List()
}

func (s *Service) Delete(id string) bool {
	return s.store.Delete(id)
}

// Update rewrites an integration's settings, keeping its identity and
// created timestamp.
func (s *Service) Update(id string, name string, src transport.Source, pathExpr string) (integrationrepo.Record, bool) {
	rec, ok := s.store.Get(id)
	if !ok {
		return integrationrepo.Record{}, false
	}
	rec.Name = name
	rec.Source = src
	rec.PathExpr = pathExpr
	rec.UpdatedAt = time.Now()
	s.store.Put(rec)
	saved, _ := s.store.Get(id)
	return saved, true
}

// SaveMapping validates a working spec against the current document and
// persists the flattened form. The spec is always reconciled against fresh
// options first; stale keys never reach the store.
func (s *Service) SaveMapping(ctx context.Context, id string, spec mapping.Spec) (integrationrepo.Record, error) {
	rec, ok := s.store.Get(id)
	if !ok {
		return integrationrepo.Record{}, fmt.Errorf("integration %q not found", id)
	}
	inspection, _, err := s.Inspect(ctx, rec.Source, rec.PathExpr)
	if err != nil {
		return integrationrepo.Record{}, err
	}
	validated := mapping.Validate(spec, inspection.Options)
	rec.Mapping = validated.ToPersisted()
	rec.UpdatedAt = time.Now()
	s.store.Put(rec)
	saved, _ := s.store.Get(id)
	return saved, nil
}
