package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Source identifies a remote document and how to reach it. Password is
// carried for the transports that need it and never logged.
type Source struct {
	Scheme   string `json:"scheme"`
	Host     string `json:"host"`
	Port     int    `json:"port,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
	Path     string `json:"path"`
}

// URI is the cache key for a source. It intentionally excludes the password.
func (s Source) URI() string {
	host := strings.TrimSpace(s.Host)
	if s.Port > 0 {
		host = fmt.Sprintf("%s:%d", host, s.Port)
	}
	parts := []string{strings.TrimSpace(s.Scheme), "://"}
	if u := strings.TrimSpace(s.User); u != "" {
		parts = append(parts, u, "@")
	}
	parts = append(parts, host)
	if b := strings.TrimSpace(s.Bucket); b != "" {
		parts = append(parts, "/", b)
	}
	if p := strings.TrimSpace(s.Path); p != "" {
		parts = append(parts, "/", strings.TrimPrefix(p, "/"))
	}
	return strings.Join(parts, "")
}

// Document is a fetched remote document, already decoded. Consumers only
// ever see decoded values, never transport bytes: Value holds the parsed
// JSON when the payload parses, otherwise Raw holds the text as-is.
type Document struct {
	Value     any       `json:"value,omitempty"`
	Raw       string    `json:"raw,omitempty"`
	Bytes     int       `json:"bytes"`
	FetchedAt time.Time `json:"fetched_at"`
}

// IsJSON reports whether the payload decoded as JSON.
func (d *Document) IsJSON() bool { return d != nil && d.Raw == "" }

// Fetcher retrieves a remote document for a source.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (*Document, error)
}

// Decode turns a fetched payload into a Document, parsing JSON when it can
// and falling back to raw text.
func Decode(payload []byte) *Document {
	doc := &Document{Bytes: len(payload), FetchedAt: time.Now()}
	var v any
	if err := json.Unmarshal(payload, &v); err == nil {
		doc.Value = v
	} else {
		doc.Raw = string(payload)
	}
	return doc
}
