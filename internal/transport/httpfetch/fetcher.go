package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedbridge/internal/transport"
)

const maxPayloadBytes = 32 << 20

// Fetcher downloads remote documents over HTTP(S).
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

func (f *Fetcher) Fetch(ctx context.Context, src transport.Source) (*transport.Document, error) {
	u := buildURL(src)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("http request %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if src.User != "" {
		req.SetBasicAuth(src.User, src.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http fetch %s: unexpected status %s", u, resp.Status)
	}
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("http read %s: %w", u, err)
	}
	return transport.Decode(payload), nil
}

func buildURL(src transport.Source) string {
	scheme := strings.TrimSpace(src.Scheme)
	if scheme != "https" {
		scheme = "http"
	}
	host := strings.TrimSpace(src.Host)
	if src.Port > 0 {
		host = fmt.Sprintf("%s:%d", host, src.Port)
	}
	u := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   "/" + strings.TrimPrefix(strings.TrimSpace(src.Path), "/"),
	}
	return u.String()
}
