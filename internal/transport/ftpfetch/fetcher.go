package ftpfetch

import (
	"context"
	"fmt"
	"io"

	"feedbridge/internal/transport"
)

// Fetcher downloads remote documents over FTP through a shared connection
// pool. Failures surface as plain errors; the caller sees decoded documents
// only.
type Fetcher struct {
	pool *Pool
}

func NewFetcher(pool *Pool) *Fetcher {
	return &Fetcher{pool: pool}
}

func (f *Fetcher) Fetch(ctx context.Context, src transport.Source) (*transport.Document, error) {
	c, err := f.pool.acquire(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("ftp connect %s: %w", src.Host, err)
	}
	r, err := c.Retr(src.Path)
	if err != nil {
		f.pool.discard(c)
		return nil, fmt.Errorf("ftp retrieve %s: %w", src.Path, err)
	}
	payload, readErr := io.ReadAll(r)
	closeErr := r.Close()
	if readErr != nil {
		f.pool.discard(c)
		return nil, fmt.Errorf("ftp read %s: %w", src.Path, readErr)
	}
	if closeErr != nil {
		// The transfer completed; the data connection just closed dirty.
		f.pool.discard(c)
	} else {
		f.pool.release(src, c)
	}
	return transport.Decode(payload), nil
}
