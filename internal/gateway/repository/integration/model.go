package integration

import (
	"strings"
	"time"

	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/transport"
)

// Record is one persisted integration configuration: where the document
// comes from, the path into it, and the stored mapping.
type Record struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Source    transport.Source  `json:"source"`
	PathExpr  string            `json:"path_expr"`
	Mapping   mapping.Persisted `json:"mapping"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func normalizeRecord(r Record) Record {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.PathExpr = strings.TrimSpace(r.PathExpr)
	if r.Name == "" {
		r.Name = "Integration"
	}
	return r
}

type rowScanner interface {
	Scan(dest ...any) error
}
