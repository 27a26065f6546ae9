package integration

import (
	"encoding/json"
	"strings"
	"time"

	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/transport"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS integrations (
  integration_id TEXT PRIMARY KEY,
  integration_name TEXT NOT NULL DEFAULT 'Integration',
  source JSONB NOT NULL DEFAULT '{}',
  path_expr TEXT NOT NULL DEFAULT '',
  mapping JSONB NOT NULL DEFAULT '{}',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
  updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
`)
	})
	return s.schemaErr
}

func scanRecordDB(row rowScanner) (Record, bool) {
	var rec Record
	var sourceRaw, mappingRaw []byte
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&sourceRaw,
		&rec.PathExpr,
		&mappingRaw,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return Record{}, false
	}
	if err := json.Unmarshal(sourceRaw, &rec.Source); err != nil {
		rec.Source = transport.Source{}
	}
	if err := json.Unmarshal(mappingRaw, &rec.Mapping); err != nil {
		rec.Mapping = mapping.Persisted{}
	}
	return normalizeRecord(rec), true
}

func (s *Store) getDB(id string) (Record, bool) {
	if err := s.ensureSchema(); err != nil {
		return Record{}, false
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return Record{}, false
	}
	row := s.db.QueryRow(`SELECT integration_id, integration_name, source, path_expr, mapping, created_at, updated_at
FROM integrations WHERE integration_id = $1`, key)
	return scanRecordDB(row)
}

func (s *Store) putDB(rec Record) {
	if err := s.ensureSchema(); err != nil {
		return
	}
	n := normalizeRecord(rec)
	if n.ID == "" {
		return
	}
	sourceRaw, err := json.Marshal(n.Source)
	if err != nil {
		return
	}
	mappingRaw, err := json.Marshal(n.Mapping)
	if err != nil {
		return
	}
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	_, _ = s.db.Exec(`
INSERT INTO integrations (
  integration_id, integration_name, source, path_expr, mapping, created_at, updated_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (integration_id)
DO UPDATE SET integration_name=EXCLUDED.integration_name,
  source=EXCLUDED.source,
  path_expr=EXCLUDED.path_expr,
  mapping=EXCLUDED.mapping,
  updated_at=EXCLUDED.updated_at`,
		n.ID, n.Name, sourceRaw, n.PathExpr, mappingRaw, n.CreatedAt, now)
}

func (s *Store) deleteDB(id string) bool {
	if err := s.ensureSchema(); err != nil {
		return false
	}
	key := strings.TrimSpace(id)
	if key == "" {
		return false
	}
	res, err := s.db.Exec(`DELETE FROM integrations WHERE integration_id = $1`, key)
	if err != nil {
		return false
	}
	n, err := res.RowsAffected()
	return err == nil && n > 0
}

func (s *Store) listDB() []Record {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	rows, err := s.db.Query(`SELECT integration_id, integration_name, source, path_expr, mapping, created_at, updated_at
FROM integrations ORDER BY integration_id`)
	if err != nil {
		return nil
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		if rec, ok := scanRecordDB(rows); ok {
			out = append(out, rec)
		}
	}
	return out
}
