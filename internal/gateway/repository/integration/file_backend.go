package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		if s.path == "" {
			return
		}
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []Record
		if err := json.Unmarshal(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeRecord(row)
		}
	})
}

func (s *Store) saveFile() {
	if s.path == "" {
		return
	}
	s.mu.RLock()
	rows := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		rows = append(rows, normalizeRecord(rec))
	}
	s.mu.RUnlock()
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	b, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return
	}
	_ = os.MkdirAll(filepath.Dir(s.path), 0o755)
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}

func (s *Store) getFile(id string) (Record, bool) {
	s.ensureLoadedFile()
	key := strings.TrimSpace(id)
	if key == "" {
		return Record{}, false
	}
	s.mu.RLock()
	rec, ok := s.byID[key]
	s.mu.RUnlock()
	if !ok {
		return Record{}, false
	}
	return normalizeRecord(rec), true
}

func (s *Store) putFile(rec Record) {
	s.ensureLoadedFile()
	normalized := normalizeRecord(rec)
	if normalized.ID == "" {
		return
	}
	s.mu.Lock()
	s.byID[normalized.ID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) deleteFile(id string) bool {
	s.ensureLoadedFile()
	key := strings.TrimSpace(id)
	if key == "" {
		return false
	}
	s.mu.Lock()
	_, ok := s.byID[key]
	if ok {
		delete(s.byID, key)
	}
	s.mu.Unlock()
	if ok {
		s.saveFile()
	}
	return ok
}

func (s *Store) listFile() []Record {
	s.ensureLoadedFile()
	s.mu.RLock()
	out := make([]Record, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, normalizeRecord(rec))
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
