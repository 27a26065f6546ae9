package integration

import (
	"database/sql"
	"os"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store persists integration records. It is backed by Postgres when a DSN
// is configured and a JSON file otherwise; a file path of "" keeps records
// in memory only (tests, throwaway sessions).
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]Record

	schemaOnce sync.Once
	schemaErr  error

	recordCache *lru.Cache[string, Record]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]Record),
	}
}

func NewMemory() *Store {
	return New("")
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, Record](512)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:          db,
		recordCache: cache,
	}, nil
}

// NewFromEnv picks Postgres when INTEGRATION_STORE_PG_DSN is set and falls
// back to the file backend when the connection cannot be established.
func NewFromEnv(path string) *Store {
	dsn := strings.TrimSpace(os.Getenv("INTEGRATION_STORE_PG_DSN"))
	if dsn == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		return New(path)
	}
	return s
}

func (s *Store) Get(id string) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	if s.db != nil {
		if s.recordCache != nil {
			if cached, ok := s.recordCache.Get(strings.TrimSpace(id)); ok {
				return cached, true
			}
		}
		rec, ok := s.getDB(id)
		if ok && s.recordCache != nil {
			s.recordCache.Add(rec.ID, rec)
		}
		return rec, ok
	}
	return s.getFile(id)
}

func (s *Store) Put(rec Record) {
	if s == nil {
		return
	}
	if s.db != nil {
		s.putDB(rec)
		if s.recordCache != nil {
			s.recordCache.Remove(strings.TrimSpace(rec.ID))
		}
		return
	}
	s.putFile(rec)
}

func (s *Store) Delete(id string) bool {
	if s == nil {
		return false
	}
	if s.db != nil {
		ok := s.deleteDB(id)
		if s.recordCache != nil {
			s.recordCache.Remove(strings.TrimSpace(id))
		}
		return ok
	}
	return s.deleteFile(id)
}

func (s *Store) List() []Record {
	if s == nil {
		return nil
	}
	if s.db != nil {
		return s.listDB()
	}
	return s.listFile()
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
