package document

import (
	"container/list"
	"sync"
	"time"

	"feedbridge/internal/transport"
)

type entry struct {
	uri       string
	doc       *transport.Document
	expiresAt time.Time
	size      int
}

// Cache is a threadsafe LRU of fetched documents with per-entry TTL, keyed
// by source URI. A stale document is never merged with a fresh one: expiry
// or invalidation drops the entry and the next fetch replaces it whole.
type Cache struct {
	mu         sync.Mutex
	ll         *list.List
	items      map[string]*list.Element
	maxEntries int
	maxBytes   int
	totalBytes int
	ttl        time.Duration
}

func NewCache(maxEntries int, maxBytes int, ttl time.Duration) *Cache {
	if maxEntries <= 0 {
		maxEntries = 16
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		ttl:        ttl,
	}
}

func (c *Cache) Get(uri string) (*transport.Document, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, ok := c.items[uri]
	if !ok {
		return nil, false
	}
	ent := ele.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.removeElement(ele)
		return nil, false
	}
	c.ll.MoveToFront(ele)
	return ent.doc, true
}

func (c *Cache) Put(uri string, doc *transport.Document) {
	if c == nil || doc == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if ele, ok := c.items[uri]; ok {
		ent := ele.Value.(*entry)
		c.totalBytes -= ent.size
		ent.doc = doc
		ent.size = doc.Bytes
		ent.expiresAt = time.Now().Add(c.ttl)
		c.totalBytes += ent.size
		c.ll.MoveToFront(ele)
		c.evictLocked()
		return
	}

	ent := &entry{
		uri:       uri,
		doc:       doc,
		size:      doc.Bytes,
		expiresAt: time.Now().Add(c.ttl),
	}
	ele := c.ll.PushFront(ent)
	c.items[uri] = ele
	c.totalBytes += ent.size
	c.evictLocked()
}

// Invalidate drops one source's document, forcing the next fetch to go to
// the transport.
func (c *Cache) Invalidate(uri string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, ok := c.items[uri]; ok {
		c.removeElement(ele)
	}
}

func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll = list.New()
	c.items = make(map[string]*list.Element)
	c.totalBytes = 0
}

func (c *Cache) evictLocked() {
	for {
		if c.ll.Len() == 0 {
			return
		}
		if c.ll.Len() <= c.maxEntries && (c.maxBytes <= 0 || c.totalBytes <= c.maxBytes) {
			return
		}
		c.removeElement(c.ll.Back())
	}
}

func (c *Cache) removeElement(ele *list.Element) {
	if ele == nil {
		return
	}
	c.ll.Remove(ele)
	ent := ele.Value.(*entry)
	delete(c.items, ent.uri)
	c.totalBytes -= ent.size
	if c.totalBytes < 0 {
		c.totalBytes = 0
	}
}
