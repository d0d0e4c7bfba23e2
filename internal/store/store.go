// Package store holds the in-memory snapshot the dashboard renders from.
// There is no persistence: every fetch cycle replaces the previous snapshot
// wholesale, and concurrent writers simply overwrite in arrival order.
package store

import (
	"sync"
	"time"

	"github.com/yourorg/stableyield-sentinel/internal/model"
)

// Store is the shared snapshot of pools and news. Writes are last-write-wins;
// readers always see a consistent slice from some completed fetch.
type Store struct {
	mu sync.RWMutex

	pools      []model.Pool
	news       []model.NewsItem
	poolsSetAt time.Time
	newsSetAt  time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// SetPools replaces the pool snapshot.
func (s *Store) SetPools(pools []model.Pool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pools = pools
	s.poolsSetAt = time.Now()
}

// SetNews replaces the news snapshot.
func (s *Store) SetNews(items []model.NewsItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = items
	s.newsSetAt = time.Now()
}

// Pools returns the current pool snapshot. The returned slice must not be
// modified by the caller.
func (s *Store) Pools() []model.Pool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pools
}

// News returns the current news snapshot.
func (s *Store) News() []model.NewsItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.news
}

// UpdatedAt returns when each snapshot was last replaced.
func (s *Store) UpdatedAt() (pools, news time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.poolsSetAt, s.newsSetAt
}
