// Package memory is an in-process LRU result cache.
package memory

import (
	"context"
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/davidbz/promptsmith/internal/domain"
)

type entry struct {
	result    *domain.OptimizationResult
	expiresAt time.Time
}

// Store implements domain.ResultCache over a bounded LRU.
type Store struct {
	entries *lru.Cache[string, entry]
	now     func() time.Time
}

// NewStore creates a store holding at most size results.
func NewStore(size int) (*Store, error) {
	entries, err := lru.New[string, entry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create lru: %w", err)
	}

	return &Store{entries: entries, now: time.Now}, nil
}

// WithClock replaces the time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Get returns a deep copy of the stored result; expired entries are evicted.
func (s *Store) Get(_ context.Context, key string) (*domain.OptimizationResult, error) {
	e, ok := s.entries.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		s.entries.Remove(key)
		return nil, domain.ErrCacheMiss
	}

	return e.result.Clone(), nil
}

// Set stores result; a non-positive ttl never expires.
func (s *Store) Set(_ context.Context, key string, result *domain.OptimizationResult, ttl time.Duration) error {
	if result == nil {
		return errors.New("result cannot be nil")
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.entries.Add(key, entry{result: result.Clone(), expiresAt: expiresAt})
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	return s.entries.Len()
}
