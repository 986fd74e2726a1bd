// Package store is the persistence gateway for products.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/fairyhunter13/inventory-service/internal/model"
)

var (
	// ErrNotFound is returned when no product matches both id and owner.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateID is returned when a product id is already taken.
	ErrDuplicateID = errors.New("duplicate product id")
)

// Repository is the typed contract over the products table. Every operation is
// scoped by owner id.
type Repository interface {
	Create(ctx context.Context, p model.Product) error
	FindByOwner(ctx context.Context, ownerID, id string) (model.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Product, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	DeleteByOwner(ctx context.Context, ownerID, id string) (int64, error)
}

// Store keeps products in memory.
type Store struct {
	mu sync.RWMutex
	m  map[string]model.Product
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{m: make(map[string]model.Product)}
}

// Create inserts p.
func (s *Store) Create(_ context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[p.ID]; ok {
		return ErrDuplicateID
	}
	s.m[p.ID] = p.Clone()
	return nil
}

// FindByOwner returns the product with id when it belongs to ownerID.
func (s *Store) FindByOwner(_ context.Context, ownerID, id string) (model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.m[id]
	if !ok || p.OwnerID != ownerID {
		return model.Product{}, ErrNotFound
	}
	return p.Clone(), nil
}

// ListByOwner returns the owner's products, newest first.
func (s *Store) ListByOwner(_ context.Context, ownerID string) ([]model.Product, error) {
	s.mu.RLock()
	out := make([]model.Product, 0)
	for _, p := range s.m {
		if p.OwnerID == ownerID {
			out = append(out, p.Clone())
		}
	}
	s.mu.RUnlock()
	SortNewestFirst(out)
	return out, nil
}

// CountByOwner returns how many products the owner has.
func (s *Store) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, p := range s.m {
		if p.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

// DeleteByOwner removes the product matching both id and owner and reports
// the number of rows removed (0 or 1).
func (s *Store) DeleteByOwner(_ context.Context, ownerID, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.m[id]
	if !ok || p.OwnerID != ownerID {
		return 0, nil
	}
	delete(s.m, id)
	return 1, nil
}

// SortNewestFirst orders products by creation time descending, ties broken by id.
func SortNewestFirst(ps []model.Product) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].ID < ps[j].ID
		}
		return ps[i].CreatedAt.After(ps[j].CreatedAt)
	})
}
