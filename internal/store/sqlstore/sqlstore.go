// Package sqlstore implements the product repository on a relational database through gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/fairyhunter13/inventory-service/internal/model"
	"github.com/fairyhunter13/inventory-service/internal/store"
)

// Store is a gorm-backed store.Repository.
type Store struct {
	db *gorm.DB
}

var _ store.Repository = (*Store)(nil)

// New returns a Store using db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts p.
func (s *Store) Create(ctx context.Context, p model.Product) error {
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return store.ErrDuplicateID
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// FindByOwner returns the product with id when it belongs to ownerID.
func (s *Store) FindByOwner(ctx context.Context, ownerID, id string) (model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, store.ErrNotFound
	}
	if err != nil {
		return model.Product{}, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// ListByOwner returns the owner's products, newest first.
func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]model.Product, error) {
	out := make([]model.Product, 0)
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// CountByOwner returns how many products the owner has.
func (s *Store) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("owner_id = ?", ownerID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// DeleteByOwner removes the row matching both id and owner.
func (s *Store) DeleteByOwner(ctx context.Context, ownerID, id string) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Product{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete product: %w", res.Error)
	}
	return res.RowsAffected, nil
}
