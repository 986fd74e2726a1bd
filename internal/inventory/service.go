// Package inventory validates product submissions and performs owner-scoped
// mutations and reads against the persistence gateway.
package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fairyhunter13/inventory-service/internal/model"
	"github.com/fairyhunter13/inventory-service/internal/obs"
	"github.com/fairyhunter13/inventory-service/internal/store"
)

// Service is the validation and mutation layer.
type Service struct {
	repo  store.Repository
	now   func() time.Time
	newID func() string
}

// NewService returns a Service backed by repo.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo, now: time.Now, newID: uuid.NewString}
}

// WithClock replaces the creation clock. Used by tests and seeding.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create validates raw and stores a new product owned by ownerID.
// Exactly one insert happens on success and none on failure.
func (s *Service) Create(ctx context.Context, ownerID string, raw model.RawFields) (model.Product, error) {
	if strings.TrimSpace(ownerID) == "" {
		return model.Product{}, ErrUnauthenticated
	}
	d, err := Validate(raw)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			obs.ValidationFailures.Add(1)
			obs.Logger.Info("product_rejected", "owner_id", ownerID, "field", verr.Field, "reason", verr.Message)
		}
		return model.Product{}, err
	}

	p := model.Product{
		ID:         s.newID(),
		OwnerID:    ownerID,
		Name:       d.Name,
		Quantity:   d.Quantity,
		Price:      d.Price,
		SKU:        d.SKU,
		LowStockAt: d.LowStockAt,
		CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return model.Product{}, s.persistenceFailure("create product", err)
	}
	obs.ProductsCreated.Add(1)
	obs.Logger.Info("product_created", "owner_id", ownerID, "product_id", p.ID, "quantity", p.Quantity, "price", p.Price.StringFixed(2))
	return p, nil
}

// Delete removes the product id when it belongs to ownerID. Unknown, foreign
// and already-deleted ids are not errors.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if strings.TrimSpace(ownerID) == "" {
		return ErrUnauthenticated
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrMissingID
	}
	n, err := s.repo.DeleteByOwner(ctx, ownerID, id)
	if err != nil {
		return s.persistenceFailure("delete product", err)
	}
	obs.ProductsDeleted.Add(n)
	obs.Logger.Info("product_deleted", "owner_id", ownerID, "product_id", id, "rows", n)
	return nil
}

// List returns the owner's products, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]model.Product, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrUnauthenticated
	}
	ps, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, s.persistenceFailure("list products", err)
	}
	return ps, nil
}

// Get returns one of the owner's products.
func (s *Service) Get(ctx context.Context, ownerID, id string) (model.Product, error) {
	if strings.TrimSpace(ownerID) == "" {
		return model.Product{}, ErrUnauthenticated
	}
	p, err := s.repo.FindByOwner(ctx, ownerID, id)
	if errors.Is(err, store.ErrNotFound) {
		return model.Product{}, ErrNotFound
	}
	if err != nil {
		return model.Product{}, s.persistenceFailure("find product", err)
	}
	return p, nil
}

// Count returns how many products the owner has.
func (s *Service) Count(ctx context.Context, ownerID string) (int64, error) {
	if strings.TrimSpace(ownerID) == "" {
		return 0, ErrUnauthenticated
	}
	n, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return 0, s.persistenceFailure("count products", err)
	}
	return n, nil
}

func (s *Service) persistenceFailure(op string, err error) error {
	obs.PersistenceErrors.Add(1)
	obs.Logger.Error("persistence_failure", "op", op, "error", err)
	return &PersistenceError{Op: op, Err: err}
}
