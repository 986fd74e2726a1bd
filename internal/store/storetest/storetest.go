// Package storetest provides the behavioural contract every store.Repository
// implementation must satisfy.
package storetest

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-service/internal/model"
	"github.com/fairyhunter13/inventory-service/internal/store"
)

// NewProduct builds a valid product for ownerID created at createdAt.
func NewProduct(ownerID, name string, createdAt time.Time) model.Product {
	return model.Product{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Quantity:  3,
		Price:     decimal.RequireFromString("10.50"),
		CreatedAt: createdAt.UTC().Truncate(time.Microsecond),
	}
}

// RunRepositoryContract exercises newRepo's repository. newRepo must return an
// empty repository; owner ids are unique per run so a shared database is fine.
func RunRepositoryContract(t *testing.T, newRepo func(t *testing.T) store.Repository) {
	t.Run("create then find", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.NewString()

		sku := "SKU-42"
		at := int64(2)
		p := NewProduct(owner, "Widget", time.Now())
		p.SKU = &sku
		p.LowStockAt = &at
		c.Assert(repo.Create(ctx, p), qt.IsNil)

		got, err := repo.FindByOwner(ctx, owner, p.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(got.Name, qt.Equals, "Widget")
		c.Assert(got.OwnerID, qt.Equals, owner)
		c.Assert(got.Quantity, qt.Equals, int64(3))
		c.Assert(got.Price.Equal(decimal.RequireFromString("10.50")), qt.IsTrue, qt.Commentf("price %s", got.Price))
		c.Assert(got.SKU, qt.IsNotNil)
		c.Assert(*got.SKU, qt.Equals, "SKU-42")
		c.Assert(got.LowStockAt, qt.IsNotNil)
		c.Assert(*got.LowStockAt, qt.Equals, int64(2))
		c.Assert(got.CreatedAt.Equal(p.CreatedAt), qt.IsTrue, qt.Commentf("created_at %s != %s", got.CreatedAt, p.CreatedAt))
	})

	t.Run("nullable fields stay null", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(t)
		owner := uuid.NewString()

		p := NewProduct(owner, "Plain", time.Now())
		c.Assert(repo.Create(ctx, p), qt.IsNil)
		got, err := repo.FindByOwner(ctx, owner, p.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(got.SKU, qt.IsNil)
		c.Assert(got.LowStockAt, qt.IsNil)
	})

	t.Run("duplicate id", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(t)
		p := NewProduct(uuid.NewString(), "Once", time.Now())
		c.Assert(repo.Create(ctx, p), qt.IsNil)
		c.Assert(repo.Create(ctx, p), qt.ErrorIs, store.ErrDuplicateID)
	})

	t.Run("list is owner scoped and newest first", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(t)
		alice, bob := uuid.NewString(), uuid.NewString()
		base := time.Now().Add(-time.Hour)

		oldest := NewProduct(alice, "oldest", base.Add(-48*time.Hour))
		newest := NewProduct(alice, "newest", base)
		middle := NewProduct(alice, "middle", base.Add(-24*time.Hour))
		foreign := NewProduct(bob, "foreign", base.Add(time.Minute))
		for _, p := range []model.Product{oldest, newest, middle, foreign} {
			c.Assert(repo.Create(ctx, p), qt.IsNil)
		}

		got, err := repo.ListByOwner(ctx, alice)
		c.Assert(err, qt.IsNil)
		names := make([]string, len(got))
		for i, p := range got {
			names[i] = p.Name
		}
		c.Assert(names, qt.DeepEquals, []string{"newest", "middle", "oldest"})

		n, err := repo.CountByOwner(ctx, alice)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, int64(3))

		none, err := repo.ListByOwner(ctx, uuid.NewString())
		c.Assert(err, qt.IsNil)
		c.Assert(none, qt.HasLen, 0)
	})

	t.Run("find rejects other owners", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(t)
		p := NewProduct(uuid.NewString(), "private", time.Now())
		c.Assert(repo.Create(ctx, p), qt.IsNil)

		_, err := repo.FindByOwner(ctx, uuid.NewString(), p.ID)
		c.Assert(err, qt.ErrorIs, store.ErrNotFound)
	})

	t.Run("delete is owner scoped and idempotent", func(t *testing.T) {
		c := qt.New(t)
		ctx := context.Background()
		repo := newRepo(t)
		owner, intruder := uuid.NewString(), uuid.NewString()
		p := NewProduct(owner, "target", time.Now())
		c.Assert(repo.Create(ctx, p), qt.IsNil)

		n, err := repo.DeleteByOwner(ctx, intruder, p.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, int64(0))
		_, err = repo.FindByOwner(ctx, owner, p.ID)
		c.Assert(err, qt.IsNil)

		n, err = repo.DeleteByOwner(ctx, owner, p.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, int64(1))

		n, err = repo.DeleteByOwner(ctx, owner, p.ID)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, int64(0))

		n, err = repo.DeleteByOwner(ctx, owner, uuid.NewString())
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, int64(0))
	})
}
