package inventory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-service/internal/model"
	"github.com/fairyhunter13/inventory-service/internal/obs"
	"github.com/fairyhunter13/inventory-service/internal/store"
)

// DemoNames are the product names used for demo data.
var DemoNames = []string{
	"Ergonomic Wireless Mouse",
	"Mechanical Gaming Keyboard",
	"4K UHD LED Monitor 27\"",
	"Noise-Cancelling Headphones",
	"Portable Bluetooth Speaker",
	"USB-C Docking Station",
	"External Solid State Drive 1TB",
	"Mesh Wi-Fi Router System",
	"Premium Leather Notebook A5",
	"Gel Ink Pen Set (12 Colors)",
	"Heavy Duty Filing Cabinet",
	"Thermal Label Printer",
	"Security Camera Kit (4 pack)",
	"Smart Home Thermostat",
	"Robot Vacuum Cleaner",
	"Electric Stand Mixer",
	"Stainless Steel Water Bottle 24oz",
	"Digital Kitchen Scale",
	"High-Speed Blender",
	"Premium Drip Coffee Maker",
	"Fitness Tracker Watch",
	"Yoga Mat Extra Thick",
	"Resistance Band Set (5 levels)",
	"Insulated Lunch Bag",
	"Rechargeable LED Flashlight",
}

// DemoProducts builds n demo products for ownerID, one per day going back
// from now. Prices fall in [10, 100) and quantities in [1, 20].
func DemoProducts(ownerID string, n int, now time.Time, rng *rand.Rand) []model.Product {
	out := make([]model.Product, 0, n)
	for i := range n {
		name := DemoNames[i%len(DemoNames)]
		if i >= len(DemoNames) {
			name = fmt.Sprintf("%s #%d", name, i/len(DemoNames)+1)
		}
		cents := 1000 + rng.Int64N(9000)
		lowStockAt := int64(5)
		out = append(out, model.Product{
			ID:         uuid.NewString(),
			OwnerID:    ownerID,
			Name:       name,
			Quantity:   1 + rng.Int64N(20),
			Price:      decimal.New(cents, -2),
			LowStockAt: &lowStockAt,
			CreatedAt:  now.Add(-time.Duration(i) * 24 * time.Hour).UTC().Truncate(time.Microsecond),
		})
	}
	return out
}

// Seed inserts demo products for ownerID and returns how many were stored.
func Seed(ctx context.Context, repo store.Repository, ownerID string, n int, now time.Time, rng *rand.Rand) (int, error) {
	if ownerID == "" {
		return 0, ErrUnauthenticated
	}
	created := 0
	for _, p := range DemoProducts(ownerID, n, now, rng) {
		if err := repo.Create(ctx, p); err != nil {
			return created, fmt.Errorf("seed product %q: %w", p.Name, err)
		}
		created++
	}
	obs.Logger.Info("demo_data_seeded", "owner_id", ownerID, "count", created)
	return created, nil
}
