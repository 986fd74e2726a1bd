// Package dashboard computes inventory metrics over a snapshot of one owner's
// products. Every function is pure; results depend only on its arguments.
package dashboard

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-service/internal/model"
	"github.com/fairyhunter13/inventory-service/internal/store"
)

// Stock level names.
const (
	OutOfStock = "Out of Stock"
	LowStock   = "Low Stock"
	InStock    = "In Stock"
)

// Options tunes the aggregations.
type Options struct {
	LowStockDefault int64
	TrendWeeks      int
	MonthlyMonths   int
	RecentLimit     int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{LowStockDefault: 5, TrendWeeks: 12, MonthlyMonths: 6, RecentLimit: 5}
}

// Bucket is one week of the creation trend. Start and End are both inclusive.
type Bucket struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Count int       `json:"count"`
}

// LevelCount is the number of products at one stock level.
type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

// RecentProduct is a recently created product with its stock level.
type RecentProduct struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// MonthValue is the inventory value of products created in one calendar month.
type MonthValue struct {
	Label string          `json:"label"`
	Month time.Time       `json:"month"`
	Value decimal.Decimal `json:"value"`
}

// TotalCount returns the number of products.
func TotalCount(ps []model.Product) int {
	return len(ps)
}

// LowStockCount counts products whose quantity is at or below their threshold.
// Products without a threshold use def.
func LowStockCount(ps []model.Product, def int64) int {
	n := 0
	for _, p := range ps {
		if p.Quantity <= p.Threshold(def) {
			n++
		}
	}
	return n
}

// TotalValue returns the exact sum of price × quantity.
func TotalValue(ps []model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range ps {
		total = total.Add(p.Value())
	}
	return total
}

// WeeklyTrend splits creation times into weeks consecutive buckets ending at
// now, oldest first. Bucket i starts at local midnight of now-(weeks-i)*7 days
// and ends at the last instant of the day seven days later.
func WeeklyTrend(ps []model.Product, now time.Time, weeks int) []Bucket {
	if weeks <= 0 {
		return []Bucket{}
	}
	loc := now.Location()
	out := make([]Bucket, 0, weeks)
	for i := range weeks {
		day := now.AddDate(0, 0, -(weeks-i)*7)
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
		endDay := start.AddDate(0, 0, 7)
		end := time.Date(endDay.Year(), endDay.Month(), endDay.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), loc)

		b := Bucket{Label: "Week of " + start.Format("1/2/2006"), Start: start, End: end}
		for _, p := range ps {
			if !p.CreatedAt.Before(start) && !p.CreatedAt.After(end) {
				b.Count++
			}
		}
		out = append(out, b)
	}
	return out
}

// LevelOf classifies a product's stock.
func LevelOf(p model.Product, def int64) string {
	switch {
	case p.Quantity == 0:
		return OutOfStock
	case p.Quantity <= p.Threshold(def):
		return LowStock
	default:
		return InStock
	}
}

// StockLevels returns the count per stock level in display order.
func StockLevels(ps []model.Product, def int64) []LevelCount {
	out := []LevelCount{{Level: OutOfStock}, {Level: LowStock}, {Level: InStock}}
	for _, p := range ps {
		switch LevelOf(p, def) {
		case OutOfStock:
			out[0].Count++
		case LowStock:
			out[1].Count++
		default:
			out[2].Count++
		}
	}
	return out
}

// Recent returns the n newest products.
func Recent(ps []model.Product, n int, def int64) []RecentProduct {
	sorted := slices.Clone(ps)
	store.SortNewestFirst(sorted)
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]RecentProduct, 0, len(sorted))
	for _, p := range sorted {
		out = append(out, RecentProduct{
			ID:        p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Level:     LevelOf(p, def),
			CreatedAt: p.CreatedAt,
		})
	}
	return out
}

// MonthlyValue returns the value of products created in each of the last
// months calendar months, oldest first, the current month last.
func MonthlyValue(ps []model.Product, now time.Time, months int) []MonthValue {
	if months <= 0 {
		return []MonthValue{}
	}
	loc := now.Location()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	out := make([]MonthValue, 0, months)
	for i := months - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		next := start.AddDate(0, 1, 0)
		mv := MonthValue{Label: start.Format("Jan 06"), Month: start, Value: decimal.Zero}
		for _, p := range ps {
			if !p.CreatedAt.Before(start) && p.CreatedAt.Before(next) {
				mv.Value = mv.Value.Add(p.Value())
			}
		}
		out = append(out, mv)
	}
	return out
}
