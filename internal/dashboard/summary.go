package dashboard

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-service/internal/model"
)

// Summary is the complete dashboard for one owner.
type Summary struct {
	TotalProducts  int             `json:"total_products"`
	LowStockItems  int             `json:"low_stock_items"`
	TotalValue     decimal.Decimal `json:"total_value"`
	Display        Display         `json:"display"`
	WeeklyTrend    []Bucket        `json:"weekly_trend"`
	StockLevels    []LevelCount    `json:"stock_levels"`
	Recent         []RecentProduct `json:"recent"`
	MonthlyValue   []MonthValue    `json:"monthly_value"`
	GeneratedAt    time.Time       `json:"generated_at"`
	LowStockPolicy int64           `json:"low_stock_default"`
}

// Display holds the headline numbers formatted for people.
type Display struct {
	TotalProducts string `json:"total_products"`
	LowStockItems string `json:"low_stock_items"`
	TotalValue    string `json:"total_value"`
}

// Summarize computes every metric over ps at now.
func Summarize(ps []model.Product, now time.Time, opts Options) Summary {
	total := TotalCount(ps)
	low := LowStockCount(ps, opts.LowStockDefault)
	value := TotalValue(ps)
	return Summary{
		TotalProducts: total,
		LowStockItems: low,
		TotalValue:    value,
		Display: Display{
			TotalProducts: FormatCount(total),
			LowStockItems: FormatCount(low),
			TotalValue:    FormatUSD(value),
		},
		WeeklyTrend:    WeeklyTrend(ps, now, opts.TrendWeeks),
		StockLevels:    StockLevels(ps, opts.LowStockDefault),
		Recent:         Recent(ps, opts.RecentLimit, opts.LowStockDefault),
		MonthlyValue:   MonthlyValue(ps, now, opts.MonthlyMonths),
		GeneratedAt:    now,
		LowStockPolicy: opts.LowStockDefault,
	}
}
