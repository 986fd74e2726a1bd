// Package model defines domain types used by the service.
package model

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a single inventory record owned by one principal.
type Product struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OwnerID    string          `json:"owner_id" gorm:"column:owner_id;type:varchar(191);not null"`
	Name       string          `json:"name" gorm:"type:varchar(255);not null"`
	Quantity   int64           `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	SKU        *string         `json:"sku" gorm:"column:sku;type:varchar(100)"`
	LowStockAt *int64          `json:"low_stock_at" gorm:"column:low_stock_at"`
	CreatedAt  time.Time       `json:"created_at" gorm:"not null"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// Value returns price × quantity.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(p.Quantity))
}

// Threshold returns the product's low-stock threshold, or def when none is set.
func (p Product) Threshold(def int64) int64 {
	if p.LowStockAt != nil {
		return *p.LowStockAt
	}
	return def
}

// Clone returns a copy that shares no pointers with p.
func (p Product) Clone() Product {
	if p.SKU != nil {
		sku := *p.SKU
		p.SKU = &sku
	}
	if p.LowStockAt != nil {
		at := *p.LowStockAt
		p.LowStockAt = &at
	}
	return p
}

// RawFields is an unvalidated product submission as received from a form or JSON body.
// It has no owner field; the owner always comes from the session.
type RawFields struct {
	Name       FormValue `json:"name" form:"name"`
	Quantity   FormValue `json:"quantity" form:"quantity"`
	Price      FormValue `json:"price" form:"price"`
	SKU        FormValue `json:"sku" form:"sku"`
	LowStockAt FormValue `json:"low_stock_at" form:"low_stock_at"`
}

// FormValue is the raw text of a submitted field. In JSON it accepts a string,
// a number (kept as its literal text) or null (empty).
type FormValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(s)
		return nil
	}
	*v = FormValue(b)
	return nil
}

// String returns the raw text.
func (v FormValue) String() string { return string(v) }
