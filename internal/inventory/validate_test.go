package inventory

import (
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-service/internal/model"
)

func raw(name, qty, price string) model.RawFields {
	return model.RawFields{
		Name:     model.FormValue(name),
		Quantity: model.FormValue(qty),
		Price:    model.FormValue(price),
	}
}

func TestValidate_Accepts(t *testing.T) {
	c := qt.New(t)

	in := raw("  Widget  ", "10", "19.99")
	in.SKU = "  W-1 "
	in.LowStockAt = "3"
	d, err := Validate(in)
	c.Assert(err, qt.IsNil)
	c.Assert(d.Name, qt.Equals, "Widget")
	c.Assert(d.Quantity, qt.Equals, int64(10))
	c.Assert(d.Price.Equal(decimal.RequireFromString("19.99")), qt.IsTrue)
	c.Assert(*d.SKU, qt.Equals, "W-1")
	c.Assert(*d.LowStockAt, qt.Equals, int64(3))
}

func TestValidate_OptionalFields(t *testing.T) {
	c := qt.New(t)

	d, err := Validate(raw("Widget", "0", "0"))
	c.Assert(err, qt.IsNil)
	c.Assert(d.SKU, qt.IsNil)
	c.Assert(d.LowStockAt, qt.IsNil)

	in := raw("Widget", "1", "1")
	in.LowStockAt = "0"
	d, err = Validate(in)
	c.Assert(err, qt.IsNil)
	c.Assert(d.LowStockAt, qt.IsNotNil)
	c.Assert(*d.LowStockAt, qt.Equals, int64(0))
}

func TestValidate_PriceRoundedToCents(t *testing.T) {
	c := qt.New(t)

	d, err := Validate(raw("Widget", "1", "19.999"))
	c.Assert(err, qt.IsNil)
	c.Assert(d.Price.StringFixed(2), qt.Equals, "20.00")

	d, err = Validate(raw("Widget", "1", "1e1"))
	c.Assert(err, qt.IsNil)
	c.Assert(d.Price.StringFixed(2), qt.Equals, "10.00")
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		in        model.RawFields
		wantField string
		wantMsg   string
	}{
		{"empty name", raw("", "1", "1"), "name", "name is required"},
		{"whitespace name", raw(" \t ", "1", "1"), "name", "name is required"},
		{"long name", raw(strings.Repeat("x", 256), "1", "1"), "name", "name must be at most 255 characters"},
		{"missing quantity", raw("Widget", "", "1"), "quantity", "quantity is required"},
		{"text quantity", raw("Widget", "ten", "1"), "quantity", "quantity must be a number"},
		{"fractional quantity", raw("Widget", "1.5", "1"), "quantity", "quantity must be a whole number"},
		{"negative quantity", raw("Widget", "-1", "1"), "quantity", "quantity must be >= 0"},
		{"huge quantity", raw("Widget", "99999999999999999999", "1"), "quantity", "quantity is too large"},
		{"missing price", raw("Widget", "1", ""), "price", "price is required"},
		{"text price", raw("Widget", "1", "abc"), "price", "price must be a number"},
		{"negative price", raw("Widget", "1", "-0.01"), "price", "price must be >= 0"},
		{"tiny negative price", raw("Widget", "1", "-0.001"), "price", "price must be >= 0"},
		{"price too large", raw("Widget", "1", "10000000000"), "price", "price must be less than 10000000000"},
		{
			"negative threshold",
			model.RawFields{Name: "Widget", Quantity: "1", Price: "1", LowStockAt: "-2"},
			"low_stock_at", "low_stock_at must be >= 0",
		},
		{
			"long sku",
			model.RawFields{Name: "Widget", Quantity: "1", Price: "1", SKU: model.FormValue(strings.Repeat("s", 101))},
			"sku", "sku must be at most 100 characters",
		},
		{"quantity exponent", raw("Widget", "1e2000000", "1"), "quantity", "quantity is too large"},
		{"price exponent", raw("Widget", "1", "1e32000000"), "price", "price is too large"},
		{"price huge exponent", raw("Widget", "1", "1e2000000000"), "price", "price is too large"},
		{"price tiny exponent", raw("Widget", "1", "1e-8000000"), "price", "price has too many decimal places"},
		{"price too long", raw("Widget", "1", "1"+strings.Repeat("0", 40)), "price", "price is too long"},
		{"first failure wins", raw("", "-1", "-1"), "name", "name is required"},
		{"quantity before price", raw("Widget", "x", "-1"), "quantity", "quantity must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			_, err := Validate(tt.in)
			var verr *ValidationError
			c.Assert(errors.As(err, &verr), qt.IsTrue, qt.Commentf("err = %v", err))
			c.Assert(verr.Field, qt.Equals, tt.wantField)
			c.Assert(verr.Message, qt.Equals, tt.wantMsg)
		})
	}
}

func TestResultFromError(t *testing.T) {
	c := qt.New(t)

	c.Assert(ResultFromError(nil), qt.DeepEquals, Result{Success: true})
	c.Assert(ResultFromError(&ValidationError{Field: "name", Message: "name is required"}), qt.DeepEquals,
		Result{Field: "name", Message: "name is required"})
	c.Assert(ResultFromError(&PersistenceError{Op: "create product", Err: errors.New("conn refused")}), qt.DeepEquals,
		Result{Message: "something went wrong, please try again"})
	c.Assert(ResultFromError(ErrMissingID), qt.DeepEquals, Result{Message: "missing product id"})

	perr := &PersistenceError{Op: "x", Err: errors.New("boom")}
	c.Assert(errors.Unwrap(perr), qt.ErrorMatches, "boom")
}
