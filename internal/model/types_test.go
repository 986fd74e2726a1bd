package model

import (
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/shopspring/decimal"
)

func TestRawFieldsAcceptsStringsAndNumbers(t *testing.T) {
	c := qt.New(t)

	var raw RawFields
	err := json.Unmarshal([]byte(`{"name":"Widget","quantity":10,"price":"19.99","sku":null,"low_stock_at":3,"owner_id":"mallory"}`), &raw)
	c.Assert(err, qt.IsNil)
	c.Assert(raw, qt.DeepEquals, RawFields{
		Name:       "Widget",
		Quantity:   "10",
		Price:      "19.99",
		SKU:        "",
		LowStockAt: "3",
	})
}

func TestFormValueRejectsBrokenString(t *testing.T) {
	var v FormValue
	err := v.UnmarshalJSON([]byte(`"unterminated`))
	qt.New(t).Assert(err, qt.IsNotNil)
}

func TestProductValueAndThreshold(t *testing.T) {
	c := qt.New(t)

	at := int64(2)
	p := Product{Quantity: 3, Price: decimal.RequireFromString("10.00"), LowStockAt: &at}
	c.Assert(p.Value().Equal(decimal.RequireFromString("30")), qt.IsTrue)
	c.Assert(p.Threshold(5), qt.Equals, int64(2))

	p.LowStockAt = nil
	c.Assert(p.Threshold(5), qt.Equals, int64(5))
}

func TestProductClone(t *testing.T) {
	c := qt.New(t)

	sku := "SKU-1"
	at := int64(4)
	p := Product{ID: "p-1", SKU: &sku, LowStockAt: &at}
	cp := p.Clone()
	*cp.SKU = "changed"
	*cp.LowStockAt = 9

	c.Assert(*p.SKU, qt.Equals, "SKU-1")
	c.Assert(*p.LowStockAt, qt.Equals, int64(4))
}
