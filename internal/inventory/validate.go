package inventory

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/inventory-service/internal/model"
)

// Draft is a coerced product submission ready for schema validation.
type Draft struct {
	Name       string          `json:"name" validate:"required,max=255"`
	Quantity   int64           `json:"quantity" validate:"gte=0"`
	Price      decimal.Decimal `json:"price" validate:"gte=0,lt=10000000000"`
	SKU        *string         `json:"sku" validate:"omitempty,max=100"`
	LowStockAt *int64          `json:"low_stock_at" validate:"omitempty,gte=0"`
}

// fieldOrder is the order in which failures are reported.
var fieldOrder = []string{"name", "quantity", "price", "sku", "low_stock_at"}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schema() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})
		validate = v
	})
	return validate
}

// Validate coerces raw into a Draft and checks it. The first failing field,
// in the order name, quantity, price, sku, low_stock_at, is reported as a
// *ValidationError.
func Validate(raw model.RawFields) (Draft, error) {
	d, problems := coerce(raw)

	if err := schema().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Draft{}, fmt.Errorf("validate product: %w", err)
		}
		for _, fe := range verrs {
			if _, seen := problems[fe.Field()]; !seen {
				problems[fe.Field()] = describe(fe)
			}
		}
	}
	for _, f := range fieldOrder {
		if msg, ok := problems[f]; ok {
			return Draft{}, &ValidationError{Field: f, Message: msg}
		}
	}
	return d, nil
}

// coerce converts raw text into typed values. Values that cannot be parsed
// are reported by field name and left zero in the draft.
func coerce(raw model.RawFields) (Draft, map[string]string) {
	problems := make(map[string]string)
	d := Draft{Name: strings.TrimSpace(raw.Name.String())}

	if q, msg := parseWhole("quantity", raw.Quantity.String(), true); msg != "" {
		problems["quantity"] = msg
	} else if q != nil {
		d.Quantity = *q
	}

	if p, msg := parseDecimal("price", raw.Price.String()); msg != "" {
		problems["price"] = msg
	} else if p.IsNegative() {
		d.Price = p
	} else {
		d.Price = p.Round(2)
	}

	if sku := strings.TrimSpace(raw.SKU.String()); sku != "" {
		d.SKU = &sku
	}

	if at, msg := parseWhole("low_stock_at", raw.LowStockAt.String(), false); msg != "" {
		problems["low_stock_at"] = msg
	} else {
		d.LowStockAt = at
	}
	return d, problems
}

func parseDecimal(field, s string) (decimal.Decimal, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, field + " is required"
	}
	return parseNumber(field, s)
}

// Bounds checked before any arithmetic; decimal rescaling costs grow with
// the exponent.
const (
	maxNumberLen = 40
	maxExponent  = 20
)

func parseNumber(field, s string) (decimal.Decimal, string) {
	if len(s) > maxNumberLen {
		return decimal.Zero, field + " is too long"
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, field + " must be a number"
	}
	switch exp := v.Exponent(); {
	case exp > maxExponent:
		return decimal.Zero, field + " is too large"
	case exp < -maxExponent:
		return decimal.Zero, field + " has too many decimal places"
	}
	return v, ""
}

// parseWhole parses a whole number. An empty optional value yields nil.
func parseWhole(field, s string, required bool) (*int64, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		if required {
			return nil, field + " is required"
		}
		return nil, ""
	}
	v, msg := parseNumber(field, s)
	if msg != "" {
		return nil, msg
	}
	if !v.IsInteger() {
		return nil, field + " must be a whole number"
	}
	if v.Abs().GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return nil, field + " is too large"
	}
	n := v.IntPart()
	return &n, ""
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lt":
		return fmt.Sprintf("%s must be less than %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
