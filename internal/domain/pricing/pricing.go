// Package pricing turns a cart subtotal and a shipping method into the order
// summary figures. All arithmetic is exact decimal; rounding happens only
// when a value is presented.
package pricing

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ShippingMethod selects the shipping rate.
type ShippingMethod string

const (
	// ShippingStandard is free above FreeShippingThreshold, StandardRate otherwise.
	ShippingStandard ShippingMethod = "standard"
	// ShippingExpress is a flat ExpressRate regardless of subtotal.
	ShippingExpress ShippingMethod = "express"
)

// ErrUnknownShippingMethod is returned for shipping methods outside the closed set.
var ErrUnknownShippingMethod = errors.New("unknown shipping method")

var (
	// FreeShippingThreshold is the subtotal standard shipping must exceed to be free.
	FreeShippingThreshold = decimal.NewFromInt(50)
	// StandardRate is the standard shipping charge below the threshold.
	StandardRate = decimal.RequireFromString("5.99")
	// ExpressRate is the flat express shipping charge.
	ExpressRate = decimal.RequireFromString("15.99")
	// TaxRate is the flat sales tax rate.
	TaxRate = decimal.RequireFromString("0.08")
)

// ParseShippingMethod maps a case-insensitive name to a ShippingMethod.
// The empty string selects ShippingStandard.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch m := ShippingMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ShippingStandard, nil
	case ShippingStandard, ShippingExpress:
		return m, nil
	default:
		return "", errors.Wrapf(ErrUnknownShippingMethod, "%q", s)
	}
}

// Totals holds the order summary figures at full precision.
type Totals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Rounded returns a copy with every figure rounded to cents.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: t.Subtotal.Round(2),
		Shipping: t.Shipping.Round(2),
		Tax:      t.Tax.Round(2),
		Total:    t.Total.Round(2),
	}
}

// ComputeTotals derives shipping, tax and total from subtotal. A negative
// subtotal means a broken cart invariant upstream and panics.
func ComputeTotals(subtotal decimal.Decimal, method ShippingMethod) Totals {
	if subtotal.IsNegative() {
		panic("pricing: negative subtotal " + subtotal.String())
	}
	shipping := Shipping(subtotal, method)
	tax := subtotal.Mul(TaxRate)
	return Totals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}

// Shipping returns the shipping charge for subtotal. Unknown methods are
// charged as standard.
func Shipping(subtotal decimal.Decimal, method ShippingMethod) decimal.Decimal {
	if method == ShippingExpress {
		return ExpressRate
	}
	if subtotal.GreaterThan(FreeShippingThreshold) {
		return decimal.Zero
	}
	return StandardRate
}

// FreeShippingRemaining returns how much more must be added to reach the
// free standard shipping threshold, floored at zero.
func FreeShippingRemaining(subtotal decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, FreeShippingThreshold.Sub(subtotal))
}

// Format renders amount as US dollars, e.g. "$1,299.99".
func Format(amount decimal.Decimal) string {
	s := amount.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}
