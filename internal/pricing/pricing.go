// Package pricing holds the storefront's money arithmetic. Product cards, cart lines,
// order items and order totals all price through these functions so their results
// agree to the paisa.
package pricing

import "github.com/shopspring/decimal"

// Places is the number of fractional digits every computed amount is rounded to.
const Places = 2

var hundred = decimal.NewFromInt(100)

// EffectivePrice returns price reduced by discountPercent, rounded half away from zero.
// A non-positive discount leaves the listed price untouched.
func EffectivePrice(price decimal.Decimal, discountPercent int) decimal.Decimal {
	if discountPercent <= 0 {
		return price.Round(Places)
	}
	if discountPercent >= 100 {
		return decimal.Zero.Round(Places)
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(discountPercent))).Div(hundred)
	return price.Mul(factor).Round(Places)
}

// LineTotal is the effective price multiplied by quantity.
func LineTotal(price decimal.Decimal, discountPercent, quantity int) decimal.Decimal {
	return EffectivePrice(price, discountPercent).Mul(decimal.NewFromInt(int64(quantity)))
}

// Line is anything that can be priced as a cart or order line.
type Line interface {
	UnitPrice() decimal.Decimal
	DiscountPercent() int
	Qty() int
}

// Subtotal sums LineTotal over lines.
func Subtotal[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(LineTotal(l.UnitPrice(), l.DiscountPercent(), l.Qty()))
	}
	return total.Round(Places)
}
