package model

import (
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/pricing"
)

// Coupon discount types.
const (
	DiscountTypePercent = "percent"
	DiscountTypeFixed   = "fixed"
)

// Coupon is an order-level discount code.
type Coupon struct {
	ID                string              `json:"id"`
	Code              string              `json:"code"`
	DiscountType      string              `json:"discount_type"`
	DiscountValue     decimal.Decimal     `json:"discount_value"`
	MinOrderAmount    decimal.NullDecimal `json:"min_order_amount"`
	MaxDiscountAmount decimal.NullDecimal `json:"max_discount_amount"`
	UsageLimit        *int                `json:"usage_limit"`
	UsedCount         int                 `json:"used_count"`
	IsActive          bool                `json:"is_active"`
	ValidFrom         time.Time           `json:"valid_from"`
	ValidUntil        *time.Time          `json:"valid_until"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// Usable reports whether the coupon is active, inside its window and under its usage limit.
func (c Coupon) Usable(now time.Time) bool {
	if !c.IsActive || now.Before(c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

// MeetsMinimum reports whether subtotal reaches the coupon's minimum order amount.
func (c Coupon) MeetsMinimum(subtotal decimal.Decimal) bool {
	return !c.MinOrderAmount.Valid || subtotal.GreaterThanOrEqual(c.MinOrderAmount.Decimal)
}

// Discount computes the amount taken off subtotal. It never exceeds the subtotal.
func (c Coupon) Discount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercent:
		amount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
		if c.MaxDiscountAmount.Valid && amount.GreaterThan(c.MaxDiscountAmount.Decimal) {
			amount = c.MaxDiscountAmount.Decimal
		}
	case DiscountTypeFixed:
		amount = c.DiscountValue
	default:
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	return amount.Round(pricing.Places)
}
