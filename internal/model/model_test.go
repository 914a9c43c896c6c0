package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestStringList_ValueAndScan(t *testing.T) {
	v, err := StringList{"/media/a.png", "b,c.jpg"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `{/media/a.png,"b,c.jpg"}`, v)

	empty, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)

	var got StringList
	require.NoError(t, got.Scan(`{/media/a.png,"b,c.jpg"}`))
	assert.Equal(t, StringList{"/media/a.png", "b,c.jpg"}, got)

	require.NoError(t, got.Scan(nil))
	assert.Equal(t, StringList{}, got)
}

func TestCartLine_PricingAndBounds(t *testing.T) {
	line := CartLine{
		CartItem: CartItem{Quantity: 2},
		Product:  Product{Price: dec("1000"), DiscountPercent: 20, StockQuantity: 2},
	}
	line.ApplyPricing()

	assert.True(t, dec("800.00").Equal(line.Product.EffectivePrice))
	assert.True(t, dec("1600.00").Equal(line.LineTotal))
	assert.False(t, line.CanIncrement())
	assert.True(t, line.CanDecrement())

	line.Quantity = 1
	assert.False(t, line.CanDecrement())
	assert.True(t, line.CanIncrement())
}

func TestAddressSnapshot_RoundTrip(t *testing.T) {
	line2 := "Near park"
	addr := Address{FullName: "Asha", Phone: "99999", AddressLine1: "1 Main", AddressLine2: &line2, City: "Pune", State: "MH", Pincode: "411001"}

	v, err := addr.Snapshot().Value()
	require.NoError(t, err)

	var snap AddressSnapshot
	require.NoError(t, snap.Scan([]byte(v.(string))))
	assert.Equal(t, addr.Snapshot(), snap)

	assert.Error(t, snap.Scan(42))
}

func TestCoupon_Usable(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	limit := 1

	c := Coupon{IsActive: true, ValidFrom: now.Add(-24 * time.Hour)}
	assert.True(t, c.Usable(now))

	c.ValidUntil = &past
	assert.False(t, c.Usable(now))

	c.ValidUntil = nil
	c.UsageLimit = &limit
	c.UsedCount = 1
	assert.False(t, c.Usable(now))

	c.UsedCount = 0
	c.IsActive = false
	assert.False(t, c.Usable(now))
}

func TestCoupon_Discount(t *testing.T) {
	percent := Coupon{
		DiscountType:      DiscountTypePercent,
		DiscountValue:     dec("10"),
		MaxDiscountAmount: decimal.NewNullDecimal(dec("50")),
	}
	assert.True(t, dec("30.00").Equal(percent.Discount(dec("300"))))
	assert.True(t, dec("50").Equal(percent.Discount(dec("1000"))))

	fixed := Coupon{DiscountType: DiscountTypeFixed, DiscountValue: dec("200")}
	assert.True(t, dec("150").Equal(fixed.Discount(dec("150"))))

	unknown := Coupon{DiscountType: "bogo", DiscountValue: dec("5")}
	assert.True(t, decimal.Zero.Equal(unknown.Discount(dec("100"))))
}

func TestCoupon_MeetsMinimum(t *testing.T) {
	c := Coupon{MinOrderAmount: decimal.NewNullDecimal(dec("500"))}
	assert.False(t, c.MeetsMinimum(dec("499.99")))
	assert.True(t, c.MeetsMinimum(dec("500")))
	assert.True(t, Coupon{}.MeetsMinimum(dec("1")))
}

func TestProfileWithRoles_IsAdmin(t *testing.T) {
	assert.True(t, ProfileWithRoles{Roles: []Role{RoleUser, RoleAdmin}}.IsAdmin())
	assert.False(t, ProfileWithRoles{Roles: []Role{RoleUser}}.IsAdmin())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("owner").IsValid())
}
