package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Order statuses and payment values written at checkout.
const (
	OrderStatusPending   = "pending"
	PaymentStatusPending = "pending"
	PaymentMethodCOD     = "cod"
)

// Order is a placed order. ShippingAddress is a snapshot taken at checkout.
type Order struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	PaymentStatus   string              `json:"payment_status"`
	PaymentMethod   string              `json:"payment_method"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DiscountAmount  decimal.NullDecimal `json:"discount_amount"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	CouponID        *string             `json:"coupon_id"`
	ShippingAddress AddressSnapshot     `json:"shipping_address"`
	IdempotencyKey  *string             `json:"-"`
	Items           []OrderItem         `json:"items,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// OrderItem keeps a denormalized copy of the product at purchase time.
type OrderItem struct {
	ID           string          `json:"id"`
	OrderID      string          `json:"order_id"`
	ProductID    *string         `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductPrice decimal.Decimal `json:"product_price"`
	Quantity     int             `json:"quantity"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AddressSnapshot is the address copy embedded in orders.shipping_address (jsonb).
type AddressSnapshot struct {
	FullName     string  `json:"full_name"`
	Phone        string  `json:"phone"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Pincode      string  `json:"pincode"`
}

// Value marshals the snapshot for a jsonb column.
func (a AddressSnapshot) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, errors.Wrap(err, "marshal address snapshot")
	}
	return string(b), nil
}

// Scan unmarshals a jsonb value.
func (a *AddressSnapshot) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*a = AddressSnapshot{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.Errorf("unsupported shipping_address type %T", src)
	}
	return errors.Wrap(json.Unmarshal(b, a), "unmarshal address snapshot")
}

// Address is a saved delivery address.
type Address struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	AddressLine1 string    `json:"address_line1"`
	AddressLine2 *string   `json:"address_line2"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Pincode      string    `json:"pincode"`
	IsDefault    bool      `json:"is_default"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot copies the delivery fields of the address.
func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		FullName:     a.FullName,
		Phone:        a.Phone,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		City:         a.City,
		State:        a.State,
		Pincode:      a.Pincode,
	}
}
