package model

import (
	"database/sql/driver"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/pricing"
)

// Product is a sellable catalog entry. EffectivePrice is derived, never stored.
type Product struct {
	ID              string          `json:"id"`
	CategoryID      *string         `json:"category_id"`
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Description     *string         `json:"description"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent int             `json:"discount_percent"`
	EffectivePrice  decimal.Decimal `json:"effective_price"`
	Images          StringList      `json:"images"`
	StockQuantity   int             `json:"stock_quantity"`
	SKU             *string         `json:"sku"`
	IsActive        bool            `json:"is_active"`
	IsFeatured      bool            `json:"is_featured"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ApplyPricing fills EffectivePrice from Price and DiscountPercent.
func (p *Product) ApplyPricing() {
	p.EffectivePrice = pricing.EffectivePrice(p.Price, p.DiscountPercent)
}

// InStock reports whether at least one unit can be sold.
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// Category groups products on the storefront.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	ImageURL     *string   `json:"image_url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Banner is a hero slide on the home page.
type Banner struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url"`
	LinkURL      *string   `json:"link_url"`
	DisplayOrder int       `json:"display_order"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StringList maps a PostgreSQL text[] column. A NULL array scans as an empty list.
// pgtype.Map is not safe for concurrent use, so each call builds its own.
type StringList []string

// Value encodes the list as a text[] literal.
func (s StringList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "{}", nil
	}
	buf, err := pgtype.NewMap().Encode(pgtype.TextArrayOID, pgtype.TextFormatCode, []string(s), nil)
	if err != nil {
		return nil, errors.Wrap(err, "encode text array")
	}
	return string(buf), nil
}

// Scan decodes a text[] value.
func (s *StringList) Scan(src any) error {
	if src == nil {
		*s = StringList{}
		return nil
	}
	var out []string
	if err := pgtype.NewMap().SQLScanner(&out).Scan(src); err != nil {
		return errors.Wrap(err, "scan text array")
	}
	if out == nil {
		out = []string{}
	}
	*s = out
	return nil
}
