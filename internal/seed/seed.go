// Package seed loads a YAML catalog file and upserts it into the database.
// Rows are matched on their natural keys (slug, title, code, email), so
// running the same file twice leaves the store unchanged.
package seed

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// Catalog is the root of a seed file.
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Products   []Product  `yaml:"products"`
	Banners    []Banner   `yaml:"banners"`
	Coupons    []Coupon   `yaml:"coupons"`
	Admin      *Admin     `yaml:"admin"`
}

type Category struct {
	Name         string `yaml:"name"`
	Slug         string `yaml:"slug"`
	Description  string `yaml:"description"`
	ImageURL     string `yaml:"image_url"`
	DisplayOrder int    `yaml:"display_order"`
	Inactive     bool   `yaml:"inactive"`
}

// Product references its category by slug.
type Product struct {
	Category        string   `yaml:"category"`
	Name            string   `yaml:"name"`
	Slug            string   `yaml:"slug"`
	Description     string   `yaml:"description"`
	Price           string   `yaml:"price"`
	DiscountPercent int      `yaml:"discount_percent"`
	Images          []string `yaml:"images"`
	Stock           int      `yaml:"stock"`
	SKU             string   `yaml:"sku"`
	Featured        bool     `yaml:"featured"`
	Inactive        bool     `yaml:"inactive"`
}

type Banner struct {
	Title        string `yaml:"title"`
	ImageURL     string `yaml:"image_url"`
	LinkURL      string `yaml:"link_url"`
	DisplayOrder int    `yaml:"display_order"`
	Inactive     bool   `yaml:"inactive"`
}

type Coupon struct {
	Code        string     `yaml:"code"`
	Type        string     `yaml:"type"`
	Value       string     `yaml:"value"`
	MinOrder    string     `yaml:"min_order"`
	MaxDiscount string     `yaml:"max_discount"`
	UsageLimit  *int       `yaml:"usage_limit"`
	ValidUntil  *time.Time `yaml:"valid_until"`
	Inactive    bool       `yaml:"inactive"`
}

// Admin is created, or has its password reset, and is granted the admin role.
type Admin struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	FullName string `yaml:"full_name"`
}

// LoadFile reads and validates the seed file at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open seed file")
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a seed document. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalog
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode seed file")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks references and required fields before anything touches the database.
func (c *Catalog) Validate() error {
	categories := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if cat.Name == "" || cat.Slug == "" {
			return errors.Errorf("categories[%d]: name and slug are required", i)
		}
		categories[cat.Slug] = true
	}
	for i, p := range c.Products {
		if p.Name == "" || p.Slug == "" {
			return errors.Errorf("products[%d]: name and slug are required", i)
		}
		if p.Category != "" && !categories[p.Category] {
			return errors.Errorf("products[%d]: unknown category %q", i, p.Category)
		}
		price, err := decimal.NewFromString(p.Price)
		if err != nil || !price.IsPositive() {
			return errors.Errorf("products[%d]: price must be a positive number", i)
		}
		if p.DiscountPercent < 0 || p.DiscountPercent > 100 {
			return errors.Errorf("products[%d]: discount_percent must be between 0 and 100", i)
		}
		if p.Stock < 0 {
			return errors.Errorf("products[%d]: stock must not be negative", i)
		}
	}
	for i, b := range c.Banners {
		if b.Title == "" || b.ImageURL == "" {
			return errors.Errorf("banners[%d]: title and image_url are required", i)
		}
	}
	for i, cp := range c.Coupons {
		if cp.Code == "" {
			return errors.Errorf("coupons[%d]: code is required", i)
		}
		if cp.Type != model.DiscountTypePercent && cp.Type != model.DiscountTypeFixed {
			return errors.Errorf("coupons[%d]: type must be %q or %q", i, model.DiscountTypePercent, model.DiscountTypeFixed)
		}
		if _, err := decimal.NewFromString(cp.Value); err != nil {
			return errors.Errorf("coupons[%d]: value must be a number", i)
		}
		for _, v := range []string{cp.MinOrder, cp.MaxDiscount} {
			if v == "" {
				continue
			}
			if _, err := decimal.NewFromString(v); err != nil {
				return errors.Errorf("coupons[%d]: %q is not a number", i, v)
			}
		}
	}
	if a := c.Admin; a != nil {
		if a.Email == "" || len(a.Password) < 6 {
			return errors.New("admin: email and a password of at least 6 characters are required")
		}
	}
	return nil
}

// PasswordHasher hashes the admin password.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Summary counts the rows written by Apply.
type Summary struct {
	Categories int
	Products   int
	Banners    int
	Coupons    int
	AdminID    string
}

// Seeder writes a Catalog in one transaction.
type Seeder struct {
	tx     repository.TransactionManager
	hasher PasswordHasher
	logger *slog.Logger
	now    func() time.Time
}

// NewSeeder builds a Seeder. logger may be nil.
func NewSeeder(tx repository.TransactionManager, hasher PasswordHasher, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{tx: tx, hasher: hasher, logger: logger, now: time.Now}
}

// Apply upserts everything in c. Nothing is written if any step fails.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (Summary, error) {
	var (
		sum          Summary
		passwordHash string
	)
	if c.Admin != nil {
		h, err := s.hasher.Hash(c.Admin.Password)
		if err != nil {
			return sum, err
		}
		passwordHash = h
	}

	err := s.tx.Execute(ctx, func(repos repository.RepositoryFactory) error {
		sum = Summary{}
		categoryIDs := make(map[string]string, len(c.Categories))
		for _, cat := range c.Categories {
			out, err := repos.Catalog().UpsertCategory(ctx, &model.Category{
				Name:         cat.Name,
				Slug:         cat.Slug,
				Description:  optional(cat.Description),
				ImageURL:     optional(cat.ImageURL),
				DisplayOrder: cat.DisplayOrder,
				IsActive:     !cat.Inactive,
			})
			if err != nil {
				return errors.Wrapf(err, "upsert category %s", cat.Slug)
			}
			categoryIDs[cat.Slug] = out.ID
			sum.Categories++
		}

		for _, p := range c.Products {
			product := &model.Product{
				Name:            p.Name,
				Slug:            p.Slug,
				Description:     optional(p.Description),
				Price:           decimal.RequireFromString(p.Price),
				DiscountPercent: p.DiscountPercent,
				Images:          model.StringList(p.Images),
				StockQuantity:   p.Stock,
				SKU:             optional(p.SKU),
				IsActive:        !p.Inactive,
				IsFeatured:      p.Featured,
			}
			if id, ok := categoryIDs[p.Category]; ok {
				product.CategoryID = &id
			}
			if _, err := repos.Catalog().UpsertProduct(ctx, product); err != nil {
				return errors.Wrapf(err, "upsert product %s", p.Slug)
			}
			sum.Products++
		}

		for _, b := range c.Banners {
			_, err := repos.Catalog().UpsertBanner(ctx, &model.Banner{
				Title:        b.Title,
				ImageURL:     b.ImageURL,
				LinkURL:      optional(b.LinkURL),
				DisplayOrder: b.DisplayOrder,
				IsActive:     !b.Inactive,
			})
			if err != nil {
				return errors.Wrapf(err, "upsert banner %s", b.Title)
			}
			sum.Banners++
		}

		for _, cp := range c.Coupons {
			if _, err := repos.Coupons().Upsert(ctx, s.coupon(cp)); err != nil {
				return errors.Wrapf(err, "upsert coupon %s", cp.Code)
			}
			sum.Coupons++
		}

		if c.Admin != nil {
			id, err := upsertAdmin(ctx, repos, c.Admin, passwordHash)
			if err != nil {
				return err
			}
			sum.AdminID = id
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}

	s.logger.InfoContext(ctx, "seed_applied",
		slog.Int("categories", sum.Categories),
		slog.Int("products", sum.Products),
		slog.Int("banners", sum.Banners),
		slog.Int("coupons", sum.Coupons),
		slog.Bool("admin", sum.AdminID != ""),
	)
	return sum, nil
}

func (s *Seeder) coupon(cp Coupon) *model.Coupon {
	return &model.Coupon{
		Code:              strings.ToUpper(cp.Code),
		DiscountType:      cp.Type,
		DiscountValue:     decimal.RequireFromString(cp.Value),
		MinOrderAmount:    nullDecimal(cp.MinOrder),
		MaxDiscountAmount: nullDecimal(cp.MaxDiscount),
		UsageLimit:        cp.UsageLimit,
		IsActive:          !cp.Inactive,
		ValidFrom:         s.now(),
		ValidUntil:        cp.ValidUntil,
	}
}

func upsertAdmin(ctx context.Context, repos repository.RepositoryFactory, a *Admin, passwordHash string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(a.Email))

	var userID string
	u, err := repos.Users().FindByEmail(ctx, email)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created, err := repos.Users().Create(ctx, email, passwordHash)
		if err != nil {
			return "", errors.Wrap(err, "create admin user")
		}
		userID = created.ID
	case err != nil:
		return "", errors.Wrap(err, "find admin user")
	default:
		userID = u.ID
		if err := repos.Users().SetPasswordHash(ctx, userID, passwordHash); err != nil {
			return "", errors.Wrap(err, "reset admin password")
		}
	}

	if _, err := repos.Users().CreateProfile(ctx, &model.Profile{ID: userID, Email: email, FullName: optional(a.FullName)}); err != nil {
		return "", errors.Wrap(err, "upsert admin profile")
	}
	for _, role := range []model.Role{model.RoleUser, model.RoleAdmin} {
		if err := repos.Roles().Grant(ctx, userID, role); err != nil {
			return "", errors.Wrapf(err, "grant %s", role)
		}
	}
	return userID, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func nullDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
