package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// CatalogPostgres is a PostgreSQL implementation of repository.CatalogRepository.
type CatalogPostgres struct {
	db DBTX
}

// NewCatalogPostgres creates a new CatalogPostgres repository.
func NewCatalogPostgres(db DBTX) *CatalogPostgres {
	return &CatalogPostgres{db: db}
}

var _ repository.CatalogRepository = (*CatalogPostgres)(nil)

const productColumns = `p.id, p.category_id, p.name, p.slug, p.description, p.price, p.discount_percent,
	p.images, p.stock_quantity, p.sku, p.is_active, p.is_featured, p.created_at, p.updated_at`

func scanProduct(s scanner, p *model.Product) error {
	return s.Scan(
		&p.ID,
		&p.CategoryID,
		&p.Name,
		&p.Slug,
		&p.Description,
		&p.Price,
		&p.DiscountPercent,
		&p.Images,
		&p.StockQuantity,
		&p.SKU,
		&p.IsActive,
		&p.IsFeatured,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

func (r *CatalogPostgres) queryProduct(ctx context.Context, q string, args ...any) (*model.Product, error) {
	var p model.Product
	if err := scanProduct(r.db.QueryRowContext(ctx, q, args...), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns a filtered page of products, newest first, and the total match count.
func (r *CatalogPostgres) ListProducts(ctx context.Context, f repository.ProductFilter) (*repository.PageResult[model.Product], error) {
	var (
		conds []string
		args  []any
	)
	if f.ActiveOnly {
		conds = append(conds, "p.is_active = true")
	}
	if f.FeaturedOnly {
		conds = append(conds, "p.is_featured = true")
	}
	if f.CategoryID != "" {
		args = append(args, f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		conds = append(conds, fmt.Sprintf("p.name ILIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products p"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	listArgs := append(append([]any{}, args...), f.Page.Limit, f.Page.Offset)
	q := fmt.Sprintf(`SELECT %s FROM products p%s ORDER BY p.created_at DESC, p.id DESC LIMIT $%d OFFSET $%d`,
		productColumns, where, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, listArgs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Product]{Items: items, Total: total}, nil
}

// FindProductBySlug fetches a product by slug regardless of its active flag.
func (r *CatalogPostgres) FindProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return r.queryProduct(ctx, `SELECT `+productColumns+` FROM products p WHERE p.slug = $1`, slug)
}

// FindProductByID fetches a product by id.
func (r *CatalogPostgres) FindProductByID(ctx context.Context, id string) (*model.Product, error) {
	return r.queryProduct(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
}

// CreateProduct inserts a product and returns the stored row.
func (r *CatalogPostgres) CreateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products AS p (category_id, name, slug, description, price, discount_percent,
			images, stock_quantity, sku, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + productColumns
	out, err := r.queryProduct(ctx, q,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.DiscountPercent,
		p.Images, p.StockQuantity, p.SKU, p.IsActive, p.IsFeatured,
	)
	if isUniqueViolation(err) {
		return nil, repository.ErrDuplicate
	}
	return out, err
}

// UpdateProduct overwrites the editable columns of a product. Images are managed separately.
func (r *CatalogPostgres) UpdateProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		UPDATE products AS p SET
			category_id = $2, name = $3, slug = $4, description = $5, price = $6,
			discount_percent = $7, stock_quantity = $8, sku = $9, is_active = $10,
			is_featured = $11, updated_at = now()
		WHERE p.id = $1
		RETURNING ` + productColumns
	out, err := r.queryProduct(ctx, q,
		p.ID, p.CategoryID, p.Name, p.Slug, p.Description, p.Price,
		p.DiscountPercent, p.StockQuantity, p.SKU, p.IsActive, p.IsFeatured,
	)
	if isUniqueViolation(err) {
		return nil, repository.ErrDuplicate
	}
	return out, err
}

// UpsertProduct inserts a product or updates the one with the same slug.
func (r *CatalogPostgres) UpsertProduct(ctx context.Context, p *model.Product) (*model.Product, error) {
	const q = `
		INSERT INTO products AS p (category_id, name, slug, description, price, discount_percent,
			images, stock_quantity, sku, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (slug) DO UPDATE SET
			category_id = EXCLUDED.category_id, name = EXCLUDED.name,
			description = EXCLUDED.description, price = EXCLUDED.price,
			discount_percent = EXCLUDED.discount_percent, images = EXCLUDED.images,
			stock_quantity = EXCLUDED.stock_quantity, sku = EXCLUDED.sku,
			is_active = EXCLUDED.is_active, is_featured = EXCLUDED.is_featured,
			updated_at = now()
		RETURNING ` + productColumns
	return r.queryProduct(ctx, q,
		p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.DiscountPercent,
		p.Images, p.StockQuantity, p.SKU, p.IsActive, p.IsFeatured,
	)
}

// DeleteProduct removes a product, returning sql.ErrNoRows when there is none.
func (r *CatalogPostgres) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AppendProductImage adds url to the end of the product's image list.
func (r *CatalogPostgres) AppendProductImage(ctx context.Context, id, url string) (*model.Product, error) {
	const q = `
		UPDATE products AS p SET images = array_append(p.images, $2::text), updated_at = now()
		WHERE p.id = $1
		RETURNING ` + productColumns
	return r.queryProduct(ctx, q, id, url)
}

// DecrementStock takes qty units off the product. The row is left untouched and
// sql.ErrNoRows returned when not enough stock remains.
func (r *CatalogPostgres) DecrementStock(ctx context.Context, productID string, qty int) error {
	const q = `
		UPDATE products SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2
		RETURNING stock_quantity
	`
	var left int
	return r.db.QueryRowContext(ctx, q, productID, qty).Scan(&left)
}

// CountProducts counts every product row.
func (r *CatalogPostgres) CountProducts(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n)
	return n, err
}

const categoryColumns = `id, name, slug, description, image_url, display_order, is_active, created_at, updated_at`

func scanCategory(s scanner, c *model.Category) error {
	return s.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.DisplayOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
}

// ListCategories returns categories by display order.
func (r *CatalogPostgres) ListCategories(ctx context.Context, activeOnly bool) ([]model.Category, error) {
	q := `SELECT ` + categoryColumns + ` FROM categories`
	if activeOnly {
		q += ` WHERE is_active = true`
	}
	q += ` ORDER BY display_order, name`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// UpsertCategory inserts a category or updates the one with the same slug.
func (r *CatalogPostgres) UpsertCategory(ctx context.Context, c *model.Category) (*model.Category, error) {
	const q = `
		INSERT INTO categories (name, slug, description, image_url, display_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name, description = EXCLUDED.description, image_url = EXCLUDED.image_url,
			display_order = EXCLUDED.display_order, is_active = EXCLUDED.is_active, updated_at = now()
		RETURNING ` + categoryColumns
	var out model.Category
	row := r.db.QueryRowContext(ctx, q, c.Name, c.Slug, c.Description, c.ImageURL, c.DisplayOrder, c.IsActive)
	if err := scanCategory(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

const bannerColumns = `id, title, image_url, link_url, display_order, is_active, created_at, updated_at`

func scanBanner(s scanner, b *model.Banner) error {
	return s.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.DisplayOrder, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
}

// ListBanners returns banners by display order.
func (r *CatalogPostgres) ListBanners(ctx context.Context, activeOnly bool) ([]model.Banner, error) {
	q := `SELECT ` + bannerColumns + ` FROM banners`
	if activeOnly {
		q += ` WHERE is_active = true`
	}
	q += ` ORDER BY display_order, created_at`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Banner, 0)
	for rows.Next() {
		var b model.Banner
		if err := scanBanner(rows, &b); err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// UpsertBanner inserts a banner or updates the one with the same title.
func (r *CatalogPostgres) UpsertBanner(ctx context.Context, b *model.Banner) (*model.Banner, error) {
	const q = `
		WITH upd AS (
			UPDATE banners SET image_url = $2, link_url = $3, display_order = $4, is_active = $5, updated_at = now()
			WHERE title = $1
			RETURNING ` + bannerColumns + `
		), ins AS (
			INSERT INTO banners (title, image_url, link_url, display_order, is_active)
			SELECT $1, $2, $3, $4, $5 WHERE NOT EXISTS (SELECT 1 FROM upd)
			RETURNING ` + bannerColumns + `
		)
		SELECT * FROM upd UNION ALL SELECT * FROM ins`
	var out model.Banner
	row := r.db.QueryRowContext(ctx, q, b.Title, b.ImageURL, b.LinkURL, b.DisplayOrder, b.IsActive)
	if err := scanBanner(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
