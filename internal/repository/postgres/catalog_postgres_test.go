package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/model"
	"storefront/internal/repository"
)

var productCols = []string{
	"id", "category_id", "name", "slug", "description", "price", "discount_percent",
	"images", "stock_quantity", "sku", "is_active", "is_featured", "created_at", "updated_at",
}

func productRow(rows *sqlmock.Rows, id, slug string, stock int) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(id, nil, "Item "+slug, slug, nil, "1000.00", 20, "{/media/products/a.png}", stock, nil, true, false, now, now)
}

func TestCatalogPostgres_ListProducts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCatalogPostgres(db)
	ctx := context.Background()

	t.Run("filters and escapes search", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p WHERE p.is_active = true AND p.category_id = $1 AND p.name ILIKE $2")).
			WithArgs("cat-1", `%50\%\_off%`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.created_at DESC, p.id DESC LIMIT $3 OFFSET $4")).
			WithArgs("cat-1", `%50\%\_off%`, 24, 0).
			WillReturnRows(productRow(sqlmock.NewRows(productCols), "p1", "kurta", 5))

		res, err := repo.ListProducts(ctx, repository.ProductFilter{
			CategoryID: "cat-1",
			Search:     "50%_off",
			ActiveOnly: true,
			Page:       repository.PageQuery{Limit: 24, Offset: 0},
		})

		require.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "kurta", res.Items[0].Slug)
		assert.True(t, decimal.RequireFromString("1000").Equal(res.Items[0].Price))
		assert.Equal(t, model.StringList{"/media/products/a.png"}, res.Items[0].Images)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no filters", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM products p")).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
			WithArgs(12, 0).
			WillReturnRows(sqlmock.NewRows(productCols))

		res, err := repo.ListProducts(ctx, repository.ProductFilter{Page: repository.PageQuery{Limit: 12}})

		require.NoError(t, err)
		assert.Empty(t, res.Items)
		assert.NotNil(t, res.Items)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCatalogPostgres_FindProductBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCatalogPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("FROM products p WHERE p.slug = ").
			WithArgs("kurta").
			WillReturnRows(productRow(sqlmock.NewRows(productCols), "p1", "kurta", 3))

		p, err := repo.FindProductBySlug(ctx, "kurta")
		require.NoError(t, err)
		assert.Equal(t, "p1", p.ID)
		assert.Equal(t, 3, p.StockQuantity)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("FROM products p WHERE p.slug = ").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		p, err := repo.FindProductBySlug(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, p)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogPostgres_CreateProduct_Duplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO products").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "products_slug_key"})

	p, err := NewCatalogPostgres(db).CreateProduct(context.Background(), &model.Product{Name: "A", Slug: "a"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.Nil(t, p)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogPostgres_DecrementStock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCatalogPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND stock_quantity >= $2")).
		WithArgs("p1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}).AddRow(1))
	assert.NoError(t, repo.DecrementStock(ctx, "p1", 2))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND stock_quantity >= $2")).
		WithArgs("p1", 5).
		WillReturnRows(sqlmock.NewRows([]string{"stock_quantity"}))
	assert.ErrorIs(t, repo.DecrementStock(ctx, "p1", 5), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogPostgres_DeleteProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCatalogPostgres(db)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteProduct(ctx, "p1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM products WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.DeleteProduct(ctx, "missing"), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogPostgres_AppendProductImage(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("array_append(p.images, $2::text)")).
		WithArgs("p1", "/media/products/b.png").
		WillReturnRows(productRow(sqlmock.NewRows(productCols), "p1", "kurta", 3))

	p, err := NewCatalogPostgres(db).AppendProductImage(context.Background(), "p1", "/media/products/b.png")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogPostgres_ListCategoriesAndBanners(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCatalogPostgres(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM categories WHERE is_active = true ORDER BY display_order, name")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "description", "image_url", "display_order", "is_active", "created_at", "updated_at"}).
			AddRow("c1", "Sarees", "sarees", nil, nil, 1, true, now, now))
	cats, err := repo.ListCategories(ctx, true)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "sarees", cats[0].Slug)

	mock.ExpectQuery(regexp.QuoteMeta("FROM banners ORDER BY display_order, created_at")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "image_url", "link_url", "display_order", "is_active", "created_at", "updated_at"}).
			AddRow("b1", "Sale", "/media/banners/sale.png", "/products", 0, false, now, now))
	banners, err := repo.ListBanners(ctx, false)
	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "/products", *banners[0].LinkURL)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%silk%", containsPattern("silk"))
	assert.Equal(t, `%a\\b\%c\_d%`, containsPattern(`a\b%c_d`))
}
