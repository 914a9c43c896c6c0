package service

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"storefront/internal/model"
	"storefront/internal/repository"
)

const (
	homeProductLimit   = 12
	defaultProductPage = 24
	maxProductPage     = 100
)

// HomePage is the payload of the landing page.
type HomePage struct {
	Banners    []model.Banner   `json:"banners"`
	Categories []model.Category `json:"categories"`
	Latest     []model.Product  `json:"latest"`
	Featured   []model.Product  `json:"featured"`
	// Counts are only filled for signed-in shoppers.
	CartCount     *int `json:"cart_count,omitempty"`
	WishlistCount *int `json:"wishlist_count,omitempty"`
}

// ProductQuery filters the public product listing.
type ProductQuery struct {
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

// ProductListResult is a page of products with the total match count.
type ProductListResult struct {
	Items  []model.Product `json:"data"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// CatalogService serves the read side of the catalog.
type CatalogService interface {
	// Home returns banners, categories and the latest products. userID may be empty.
	Home(ctx context.Context, userID string) (*HomePage, error)
	ListProducts(ctx context.Context, q ProductQuery) (*ProductListResult, error)
	// GetProduct returns an active product by slug.
	GetProduct(ctx context.Context, slug string) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	Banners(ctx context.Context) ([]model.Banner, error)
}

type catalogService struct {
	catalog  repository.CatalogRepository
	cart     repository.CartRepository
	wishlist repository.WishlistRepository
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog repository.CatalogRepository, cart repository.CartRepository, wishlist repository.WishlistRepository) CatalogService {
	return &catalogService{catalog: catalog, cart: cart, wishlist: wishlist}
}

func (s *catalogService) Home(ctx context.Context, userID string) (*HomePage, error) {
	banners, err := s.catalog.ListBanners(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "list banners")
	}
	categories, err := s.catalog.ListCategories(ctx, true)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	latest, err := s.catalog.ListProducts(ctx, repository.ProductFilter{
		ActiveOnly: true,
		Page:       repository.PageQuery{Limit: homeProductLimit},
	})
	if err != nil {
		return nil, errors.Wrap(err, "list latest products")
	}

	page := &HomePage{
		Banners:    banners,
		Categories: categories,
		Latest:     priced(latest.Items),
		Featured:   make([]model.Product, 0),
	}
	for _, p := range page.Latest {
		if p.IsFeatured {
			page.Featured = append(page.Featured, p)
		}
	}

	if userID == "" {
		return page, nil
	}
	cartCount, err := s.cart.Count(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "count cart")
	}
	wishCount, err := s.wishlist.Count(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "count wishlist")
	}
	page.CartCount = &cartCount
	page.WishlistCount = &wishCount
	return page, nil
}

func (s *catalogService) ListProducts(ctx context.Context, q ProductQuery) (*ProductListResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultProductPage
	}
	if q.Limit > maxProductPage {
		q.Limit = maxProductPage
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	res, err := s.catalog.ListProducts(ctx, repository.ProductFilter{
		CategoryID: q.CategoryID,
		Search:     q.Search,
		ActiveOnly: true,
		Page:       repository.PageQuery{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	return &ProductListResult{Items: priced(res.Items), Total: res.Total, Limit: q.Limit, Offset: q.Offset}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*model.Product, error) {
	if slug == "" {
		return nil, ErrProductNotFound
	}
	p, err := s.catalog.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, "find product")
	}
	if !p.IsActive {
		return nil, ErrProductNotFound
	}
	p.ApplyPricing()
	return p, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.catalog.ListCategories(ctx, true)
}

func (s *catalogService) Banners(ctx context.Context) ([]model.Banner, error) {
	return s.catalog.ListBanners(ctx, true)
}

func priced(products []model.Product) []model.Product {
	for i := range products {
		products[i].ApplyPricing()
	}
	if products == nil {
		return make([]model.Product, 0)
	}
	return products
}
