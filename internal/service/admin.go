package service

import (
	"context"
	"database/sql"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// Dashboard holds the admin headline figures.
type Dashboard struct {
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalProducts int             `json:"total_products"`
	TotalUsers    int             `json:"total_users"`
}

// ProductInput is the admin product form. An empty Slug is derived from Name.
type ProductInput struct {
	CategoryID      string
	Name            string
	Slug            string
	Description     string
	Price           decimal.Decimal
	DiscountPercent int
	Images          []string
	StockQuantity   int
	SKU             string
	IsActive        bool
	IsFeatured      bool
}

// AdminService backs the admin panel.
type AdminService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Users(ctx context.Context) ([]model.ProfileWithRoles, error)
	GrantAdmin(ctx context.Context, userID string) error
	RevokeAdmin(ctx context.Context, userID string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type adminService struct {
	catalog repository.CatalogRepository
	orders  repository.OrderRepository
	users   repository.UserRepository
	roles   repository.RoleRepository
}

// NewAdminService constructs an AdminService.
func NewAdminService(
	catalog repository.CatalogRepository,
	orders repository.OrderRepository,
	users repository.UserRepository,
	roles repository.RoleRepository,
) AdminService {
	return &adminService{catalog: catalog, orders: orders, users: users, roles: roles}
}

func (s *adminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.orders.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "order stats")
	}
	products, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count products")
	}
	users, err := s.users.CountProfiles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "count users")
	}
	return &Dashboard{
		TotalOrders:   stats.TotalOrders,
		TotalRevenue:  stats.TotalRevenue,
		TotalProducts: products,
		TotalUsers:    users,
	}, nil
}

func (s *adminService) Users(ctx context.Context) ([]model.ProfileWithRoles, error) {
	users, err := s.users.ListProfiles(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list users")
	}
	return users, nil
}

func (s *adminService) GrantAdmin(ctx context.Context, userID string) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if err := s.roles.Grant(ctx, userID, model.RoleAdmin); err != nil {
		return errors.Wrap(err, "grant admin role")
	}
	return nil
}

func (s *adminService) RevokeAdmin(ctx context.Context, userID string) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	if _, err := s.roles.Revoke(ctx, userID, model.RoleAdmin); err != nil {
		return errors.Wrap(err, "revoke admin role")
	}
	return nil
}

func (s *adminService) ensureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUserNotFound
	}
	if _, err := s.users.FindProfile(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return errors.Wrap(err, "find user")
	}
	return nil
}

func (s *adminService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.roles.Has(ctx, userID, model.RoleAdmin)
}

func (s *adminService) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	p := in.product()
	stored, err := s.catalog.CreateProduct(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrSlugTaken
		}
		return nil, errors.Wrap(err, "create product")
	}
	stored.ApplyPricing()
	return stored, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p := in.product()
	p.ID = id
	stored, err := s.catalog.UpdateProduct(ctx, p)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrProductNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrSlugTaken
		}
		return nil, errors.Wrap(err, "update product")
	}
	stored.ApplyPricing()
	return stored, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if err := s.catalog.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrProductNotFound
		}
		return errors.Wrap(err, "delete product")
	}
	return nil
}

func (in ProductInput) product() *model.Product {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = Slugify(in.Name)
	}
	images := model.StringList(in.Images)
	if images == nil {
		images = model.StringList{}
	}
	return &model.Product{
		CategoryID:      optional(in.CategoryID),
		Name:            strings.TrimSpace(in.Name),
		Slug:            slug,
		Description:     optional(in.Description),
		Price:           in.Price,
		DiscountPercent: in.DiscountPercent,
		Images:          images,
		StockQuantity:   in.StockQuantity,
		SKU:             optional(in.SKU),
		IsActive:        in.IsActive,
		IsFeatured:      in.IsFeatured,
	}
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
