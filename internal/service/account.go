package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"storefront/internal/model"
	"storefront/internal/repository"
)

// QREncoder renders content as a PNG QR code.
type QREncoder interface {
	Encode(content string) ([]byte, error)
}

// AccountOverview is the account page payload.
type AccountOverview struct {
	Profile *model.Profile `json:"profile"`
	Orders  []model.Order  `json:"orders"`
}

// ProfileInput updates the editable profile fields. Blank values clear the field.
type ProfileInput struct {
	FullName string
	Phone    string
}

// AccountService exposes a shopper's profile and order history.
type AccountService interface {
	Overview(ctx context.Context, userID string) (*AccountOverview, error)
	Orders(ctx context.Context, userID string) ([]model.Order, error)
	Order(ctx context.Context, userID, orderID string) (*model.Order, error)
	// OrderQRCode renders the order number and total for cash-on-delivery hand-off.
	OrderQRCode(ctx context.Context, userID, orderID string) ([]byte, error)
	UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error)
}

type accountService struct {
	users  repository.UserRepository
	orders repository.OrderRepository
	qr     QREncoder
}

// NewAccountService constructs an AccountService.
func NewAccountService(users repository.UserRepository, orders repository.OrderRepository, qr QREncoder) AccountService {
	return &accountService{users: users, orders: orders, qr: qr}
}

func (s *accountService) Overview(ctx context.Context, userID string) (*AccountOverview, error) {
	profile, err := s.users.FindProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "find profile")
	}
	orders, err := s.Orders(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AccountOverview{Profile: profile, Orders: orders}, nil
}

func (s *accountService) Orders(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	if orders == nil {
		orders = make([]model.Order, 0)
	}
	return orders, nil
}

func (s *accountService) Order(ctx context.Context, userID, orderID string) (*model.Order, error) {
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	o, err := s.orders.FindByID(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, errors.Wrap(err, "find order")
	}
	return o, nil
}

func (s *accountService) OrderQRCode(ctx context.Context, userID, orderID string) ([]byte, error) {
	o, err := s.Order(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	png, err := s.qr.Encode(orderQRContent(o))
	if err != nil {
		return nil, errors.Wrap(err, "render order qr code")
	}
	return png, nil
}

func orderQRContent(o *model.Order) string {
	return fmt.Sprintf("Order: %s\nTotal: %s\nPayment: %s",
		o.OrderNumber, o.TotalAmount.StringFixed(2), strings.ToUpper(o.PaymentMethod))
}

func (s *accountService) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	p, err := s.users.UpdateProfile(ctx, userID, optional(in.FullName), optional(in.Phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "update profile")
	}
	return p, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
