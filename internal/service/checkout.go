package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"storefront/internal/model"
	"storefront/internal/pricing"
	"storefront/internal/repository"
)

var tracer = otel.Tracer("storefront/internal/service")

// CheckoutSummary is what the checkout page renders before an order is placed.
type CheckoutSummary struct {
	Addresses []model.Address `json:"addresses"`
	Cart      *CartView       `json:"cart"`
}

// AddressInput carries a new delivery address.
type AddressInput struct {
	FullName     string
	Phone        string
	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	Pincode      string
}

// PlaceOrderInput is the checkout form. CouponCode and IdempotencyKey are optional.
type PlaceOrderInput struct {
	AddressID      string
	CouponCode     string
	IdempotencyKey string
}

// PlaceOrderResult wraps the order. Replayed is true when an earlier order with the
// same idempotency key was returned instead of placing a new one.
type PlaceOrderResult struct {
	Order    *model.Order `json:"order"`
	Replayed bool         `json:"replayed"`
}

// CheckoutService turns a cart into an order.
type CheckoutService interface {
	Summary(ctx context.Context, userID string) (*CheckoutSummary, error)
	AddAddress(ctx context.Context, userID string, in AddressInput) (*model.Address, error)
	// PlaceOrder runs the whole checkout in one transaction. Any failure leaves the
	// cart, stock and coupon usage untouched.
	PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*PlaceOrderResult, error)
}

type checkoutService struct {
	tx        repository.TransactionManager
	cart      repository.CartRepository
	addresses repository.AddressRepository
	orders    repository.OrderRepository
	metrics   *CheckoutMetrics
	now       func() time.Time
}

// NewCheckoutService constructs a CheckoutService. metrics may be nil.
func NewCheckoutService(
	tx repository.TransactionManager,
	cart repository.CartRepository,
	addresses repository.AddressRepository,
	orders repository.OrderRepository,
	metrics *CheckoutMetrics,
) CheckoutService {
	return &checkoutService{
		tx:        tx,
		cart:      cart,
		addresses: addresses,
		orders:    orders,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (s *checkoutService) Summary(ctx context.Context, userID string) (*CheckoutSummary, error) {
	addresses, err := s.addresses.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list addresses")
	}
	lines, err := s.cart.ListLines(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart")
	}
	return &CheckoutSummary{Addresses: addresses, Cart: newCartView(lines)}, nil
}

func (s *checkoutService) AddAddress(ctx context.Context, userID string, in AddressInput) (*model.Address, error) {
	addr := &model.Address{
		UserID:       userID,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Pincode:      strings.TrimSpace(in.Pincode),
	}
	if line2 := strings.TrimSpace(in.AddressLine2); line2 != "" {
		addr.AddressLine2 = &line2
	}
	stored, err := s.addresses.Create(ctx, addr)
	if err != nil {
		return nil, errors.Wrap(err, "create address")
	}
	return stored, nil
}

func (s *checkoutService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*PlaceOrderResult, error) {
	ctx, span := tracer.Start(ctx, "checkout.PlaceOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("checkout.coupon", in.CouponCode != ""),
		attribute.Bool("checkout.idempotent", in.IdempotencyKey != ""),
	)

	var result *PlaceOrderResult
	err := s.tx.Execute(ctx, func(repos repository.RepositoryFactory) error {
		var err error
		result, err = s.placeOrder(ctx, repos, userID, in)
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) && in.IdempotencyKey != "" {
		// A concurrent request with the same key won the insert.
		existing, findErr := s.orders.FindByIdempotencyKey(ctx, userID, in.IdempotencyKey)
		if findErr == nil {
			span.SetAttributes(attribute.Bool("checkout.replayed", true))
			return &PlaceOrderResult{Order: existing, Replayed: true}, nil
		}
	}
	if err != nil {
		s.metrics.checkoutFailed(failureReason(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("order.number", result.Order.OrderNumber),
		attribute.Bool("checkout.replayed", result.Replayed),
	)
	if !result.Replayed {
		s.metrics.orderPlaced()
	}
	return result, nil
}

func (s *checkoutService) placeOrder(ctx context.Context, repos repository.RepositoryFactory, userID string, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if existing, err := findReplay(ctx, repos, userID, in.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}

	lines, err := repos.Cart().LockLines(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "lock cart")
	}
	// The cart lock serializes checkouts for one user. A request that waited
	// on it sees the order the holder committed, so look the key up again.
	if existing, err := findReplay(ctx, repos, userID, in.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	if in.AddressID == "" {
		return nil, ErrAddressRequired
	}
	addr, err := repos.Addresses().Find(ctx, userID, in.AddressID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, errors.Wrap(err, "find address")
	}

	for i := range lines {
		if !lines[i].Product.IsActive || lines[i].Product.StockQuantity < lines[i].Quantity {
			return nil, ErrInsufficientStock
		}
		lines[i].ApplyPricing()
	}
	subtotal := pricing.Subtotal(lines)

	order := &model.Order{
		UserID:          userID,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		PaymentMethod:   model.PaymentMethodCOD,
		Subtotal:        subtotal,
		TotalAmount:     subtotal,
		ShippingAddress: addr.Snapshot(),
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		order.IdempotencyKey = &key
	}

	if code := strings.TrimSpace(in.CouponCode); code != "" {
		coupon, err := repos.Coupons().LockByCode(ctx, code)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrInvalidCoupon
			}
			return nil, errors.Wrap(err, "find coupon")
		}
		if !coupon.Usable(s.now()) {
			return nil, ErrInvalidCoupon
		}
		if !coupon.MeetsMinimum(subtotal) {
			return nil, ErrCouponMinimum
		}
		discount := coupon.Discount(subtotal)
		order.CouponID = &coupon.ID
		order.DiscountAmount = decimal.NewNullDecimal(discount)
		order.TotalAmount = subtotal.Sub(discount)
		if err := repos.Coupons().IncrementUsage(ctx, coupon.ID); err != nil {
			return nil, errors.Wrap(err, "use coupon")
		}
	}

	stored, err := repos.Orders().Create(ctx, order)
	if err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		productID := l.ProductID
		items = append(items, model.OrderItem{
			ProductID:    &productID,
			ProductName:  l.Product.Name,
			ProductPrice: l.Product.EffectivePrice,
			Quantity:     l.Quantity,
			Subtotal:     l.LineTotal,
		})
	}
	storedItems, err := repos.Orders().AddItems(ctx, stored.ID, items)
	if err != nil {
		return nil, errors.Wrap(err, "create order items")
	}
	stored.Items = storedItems

	for _, l := range lines {
		if err := repos.Catalog().DecrementStock(ctx, l.ProductID, l.Quantity); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrInsufficientStock
			}
			return nil, errors.Wrap(err, "decrement stock")
		}
	}

	if err := repos.Cart().Clear(ctx, userID); err != nil {
		return nil, errors.Wrap(err, "clear cart")
	}
	return &PlaceOrderResult{Order: stored}, nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrCartEmpty):
		return reasonEmptyCart
	case errors.Is(err, ErrAddressRequired), errors.Is(err, ErrAddressNotFound):
		return reasonAddress
	case errors.Is(err, ErrInsufficientStock):
		return reasonStock
	case errors.Is(err, ErrInvalidCoupon), errors.Is(err, ErrCouponMinimum):
		return reasonCoupon
	default:
		return reasonInternal
	}
}

// findReplay returns the order already stored under key, or nil when there is none.
func findReplay(ctx context.Context, repos repository.RepositoryFactory, userID, key string) (*PlaceOrderResult, error) {
	if key == "" {
		return nil, nil
	}
	existing, err := repos.Orders().FindByIdempotencyKey(ctx, userID, key)
	switch {
	case err == nil:
		return &PlaceOrderResult{Order: existing, Replayed: true}, nil
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "find order by idempotency key")
	}
}
