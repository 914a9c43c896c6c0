package service

import "github.com/prometheus/client_golang/prometheus"

// Checkout failure reasons used as the "reason" label.
const (
	reasonEmptyCart = "empty_cart"
	reasonAddress   = "address"
	reasonStock     = "stock"
	reasonCoupon    = "coupon"
	reasonInternal  = "internal"
)

// CheckoutMetrics counts placed orders and refused checkouts.
type CheckoutMetrics struct {
	placed   prometheus.Counter
	failures *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout counters on reg.
func NewCheckoutMetrics(reg prometheus.Registerer) (*CheckoutMetrics, error) {
	m := &CheckoutMetrics{
		placed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders placed.",
		}),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_checkout_failures_total",
				Help: "Total number of checkouts that did not create an order.",
			},
			[]string{"reason"},
		),
	}
	if err := reg.Register(m.placed); err != nil {
		return nil, err
	}
	if err := reg.Register(m.failures); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *CheckoutMetrics) orderPlaced() {
	if m != nil {
		m.placed.Inc()
	}
}

func (m *CheckoutMetrics) checkoutFailed(reason string) {
	if m != nil {
		m.failures.WithLabelValues(reason).Inc()
	}
}
