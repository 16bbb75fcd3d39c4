package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order-pipeline outcomes, including the soft
// failures that are logged and counted but never abort a checkout.
type CheckoutMetrics struct {
	ordersCreated        *prometheus.CounterVec
	ordersFailed         *prometheus.CounterVec
	checkoutDuration     *prometheus.HistogramVec
	stockDecrementMisses prometheus.Counter
	dispensationShorts   prometheus.Counter
	rollbacks            *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders successfully created.",
	}, []string{"item_kind"})
	ordersFailed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_failed_total",
		Help: "Order attempts rejected before creation.",
	}, []string{"reason"})
	checkoutDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of the order creation pipeline in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	stockDecrementMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_decrement_misses_total",
		Help: "Post-create stock decrements that found no row to update.",
	})
	dispensationShorts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dispensation_shortfalls_total",
		Help: "Compound dispensations allocated below the requested volume.",
	})
	rollbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_rollbacks_total",
		Help: "Compensating order deletions by failing step.",
	}, []string{"step"})
	reg.MustRegister(ordersCreated, ordersFailed, checkoutDuration, stockDecrementMisses, dispensationShorts, rollbacks)
	return &CheckoutMetrics{
		ordersCreated:        ordersCreated,
		ordersFailed:         ordersFailed,
		checkoutDuration:     checkoutDuration,
		stockDecrementMisses: stockDecrementMisses,
		dispensationShorts:   dispensationShorts,
		rollbacks:            rollbacks,
	}
}

// IncOrderCreated increments the created counter for the given item kind.
func (c *CheckoutMetrics) IncOrderCreated(itemKind string) {
	if c == nil || c.ordersCreated == nil {
		return
	}
	c.ordersCreated.WithLabelValues(normalizeLabel(itemKind)).Inc()
}

// IncOrderFailed increments the failure counter for the given reason.
func (c *CheckoutMetrics) IncOrderFailed(reason string) {
	if c == nil || c.ordersFailed == nil {
		return
	}
	c.ordersFailed.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveCheckout records the pipeline duration for the given outcome.
func (c *CheckoutMetrics) ObserveCheckout(outcome string, duration time.Duration) {
	if c == nil || c.checkoutDuration == nil {
		return
	}
	c.checkoutDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncStockDecrementMiss counts a decrement that matched no row.
func (c *CheckoutMetrics) IncStockDecrementMiss() {
	if c == nil || c.stockDecrementMisses == nil {
		return
	}
	c.stockDecrementMisses.Inc()
}

// IncDispensationShortfall counts an under-allocated dispensation.
func (c *CheckoutMetrics) IncDispensationShortfall() {
	if c == nil || c.dispensationShorts == nil {
		return
	}
	c.dispensationShorts.Inc()
}

// IncRollback counts a compensating order deletion for the named step.
func (c *CheckoutMetrics) IncRollback(step string) {
	if c == nil || c.rollbacks == nil {
		return
	}
	c.rollbacks.WithLabelValues(normalizeLabel(step)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
