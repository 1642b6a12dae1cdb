package metrics

import "github.com/prometheus/client_golang/prometheus"

// CheckoutMetrics tracks checkout outcomes by result label.
type CheckoutMetrics struct {
	completed    prometheus.Counter
	rejected     *prometheus.CounterVec
	linesSkipped prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	completed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_completed_total",
		Help: "Carts successfully converted into purchases.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected_total",
		Help: "Checkout attempts rejected before a purchase was created.",
	}, []string{"reason"})
	linesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_lines_skipped_total",
		Help: "Cart lines dropped at checkout because the product was unavailable.",
	})
	reg.MustRegister(completed, rejected, linesSkipped)
	return &CheckoutMetrics{
		completed:    completed,
		rejected:     rejected,
		linesSkipped: linesSkipped,
	}
}

// IncCompleted records a successful checkout.
func (c *CheckoutMetrics) IncCompleted() {
	if c == nil || c.completed == nil {
		return
	}
	c.completed.Inc()
}

// IncRejected records a rejected checkout with the given reason label.
func (c *CheckoutMetrics) IncRejected(reason string) {
	if c == nil || c.rejected == nil {
		return
	}
	c.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// AddLinesSkipped records lines dropped from a partial checkout.
func (c *CheckoutMetrics) AddLinesSkipped(n int) {
	if c == nil || c.linesSkipped == nil || n <= 0 {
		return
	}
	c.linesSkipped.Add(float64(n))
}
