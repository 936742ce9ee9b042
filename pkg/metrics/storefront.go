package metrics

import "github.com/prometheus/client_golang/prometheus"

// StorefrontMetrics tracks shopper activity in the storefront.
type StorefrontMetrics struct {
	cartOps         *prometheus.CounterVec
	ordersPlaced    prometheus.Counter
	catalogFailures *prometheus.CounterVec
}

func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartOps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_operations_total",
		Help: "Cart mutations by operation.",
	}, []string{"op"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Orders confirmed at checkout.",
	})
	catalogFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_failures_total",
		Help: "Catalog API calls that degraded to an empty result.",
	}, []string{"endpoint"})
	reg.MustRegister(cartOps, ordersPlaced, catalogFailures)
	return &StorefrontMetrics{
		cartOps:         cartOps,
		ordersPlaced:    ordersPlaced,
		catalogFailures: catalogFailures,
	}
}

func (m *StorefrontMetrics) IncCartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *StorefrontMetrics) IncOrderPlaced() {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
}

func (m *StorefrontMetrics) IncCatalogFailure(endpoint string) {
	if m == nil || m.catalogFailures == nil {
		return
	}
	m.catalogFailures.WithLabelValues(normalizeLabel(endpoint)).Inc()
}
