package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "api")
	m.Observe("GET", "/api/products/{id}", 200, 120*time.Millisecond)
	m.Observe("GET", "/api/products/{id}", 200, 80*time.Millisecond)
	m.Observe("GET", "/api/products/{id}", 404, 10*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	got, err := fetchCounterValue(mfs, "http_requests_total", map[string]string{"route": "/api/products/{id}", "status": "200"})
	if err != nil {
		t.Fatalf("fetch requests: %v", err)
	}
	if got != 2 {
		t.Fatalf("expected 2 ok requests, got %f", got)
	}

	mf := findMetricFamily(mfs, "http_request_duration_seconds")
	if mf == nil || len(mf.GetMetric()) != 1 {
		t.Fatalf("expected one duration series")
	}
	if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 3 {
		t.Fatalf("expected 3 samples, got %d", count)
	}
}

func TestStorefrontMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStorefrontMetrics(reg)
	m.IncCartOp("add")
	m.IncCartOp("add")
	m.IncCartOp("")
	m.IncOrderPlaced()
	m.IncCatalogFailure("products")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_cart_operations_total", map[string]string{"op": "add"}); err != nil || got != 2 {
		t.Fatalf("expected add=2, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_cart_operations_total", map[string]string{"op": "unknown"}); err != nil || got != 1 {
		t.Fatalf("expected unknown=1, got %f (%v)", got, err)
	}
	if got, err := fetchCounterValue(mfs, "storefront_orders_placed_total", nil); err != nil || got != 1 {
		t.Fatalf("expected orders=1, got %f (%v)", got, err)
	}
}

func TestNilRegistererIsInert(t *testing.T) {
	NewHTTPMetrics(nil, "api").Observe("GET", "/", 200, time.Millisecond)
	var sm *StorefrontMetrics
	sm.IncOrderPlaced()
	NewStorefrontMetrics(nil).IncCartOp("add")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q with labels %v not found", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for k, v := range want {
		found := false
		for _, pair := range pairs {
			if pair.GetName() == k && pair.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
