package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitMetricsOnce(t *testing.T) {
	cfg := &config.Config{Metrics: config.MetricsConfig{Prefix: "billing_test"}}
	InitMetrics(cfg)
	InitMetrics(cfg)

	RecordOrderOperation("create", nil)
	RecordOrderOperation("create", errors.New("boom"))
	if got := testutil.ToFloat64(OrderOperationsCounter.WithLabelValues("create", "success")); got != 1 {
		t.Errorf("create/success = %v, want 1", got)
	}
	if got := testutil.ToFloat64(OrderOperationsCounter.WithLabelValues("create", "error")); got != 1 {
		t.Errorf("create/error = %v, want 1", got)
	}

	RecordHTTPRequest("GET", "/api/products", 404, 10*time.Millisecond)
	if got := testutil.ToFloat64(StatusCategoryCounter.WithLabelValues("4xx", "GET", "/api/products")); got != 1 {
		t.Errorf("4xx count = %v, want 1", got)
	}

	UpdateGoldRate(3, 6450)
	if got := testutil.ToFloat64(GoldRatePerGramGauge.WithLabelValues("3")); got != 6450 {
		t.Errorf("gold rate gauge = %v, want 6450", got)
	}

	TrackDBOperation("select")(time.Now())
}
