package prometheus

import (
	"strconv"
	"sync"
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Status code category counters
	StatusCategoryCounter *prometheus.CounterVec

	// Authentication metrics
	AuthAttemptsCounter  prometheus.Counter
	AuthSuccessCounter   prometheus.Counter
	AuthErrorsCounter    prometheus.Counter
	AuthForbiddenCounter prometheus.Counter

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Business operation metrics
	OrderOperationsCounter  *prometheus.CounterVec
	PriceLookupCounter      *prometheus.CounterVec
	AuditRecordsCounter     *prometheus.CounterVec
	MasterDataCounter       *prometheus.CounterVec
	ProtectedDeleteCounter  prometheus.Counter
	GoldRatePerGramGauge    *prometheus.GaugeVec
	OrderGrandTotalObserver prometheus.Histogram

	initOnce sync.Once
)

// InitMetrics registers the service metrics. Only the first call has effect.
func InitMetrics(config *config.Config) {
	initOnce.Do(func() { register(config.Metrics.Prefix) })
}

func register(prefix string) {
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StatusCategoryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_status_category_total",
			Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)

	AuthAttemptsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_attempts_total",
		Help: "Total number of authentication attempts",
	})
	AuthSuccessCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_success_total",
		Help: "Total number of successful authentications",
	})
	AuthErrorsCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_errors_total",
		Help: "Total number of authentication errors",
	})
	AuthForbiddenCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_auth_forbidden_total",
		Help: "Total number of requests rejected for insufficient role",
	})

	DbOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	OrderOperationsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_purchase_order_operations_total",
			Help: "Total number of purchase order operations",
		},
		[]string{"operation", "result"},
	)

	PriceLookupCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_price_lookups_total",
			Help: "Price lookups by outcome (exact, fallback, not_found)",
		},
		[]string{"outcome"},
	)

	AuditRecordsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_audit_records_total",
			Help: "Audit log rows written by action",
		},
		[]string{"action"},
	)

	MasterDataCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_master_data_operations_total",
			Help: "Total number of master data operations",
		},
		[]string{"entity", "operation"},
	)

	ProtectedDeleteCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_protected_delete_blocked_total",
		Help: "Deletes refused because the category code is protected",
	})

	GoldRatePerGramGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_gold_rate_per_gram",
			Help: "Most recently written price per gram by category",
		},
		[]string{"category_id"},
	)

	OrderGrandTotalObserver = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    prefix + "_purchase_order_grand_total",
		Help:    "Grand total of created purchase orders",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
	})
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(operationType).Observe(time.Since(startTime).Seconds())
	}
}

// RecordHTTPRequest records one served request and its status category.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	statusStr := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
	HttpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration.Seconds())

	category := ""
	switch {
	case status >= 200 && status < 300:
		category = "2xx"
	case status >= 400 && status < 500:
		category = "4xx"
	case status >= 500 && status < 600:
		category = "5xx"
	}
	if category != "" {
		StatusCategoryCounter.WithLabelValues(category, method, path).Inc()
	}
}

// RecordOrderOperation counts a purchase order operation and whether it succeeded.
func RecordOrderOperation(operation string, err error) {
	if OrderOperationsCounter == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	OrderOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordPriceLookup counts a price lookup by outcome.
func RecordPriceLookup(outcome string) {
	if PriceLookupCounter == nil {
		return
	}
	PriceLookupCounter.WithLabelValues(outcome).Inc()
}

// RecordAudit counts a written audit row.
func RecordAudit(action string) {
	if AuditRecordsCounter == nil {
		return
	}
	AuditRecordsCounter.WithLabelValues(action).Inc()
}

// RecordMasterData counts a create/update/delete on a master data entity.
func RecordMasterData(entity, operation string) {
	if MasterDataCounter == nil {
		return
	}
	MasterDataCounter.WithLabelValues(entity, operation).Inc()
}

// RecordProtectedDelete counts a refused protected-category delete.
func RecordProtectedDelete() {
	if ProtectedDeleteCounter == nil {
		return
	}
	ProtectedDeleteCounter.Inc()
}

// UpdateGoldRate sets the latest written price for a category.
func UpdateGoldRate(categoryID uint, pricePerGram float64) {
	if GoldRatePerGramGauge == nil {
		return
	}
	GoldRatePerGramGauge.WithLabelValues(strconv.FormatUint(uint64(categoryID), 10)).Set(pricePerGram)
}

// ObserveOrderTotal records the grand total of a created order.
func ObserveOrderTotal(total float64) {
	if OrderGrandTotalObserver == nil {
		return
	}
	OrderGrandTotalObserver.Observe(total)
}

// IncAuth updates the authentication counters: attempt, then success or error.
func IncAuth(ok bool) {
	if AuthAttemptsCounter == nil {
		return
	}
	AuthAttemptsCounter.Inc()
	if ok {
		AuthSuccessCounter.Inc()
	} else {
		AuthErrorsCounter.Inc()
	}
}

// IncForbidden counts a request rejected by a role check.
func IncForbidden() {
	if AuthForbiddenCounter == nil {
		return
	}
	AuthForbiddenCounter.Inc()
}
