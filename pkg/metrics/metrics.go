package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Time spent reconciling revenue, per vendor summary or whole report
	ReconcileDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payout_reconcile_duration_seconds",
		Help:    "Latency of vendor revenue reconciliation",
		Buckets: prometheus.DefBuckets,
	}, []string{"scope"})

	// Vendors reconciled while building admin reports
	ReconciledVendors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payout_reconciled_vendors_total",
		Help: "Total number of vendor reconciliations computed",
	})

	VendorReportRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_vendor_report_requests_total",
		Help: "Admin vendor report requests by sort key",
	}, []string{"sort_key"})

	PayoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payout_records_total",
		Help: "Payout records created, split by paid flag",
	}, []string{"paid"})

	PayoutAmountPaid = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "payout_amount_paid_total",
		Help: "Sum of amounts recorded as paid out to vendors",
	})

	OrderStatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status transitions by target status",
	}, []string{"status"})
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ReconcileDuration,
			ReconciledVendors,
			VendorReportRequests,
			PayoutsRecorded,
			PayoutAmountPaid,
			OrderStatusChanges,
		)
	})
}
