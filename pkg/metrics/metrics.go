package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// Settlement counters. Amounts are exported as floats for dashboards only;
// all money math stays decimal.
var (
	withdrawalsSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_withdrawals_submitted_total",
		Help: "Total withdrawal requests accepted as pending.",
	})

	withdrawalsSubmittedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_withdrawals_submitted_amount_total",
		Help: "Total amount of withdrawal requests accepted as pending.",
	})

	withdrawalsReviewedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_withdrawals_reviewed_total",
		Help: "Total withdrawal reviews by terminal status.",
	}, []string{"status"})

	withdrawalsReviewedAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_withdrawals_reviewed_amount_total",
		Help: "Total amount of reviewed withdrawals by terminal status.",
	}, []string{"status"})

	ordersRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_orders_recorded_total",
		Help: "Total orders recorded from payment events.",
	})

	ordersRecordedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "settlement_orders_recorded_amount_total",
		Help: "Total amount of orders recorded from payment events.",
	})
)

// RecordWithdrawalSubmitted counts a committed pending withdrawal.
func RecordWithdrawalSubmitted(amount decimal.Decimal) {
	withdrawalsSubmittedTotal.Inc()
	withdrawalsSubmittedAmountTotal.Add(amount.InexactFloat64())
}

// RecordWithdrawalReviewed counts a committed terminal review.
func RecordWithdrawalReviewed(status string, amount decimal.Decimal) {
	withdrawalsReviewedTotal.WithLabelValues(status).Inc()
	withdrawalsReviewedAmountTotal.WithLabelValues(status).Add(amount.InexactFloat64())
}

// RecordOrderRecorded counts an order ingested from a payment event.
func RecordOrderRecorded(amount decimal.Decimal) {
	ordersRecordedTotal.Inc()
	ordersRecordedAmountTotal.Add(amount.InexactFloat64())
}
