package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduavaa_orders_created_total",
			Help: "Gateway orders created, by kind (single, cart)",
		},
		[]string{"kind"},
	)

	paymentVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduavaa_payment_verifications_total",
			Help: "Payment signature checks, by result (valid, invalid)",
		},
		[]string{"result"},
	)

	grantsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eduavaa_grants_total",
			Help: "Unlock grant upserts, by result (created, existing, failed)",
		},
		[]string{"result"},
	)

	manualReconciliationTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eduavaa_manual_reconciliation_total",
			Help: "Verified payments that granted nothing and need manual reconciliation",
		},
	)
)
