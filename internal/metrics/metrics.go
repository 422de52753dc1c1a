package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScheduleConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "schedule",
		Name:      "conflicts_total",
		Help:      "Booking conflicts detected, by resource role.",
	}, []string{"role"})

	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "schedule",
		Name:      "sessions_created_total",
		Help:      "Class sessions persisted.",
	})

	PaymentsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "billing",
		Name:      "payments_recorded_total",
		Help:      "Payments appended to invoices, by method.",
	}, []string{"method"})

	PaymentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "billing",
		Name:      "payments_rejected_total",
		Help:      "Payments refused at write time, by reason.",
	}, []string{"reason"})

	// InvariantViolations counts reconciliations where payments exceeded the
	// invoice total. Any non-zero value means the write-time check was bypassed.
	InvariantViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "billing",
		Name:      "invariant_violations_total",
		Help:      "Reconciliations where paid amount exceeded the invoice total.",
	})

	InvoicesMarkedOverdue = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "educenter",
		Subsystem: "billing",
		Name:      "invoices_marked_overdue_total",
		Help:      "Invoices moved to overdue by the sweep.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "educenter",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status class.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
