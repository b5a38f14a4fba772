package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BookingsTotal counts booking attempts by outcome ("booked" or an error kind).
	BookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_bookings_total",
			Help: "Total number of slot booking attempts",
		},
		[]string{"outcome"},
	)

	// CancellationsTotal counts cancellation attempts by caller role and outcome.
	CancellationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_cancellations_total",
			Help: "Total number of appointment cancellation attempts",
		},
		[]string{"role", "outcome"},
	)

	SlotPruneRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_slot_prune_runs_total",
			Help: "Total number of slot map pruning runs",
		},
		[]string{"status"},
	)

	SlotsPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clinic_slot_dates_pruned_total",
			Help: "Total number of slot map dates removed by pruning",
		},
	)

	DoctorListCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinic_doctor_list_cache_total",
			Help: "Doctor list cache lookups by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		BookingsTotal,
		CancellationsTotal,
		SlotPruneRuns,
		SlotsPruned,
		DoctorListCache,
	)
}

// Handler exposes the default registry on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
