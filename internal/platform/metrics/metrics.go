package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores Prometheus del servicio.
type Metrics struct {
	DogsRegistered     prometheus.Counter
	RequestsCreated    prometheus.Counter
	RequestsCancelled  prometheus.Counter
	ResponsesCreated   prometheus.Counter
	ResponseConflicts  prometheus.Counter
	DonationsCompleted prometheus.Counter
}

// New crea y registra los contadores en el registry dado. Recibir el
// registry (en vez de usar el default) permite levantar más de un router
// en tests sin colisión de registro.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DogsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogblood_dogs_registered_total",
			Help: "Total number of donor dog profiles registered",
		}),
		RequestsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogblood_requests_created_total",
			Help: "Total number of donation requests created",
		}),
		RequestsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogblood_requests_cancelled_total",
			Help: "Total number of donation requests cancelled",
		}),
		ResponsesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogblood_responses_created_total",
			Help: "Total number of donor responses created",
		}),
		ResponseConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogblood_response_conflicts_total",
			Help: "Total number of duplicate (request, dog) responses rejected",
		}),
		DonationsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "dogblood_donations_completed_total",
			Help: "Total number of donations marked completed",
		}),
	}
}
