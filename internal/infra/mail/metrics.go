package mail

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transportErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "transport_errors_total",
		Help: "Total number of email transport errors",
	},
	[]string{"provider"},
)

func recordTransportError(provider string) {
	transportErrors.WithLabelValues(provider).Inc()
}
