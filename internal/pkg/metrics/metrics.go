package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_total_requests",
		Help: "Total requests to the HTTP API",
	},
		[]string{"method", "path", "code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration",
		Help: "Duration of HTTP requests",
	},
		[]string{"method", "path"},
	)

	DBResponseTime = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "db_response_time",
		Help: "Duration of DB operations",
	},
		[]string{"operation"},
	)
	DBUptime = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_up",
		Help: "1 if database is reachable, 0 if not",
	})

	PedidosCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pedidos_created_total",
		Help: "Total number of orders created",
	})
	PedidosStateChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pedidos_state_changes_total",
		Help: "Total number of order state transitions",
	},
		[]string{"estado"},
	)
	LoginFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "login_failures_total",
		Help: "Total number of rejected login attempts",
	})
)
