package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faceauth",
		Name:      "registrations_total",
		Help:      "Total number of registration attempts by outcome",
	}, []string{"outcome"})

	Identifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "faceauth",
		Name:      "identifications_total",
		Help:      "Total number of identification attempts by outcome",
	}, []string{"outcome"})

	IndexOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faceauth",
		Name:      "face_index_op_duration_seconds",
		Help:      "Duration of face index operations",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
	}, []string{"op"})

	EnrolledTemplates = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "faceauth",
		Name:      "enrolled_templates",
		Help:      "Number of templates in the active collection at last count",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "faceauth",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "faceauth",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
