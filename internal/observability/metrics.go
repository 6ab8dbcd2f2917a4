package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_http_requests_total",
			Help: "Total number of HTTP requests processed by the relay.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	wsActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_ws_active_connections",
			Help: "Number of active websocket connections.",
		},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_ws_events_total",
			Help: "Total number of websocket lifecycle and relay events.",
		},
		[]string{"event"},
	)
	relayedEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_total",
			Help: "Total number of relayed events by kind.",
		},
		[]string{"kind"},
	)
	deliveryFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_delivery_failures_total",
			Help: "Total number of per-peer delivery failures.",
		},
	)
	malformedEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_malformed_events_total",
			Help: "Total number of dropped malformed inbound events.",
		},
	)
	appendFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_append_failures_total",
			Help: "Total number of event log append failures by stream.",
		},
		[]string{"stream"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		wsActiveConnections,
		wsEventsTotal,
		relayedEventsTotal,
		deliveryFailuresTotal,
		malformedEventsTotal,
		appendFailuresTotal,
		amqpPublishErrorsTotal,
	)
}

func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncWSActive() {
	wsActiveConnections.Inc()
}

func DecWSActive() {
	wsActiveConnections.Dec()
}

func IncWSEvent(event string) {
	wsEventsTotal.WithLabelValues(event).Inc()
}

func IncRelayedEvent(kind string) {
	relayedEventsTotal.WithLabelValues(kind).Inc()
}

func IncDeliveryFailure() {
	deliveryFailuresTotal.Inc()
}

func IncMalformedEvent() {
	malformedEventsTotal.Inc()
}

func IncAppendFailure(stream string) {
	appendFailuresTotal.WithLabelValues(stream).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
