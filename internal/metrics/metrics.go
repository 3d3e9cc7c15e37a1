// internal/metrics/metrics.go
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	wsConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_connections_total",
			Help: "Total number of WebSocket connections accepted",
		},
	)

	wsActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	eventsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_events_received_total",
			Help: "Total number of inbound client events by type",
		},
		[]string{"type"},
	)

	eventsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_events_dropped_total",
			Help: "Total number of malformed inbound events dropped",
		},
	)

	broadcastsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_broadcasts_total",
			Help: "Total number of broadcast envelopes emitted",
		},
	)

	notificationsDeliveredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_notifications_delivered_total",
			Help: "Total notification deliveries to live connections",
		},
	)

	notificationsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "live_notifications_dropped_total",
			Help: "Total notifications dropped because the recipient had no live connection",
		},
	)

	roomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_rooms_active",
			Help: "Number of rooms with at least one member",
		},
	)

	matchesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_matches_active",
			Help: "Number of match rooms with live state",
		},
	)
)

// Middleware collects request counters and latencies for the REST surface.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start).Seconds()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// Handler exposes the Prometheus scrape endpoint through Gin.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func RecordConnection()    { wsConnectionsTotal.Inc(); wsActiveConnections.Inc() }
func RecordDisconnection() { wsActiveConnections.Dec() }

func RecordEventReceived(eventType string) { eventsReceivedTotal.WithLabelValues(eventType).Inc() }
func RecordEventDropped()                  { eventsDroppedTotal.Inc() }
func RecordBroadcast()                     { broadcastsTotal.Inc() }

func RecordNotificationDelivered(n int) { notificationsDeliveredTotal.Add(float64(n)) }
func RecordNotificationDropped()        { notificationsDroppedTotal.Inc() }

func SetActiveRooms(n int)   { roomsActive.Set(float64(n)) }
func SetActiveMatches(n int) { matchesActive.Set(float64(n)) }
