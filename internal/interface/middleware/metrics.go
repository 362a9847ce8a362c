package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soukoni_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soukoni_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soukoni_http_errors_total",
			Help: "Total number of error responses by type",
		},
		[]string{"type"},
	)

	offersPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soukoni_offers_published_total",
			Help: "Total number of offers published",
		},
	)

	signupsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "soukoni_signups_total",
			Help: "Total number of accounts created",
		},
	)
)

// Metrics records request counters and latency. The route pattern is used as
// the path label so ids do not explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())

		if status >= 400 {
			errorType := "client_error"
			if status >= 500 {
				errorType = "server_error"
			}
			errorsTotal.WithLabelValues(errorType).Inc()
		}
	}
}

// IncrementOffersPublished is called by the publish handler on success.
func IncrementOffersPublished() { offersPublishedTotal.Inc() }

// IncrementSignups is called by the signup handler on success.
func IncrementSignups() { signupsTotal.Inc() }
