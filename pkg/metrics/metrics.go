package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
		[]string{"service"},
	)

	// Scheduler metrics
	DispatchCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_cycles_total",
			Help: "Total number of dispatch cycles by result",
		},
		[]string{"result"},
	)

	DispatchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_cycle_duration_seconds",
			Help:    "Duration of a full dispatch cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RemindersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduled_ride_reminders_total",
			Help: "Reminder notifications by tier and result",
		},
		[]string{"minutes", "result"},
	)

	DispatchOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduled_ride_dispatch_total",
			Help: "Dispatch attempts by outcome (booked, retry, failed, skipped, error)",
		},
		[]string{"outcome"},
	)

	StaleProcessingResetsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scheduled_ride_stale_resets_total",
			Help: "Bookings released from a stuck processing state",
		},
	)

	RabbitMQMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rabbitmq_messages_published_total",
			Help: "Total number of messages published to RabbitMQ",
		},
		[]string{"service", "exchange", "status"},
	)
)

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, status).Observe(duration.Seconds())
}

// RecordCycle records the result and duration of one dispatch cycle
func RecordCycle(err error, duration time.Duration) {
	DispatchCyclesTotal.WithLabelValues(resultLabel(err)).Inc()
	DispatchCycleDuration.Observe(duration.Seconds())
}

// RecordReminder records one reminder send attempt
func RecordReminder(minutes int, err error) {
	RemindersTotal.WithLabelValues(strconv.Itoa(minutes), resultLabel(err)).Inc()
}

// RecordDispatchOutcome records the outcome of one booking in the dispatch stage
func RecordDispatchOutcome(outcome string) {
	DispatchOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordStaleResets records bookings released by the stale processing sweep
func RecordStaleResets(n int) {
	StaleProcessingResetsTotal.Add(float64(n))
}

// RecordRabbitMQPublish records RabbitMQ publish metrics
func RecordRabbitMQPublish(service, exchange string, err error) {
	RabbitMQMessagesPublished.WithLabelValues(service, exchange, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
