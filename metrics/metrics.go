package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestCounter counts HTTP requests by status code, method, and path
	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsite_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"status", "method", "path"},
	)

	// RequestDuration measures HTTP request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compsite_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"status", "method", "path"},
	)

	// RequestInProgress counts HTTP requests currently being processed
	RequestInProgress = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compsite_http_requests_in_progress",
			Help: "Number of HTTP requests currently being processed",
		},
		[]string{"method", "path"},
	)

	// RateLimiterRejections counts rejected requests due to rate limiting
	RateLimiterRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compsite_rate_limiter_rejections_total",
			Help: "Total number of requests rejected by rate limiter",
		},
	)

	// DatabaseOperationDuration measures database operation duration
	DatabaseOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compsite_db_operation_duration_seconds",
			Help:    "Database operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// BlobOperationDuration measures object store operation duration
	BlobOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compsite_blob_operation_duration_seconds",
			Help:    "Object store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "backend"},
	)

	// CompetitionsCreated counts competition creations by outcome
	CompetitionsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsite_competitions_created_total",
			Help: "Competition creation attempts by outcome",
		},
		[]string{"outcome"}, // "created", "invalid", "upload_failed", "insert_failed"
	)

	// AnswerChecks counts puzzle answer verifications by result
	AnswerChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsite_answer_checks_total",
			Help: "Puzzle answer verifications by result",
		},
		[]string{"result"}, // "correct", "incorrect"
	)

	// ImageCleanups counts compensating image deletions after a failed create
	ImageCleanups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compsite_image_cleanups_total",
			Help: "Compensating image deletions by outcome",
		},
		[]string{"outcome"}, // "deleted", "failed"
	)

	// LiveClients tracks the number of connected live feed clients
	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compsite_live_clients",
			Help: "Number of websocket clients on the live competition feed",
		},
	)

	// MemoryStats tracks memory usage stats
	MemoryStats = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compsite_memory_stats_bytes",
			Help: "Memory statistics in bytes",
		},
		[]string{"type"},
	)

	// GoroutineCount tracks the number of goroutines
	GoroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compsite_goroutine_count",
			Help: "Number of goroutines",
		},
	)

	// SystemCPUUsage tracks CPU usage percentage
	SystemCPUUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compsite_system_cpu_usage_percent",
			Help: "CPU usage percentage by core",
		},
		[]string{"core"},
	)

	// SystemDiskUsage tracks disk usage
	SystemDiskUsage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compsite_system_disk_usage_bytes",
			Help: "Disk usage statistics in bytes",
		},
		[]string{"mountpoint", "type"}, // type can be "used", "free", "total"
	)

	// SystemLoadAverage tracks system load averages
	SystemLoadAverage = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compsite_system_load_average",
			Help: "System load average",
		},
		[]string{"period"}, // "1min", "5min", "15min"
	)
)

// RecordDBOperation records the duration of a database operation
func RecordDBOperation(operation string, table string, startTime time.Time) {
	DatabaseOperationDuration.WithLabelValues(operation, table).Observe(time.Since(startTime).Seconds())
}

// RecordBlobOperation records the duration of an object store operation
func RecordBlobOperation(operation string, backend string, startTime time.Time) {
	BlobOperationDuration.WithLabelValues(operation, backend).Observe(time.Since(startTime).Seconds())
}
