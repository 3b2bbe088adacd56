package metrics

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "sunspec_gateway_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	normalizeRequests *prometheus.CounterVec
	normalizeLatency  *prometheus.HistogramVec

	unknownPoints     *prometheus.CounterVec
	transformFailures *prometheus.CounterVec
	pointCollisions   *prometheus.CounterVec
	unknownStateCodes *prometheus.CounterVec

	normalizedPoints *prometheus.CounterVec

	mappingEntries prometheus.Gauge
)

// Init registers gateway metrics and DB-backed gauges.
func Init(db *sql.DB, logger *log.Logger) {
	registerOnce.Do(func() {
		normalizeRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalize_requests_total",
				Help: "Total normalize requests by result",
			},
			[]string{"result"},
		)
		normalizeLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "normalize_latency_seconds",
				Help:    "Snapshot normalization latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)

		unknownPoints = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "unknown_points_total",
				Help: "Raw points with no mapping entry by vocabulary",
			},
			[]string{"vocabulary"},
		)
		transformFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "transform_failures_total",
				Help: "Points dropped because their value could not be converted",
			},
			[]string{"vocabulary"},
		)
		pointCollisions = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "point_collisions_total",
				Help: "Snapshots reporting the same canonical point twice",
			},
			[]string{"vocabulary"},
		)
		unknownStateCodes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "unknown_state_codes_total",
				Help: "State codes outside the known firmware vocabularies",
			},
			[]string{"point"},
		)

		normalizedPoints = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "normalized_points_total",
				Help: "Successfully normalized points by vocabulary",
			},
			[]string{"vocabulary"},
		)

		mappingEntries = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricPrefix + "mapping_entries",
			Help: "Entries in the loaded canonical mapping table",
		})

		prometheus.MustRegister(
			normalizeRequests,
			normalizeLatency,
			unknownPoints,
			transformFailures,
			pointCollisions,
			unknownStateCodes,
			normalizedPoints,
			mappingEntries,
		)

		if db != nil {
			registerDBMetrics(db, logger)
		}
	})
}

// ObserveNormalize records one snapshot normalization.
func ObserveNormalize(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if normalizeRequests != nil {
		normalizeRequests.WithLabelValues(result).Inc()
	}
	if normalizeLatency != nil {
		normalizeLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// IncUnknownPoint counts a wire name the table does not cover.
func IncUnknownPoint(vocabulary string) {
	if unknownPoints != nil {
		unknownPoints.WithLabelValues(vocabulary).Inc()
	}
}

// IncTransformFailure counts a dropped unconvertible value.
func IncTransformFailure(vocabulary string) {
	if transformFailures != nil {
		transformFailures.WithLabelValues(vocabulary).Inc()
	}
}

// IncPointCollision counts a duplicate canonical point within one snapshot.
func IncPointCollision(vocabulary string) {
	if pointCollisions != nil {
		pointCollisions.WithLabelValues(vocabulary).Inc()
	}
}

// IncUnknownStateCode counts a state code missing from the firmware tables.
func IncUnknownStateCode(point string) {
	if unknownStateCodes != nil {
		unknownStateCodes.WithLabelValues(point).Inc()
	}
}

// AddNormalizedPoints counts successfully normalized points.
func AddNormalizedPoints(vocabulary string, count int) {
	if count <= 0 {
		return
	}
	if normalizedPoints != nil {
		normalizedPoints.WithLabelValues(vocabulary).Add(float64(count))
	}
}

// SetMappingEntries records the size of the loaded table.
func SetMappingEntries(count int) {
	if mappingEntries != nil {
		mappingEntries.Set(float64(count))
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError
)
