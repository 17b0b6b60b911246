package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	reconciler = "reconciler"

	importRowsTotal      = "import_rows_total"
	vendorChangesTotal   = "vendor_changes_total"
	importJobDurationSec = "import_job_duration_seconds"

	// Labels
	entityTypeLabel = "entity_type"
	outcomeLabel    = "outcome"
	changeTypeLabel = "change_type"
	severityLabel   = "severity"
)

/**
* Metrics definition
**/
var importRowsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: reconciler,
		Name:      importRowsTotal,
		Help:      "number of processed import rows partitioned by entity type and outcome",
	},
	[]string{entityTypeLabel, outcomeLabel},
)

var vendorChangesTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: reconciler,
		Name:      vendorChangesTotal,
		Help:      "number of staged vendor changes partitioned by change type and severity",
	},
	[]string{changeTypeLabel, severityLabel},
)

var importJobDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: reconciler,
		Name:      importJobDurationSec,
		Help:      "import job processing time in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 30, 60, 300},
	},
	[]string{entityTypeLabel},
)

func IncreaseImportRowsTotalMetric(entityType, outcome string) {
	labels := prometheus.Labels{
		entityTypeLabel: entityType,
		outcomeLabel:    outcome,
	}
	importRowsTotalMetric.With(labels).Inc()
}

func IncreaseVendorChangesTotalMetric(changeType, severity string) {
	labels := prometheus.Labels{
		changeTypeLabel: changeType,
		severityLabel:   severity,
	}
	vendorChangesTotalMetric.With(labels).Inc()
}

func ObserveImportJobDuration(entityType string, seconds float64) {
	importJobDurationMetric.With(prometheus.Labels{entityTypeLabel: entityType}).Observe(seconds)
}

func RegisterMetrics() {
	prometheus.MustRegister(importRowsTotalMetric)
	prometheus.MustRegister(vendorChangesTotalMetric)
	prometheus.MustRegister(importJobDurationMetric)
}
