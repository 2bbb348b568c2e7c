package manager

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	modelsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "registry",
			Name:      "models_created_total",
			Help:      "Total number of models created, by framework",
		},
		[]string{"framework"},
	)

	modelsRemovedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "registry",
			Name:      "models_removed_total",
			Help:      "Total remove calls, by outcome (removed, unknown, replaced)",
		},
		[]string{"status"},
	)

	liveModels = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mlmodeld",
			Subsystem: "registry",
			Name:      "live_models",
			Help:      "Models currently held by registries",
		},
	)

	rowsAddedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "model",
			Name:      "rows_added_total",
			Help:      "Total training rows accepted",
		},
	)

	fitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "model",
			Name:      "fits_total",
			Help:      "Total backend fit invocations, by method and result",
		},
		[]string{"method", "result"},
	)

	fitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mlmodeld",
			Subsystem: "model",
			Name:      "fit_duration_seconds",
			Help:      "Duration of backend fits in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlmodeld",
			Subsystem: "model",
			Name:      "predictions_total",
			Help:      "Total predictions, by method and result",
		},
		[]string{"method", "result"},
	)
)

func init() {
	prometheus.MustRegister(modelsCreatedTotal, modelsRemovedTotal, liveModels, rowsAddedTotal, fitsTotal, fitDuration, predictionsTotal)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
