/*
Package metrics exposes prometheus metrics about the trees grown,
pruned and queried by this process.
*/
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	fitDurationMetrics = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bonsai_fit_duration_seconds",
			Help:    "Time spent growing trees",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
		}, []string{"mode", "criterion"},
	)

	treeNodesMetrics = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bonsai_tree_nodes",
			Help: "Number of nodes of the last grown tree",
		}, []string{"mode", "criterion"},
	)

	pruneSequenceMetrics = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bonsai_prune_sequence_length",
			Help: "Length of the weakest-link pruning sequence of the last pruned tree",
		}, []string{"mode"},
	)

	prunedNodesMetrics = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bonsai_pruned_nodes",
			Help: "Number of nodes in the pruned set selected for the last pruned tree",
		}, []string{"mode"},
	)

	pruneAccuracyMetrics = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bonsai_prune_validation_accuracy",
			Help: "Validation accuracy of the pruned set selected for the last pruned tree",
		}, []string{"mode"},
	)

	predictionsTotalMetrics = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bonsai_predictions_total",
			Help: "Total number of samples predicted",
		}, []string{"mode", "success"},
	)
)

func init() {
	prometheus.MustRegister(
		fitDurationMetrics,
		treeNodesMetrics,
		pruneSequenceMetrics,
		prunedNodesMetrics,
		pruneAccuracyMetrics,
		predictionsTotalMetrics,
	)
}

// RecordFit records the growth of a tree with the given number of nodes
func RecordFit(mode, criterion string, duration time.Duration, nodes int) {
	labels := prometheus.Labels{"mode": mode, "criterion": criterion}
	fitDurationMetrics.With(labels).Observe(duration.Seconds())
	treeNodesMetrics.With(labels).Set(float64(nodes))
}

// RecordPrune records the outcome of pruning a tree
func RecordPrune(mode string, sequenceLength, pruned int, accuracy float64) {
	labels := prometheus.Labels{"mode": mode}
	pruneSequenceMetrics.With(labels).Set(float64(sequenceLength))
	prunedNodesMetrics.With(labels).Set(float64(pruned))
	pruneAccuracyMetrics.With(labels).Set(accuracy)
}

// RecordPredictions records a batch of n sample predictions
func RecordPredictions(mode string, n int, success bool) {
	predictionsTotalMetrics.With(prometheus.Labels{
		"mode":    mode,
		"success": strconv.FormatBool(success),
	}).Add(float64(n))
}
