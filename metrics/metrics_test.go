package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordFit(t *testing.T) {
	RecordFit("classification", "id3", 20*time.Millisecond, 7)
	labels := prometheus.Labels{"mode": "classification", "criterion": "id3"}
	assert.Equal(t, 7.0, testutil.ToFloat64(treeNodesMetrics.With(labels)))
}

func TestRecordPrune(t *testing.T) {
	RecordPrune("regression", 4, 2, 0.75)
	labels := prometheus.Labels{"mode": "regression"}
	assert.Equal(t, 4.0, testutil.ToFloat64(pruneSequenceMetrics.With(labels)))
	assert.Equal(t, 2.0, testutil.ToFloat64(prunedNodesMetrics.With(labels)))
	assert.Equal(t, 0.75, testutil.ToFloat64(pruneAccuracyMetrics.With(labels)))
}

func TestRecordPredictions(t *testing.T) {
	labels := prometheus.Labels{"mode": "test", "success": "true"}
	before := testutil.ToFloat64(predictionsTotalMetrics.With(labels))
	RecordPredictions("test", 3, true)
	RecordPredictions("test", 2, true)
	RecordPredictions("test", 9, false)
	assert.Equal(t, before+5, testutil.ToFloat64(predictionsTotalMetrics.With(labels)))
}
