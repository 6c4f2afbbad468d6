package bonsai

import (
	"math"
	"testing"

	"github.com/pbanos/bonsai/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntropy(t *testing.T) {
	tests := []struct {
		labels   [][]float64
		expected float64
	}{
		{column(1, 1, 1), 0},
		{column(0, 1), 1},
		{column(0, 1, 2, 3), 2},
		{column(0, 0, 0, 1), 0.8112781244591328},
		{nil, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, entropy(tt.labels), 1e-12, "%v", tt.labels)
	}
}

func TestGini(t *testing.T) {
	assert.Equal(t, 0.0, gini(column(2, 2)))
	assert.InDelta(t, 0.5, gini(column(0, 1)), 1e-12)
	assert.InDelta(t, 0.375, gini(column(0, 0, 0, 1)), 1e-12)
	assert.Equal(t, 0.0, gini(nil))
}

func TestProportionsFollowValueOrder(t *testing.T) {
	assert.Equal(t, []float64{0.25, 0.5, 0.25}, proportions(column(3, 2, 2, 1)))
}

func TestInformationGain(t *testing.T) {
	s := InformationGain()
	assert.InDelta(t, 1.0, s.Score(column(0, 0), column(1, 1), 1), 1e-12)
	assert.InDelta(t, 0.0, s.Score(column(0, 1), column(0, 1), 1), 1e-12)
}

func TestGainRatio(t *testing.T) {
	s := GainRatio()
	assert.InDelta(t, 1.0, s.Score(column(0, 0), column(1, 1), 1), 1e-12)
	// gain of 1 - 3/4 x entropy(0, 1, 1) over split information of (1/4, 3/4)
	gain := 1 - 0.75*0.9182958340544896
	assert.InDelta(t, gain/0.8112781244591328, s.Score(column(0), column(0, 1, 1), 1), 1e-9)
}

func TestGainRatioGuard(t *testing.T) {
	s := GainRatio()
	assert.True(t, math.IsInf(s.Score(nil, column(0, 1), 1), -1))
	assert.True(t, math.IsInf(s.Score(column(0, 1), nil, 1), -1))
	assert.True(t, math.IsInf(s.Score(column(0), column(1), math.NaN()), -1))
}

func TestImpurityReduction(t *testing.T) {
	s := ImpurityReduction()
	assert.InDelta(t, 0.0, s.Score(column(0, 0), column(1, 1), 0), 1e-12)
	assert.InDelta(t, -0.5, s.Score(column(0, 1), column(0, 1), 0), 1e-12)
}

func TestVarianceReduction(t *testing.T) {
	s := VarianceReduction()
	assert.InDelta(t, -1.0, s.Score(column(1, 3), column(5), 0), 1e-12)
	assert.InDelta(t, -1.0, s.Score([][]float64{{1, 3}}, [][]float64{{7, 7}}, 0), 1e-12)
	assert.InDelta(t, 0.0, s.Score(nil, column(4, 4), 0), 1e-12)
}

func TestNewScorer(t *testing.T) {
	tests := []struct {
		criterion Criterion
		mode      tree.Mode
		err       bool
	}{
		{ID3, tree.Classification, false},
		{C45, tree.Classification, false},
		{CART, tree.Classification, false},
		{CART, tree.Regression, false},
		{ID3, tree.Regression, true},
		{C45, tree.Regression, true},
		{Criterion(9), tree.Classification, true},
	}
	for _, tt := range tests {
		s, err := NewScorer(tt.criterion, tt.mode)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnsupportedCriterion, "%v %v", tt.criterion, tt.mode)
			continue
		}
		require.NoError(t, err)
		assert.NotNil(t, s)
	}
}

func TestParseCriterion(t *testing.T) {
	for s, expected := range map[string]Criterion{"id3": ID3, "c4.5": C45, "c45": C45, "cart": CART} {
		c, err := ParseCriterion(s)
		require.NoError(t, err)
		assert.Equal(t, expected, c)
	}
	_, err := ParseCriterion("gini")
	assert.Error(t, err)
}

func TestWithScorer(t *testing.T) {
	// scores grow with the size of the left side
	var calls int
	m, err := New(tree.Classification, ID3, WithScorer(ScorerFunc(func(left, right [][]float64, _ float64) float64 {
		calls++
		return float64(len(left))
	})))
	require.NoError(t, err)
	require.NoError(t, m.Fit(column(1, 2, 3), column(0, 0, 1)))
	assert.Equal(t, 2.5, m.Tree().Root().Threshold)
	assert.NotZero(t, calls)
}
