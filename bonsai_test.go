package bonsai

import (
	"math/rand"
	"testing"

	"github.com/pbanos/bonsai/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func column(values ...float64) [][]float64 {
	result := make([][]float64, len(values))
	for i, v := range values {
		result[i] = []float64{v}
	}
	return result
}

func TestFitPureSeparation(t *testing.T) {
	for _, c := range []Criterion{ID3, C45, CART} {
		t.Run(c.String(), func(t *testing.T) {
			m, err := New(tree.Classification, c)
			require.NoError(t, err)
			require.NoError(t, m.Fit(column(0, 0, 1, 1), column(0, 0, 1, 1)))

			tr := m.Tree()
			require.Equal(t, 3, tr.Len())
			root := tr.Root()
			assert.False(t, root.IsLeaf())
			assert.Equal(t, 0, root.Feature)
			assert.Equal(t, 0.5, root.Threshold)
			assert.Equal(t, 1, root.Left)
			assert.Equal(t, 2, root.Right)
			assert.Equal(t, tree.Prediction{0}, root.Result)
			assert.Equal(t, 2.0, root.Error)

			for id, class := range map[int]float64{1: 0, 2: 1} {
				n, err := tr.Node(id)
				require.NoError(t, err)
				assert.True(t, n.IsLeaf())
				assert.Equal(t, tree.Prediction{class}, n.Result)
				assert.Equal(t, 0.0, n.Error)
			}

			yPred, err := m.Predict(column(0, 1))
			require.NoError(t, err)
			assert.Equal(t, column(0, 1), yPred)
		})
	}
}

func TestFitSingleClass(t *testing.T) {
	m, err := New(tree.Classification, ID3)
	require.NoError(t, err)
	require.NoError(t, m.Fit(column(1, 2, 3), column(1, 1, 1)))

	root := m.Tree().Root()
	assert.Equal(t, 1, m.Tree().Len())
	assert.True(t, root.IsLeaf())
	assert.Equal(t, tree.Prediction{1}, root.Result)
	assert.Equal(t, 0.0, root.Error)

	yPred, err := m.Predict(column(-100, 2, 1e9))
	require.NoError(t, err)
	assert.Equal(t, column(1, 1, 1), yPred)
}

func TestFitIndistinguishableFeatures(t *testing.T) {
	m, err := New(tree.Classification, CART)
	require.NoError(t, err)
	X := [][]float64{{1, 2}, {1, 2}, {1 + 1e-9, 2}}
	require.NoError(t, m.Fit(X, column(0, 1, 1)))

	root := m.Tree().Root()
	assert.True(t, root.IsLeaf())
	assert.Equal(t, tree.Prediction{1}, root.Result)
	assert.Equal(t, 1.0, root.Error)
}

func TestFitPureNodesAreLeaves(t *testing.T) {
	m, err := New(tree.Classification, ID3)
	require.NoError(t, err)
	require.NoError(t, m.Fit(noisyX, noisyY))

	err = m.Tree().Traverse(false, func(n *tree.Node) error {
		if n.Error == 0 {
			assert.True(t, n.IsLeaf(), "node %d", n.ID)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestFitRegression(t *testing.T) {
	m, err := New(tree.Regression, CART)
	require.NoError(t, err)
	require.NoError(t, m.Fit(column(1, 2, 3, 4), column(1, 1, 3, 5)))

	tr := m.Tree()
	root := tr.Root()
	assert.Equal(t, 3.5, root.Threshold)
	assert.InDelta(t, 2.5, root.Result[0], 1e-12)
	assert.InDelta(t, 11.0, root.Error, 1e-12)

	left, err := tr.Node(root.Left)
	require.NoError(t, err)
	assert.InDelta(t, 5.0/3.0, left.Result[0], 1e-12)
	assert.InDelta(t, 24.0/9.0, left.Error, 1e-12)
	assert.Equal(t, 2.5, left.Threshold)

	right, err := tr.Node(root.Right)
	require.NoError(t, err)
	assert.True(t, right.IsLeaf())
	assert.Equal(t, tree.Prediction{5}, right.Result)
	assert.Equal(t, 0.0, right.Error)

	yPred, err := m.Predict(column(2, 3, 10))
	require.NoError(t, err)
	assert.Equal(t, column(1, 3, 5), yPred)
}

func TestFitMultiOutputRegression(t *testing.T) {
	m, err := New(tree.Regression, CART)
	require.NoError(t, err)
	require.NoError(t, m.Fit(column(0, 1), [][]float64{{1, 2}, {3, 4}}))

	root := m.Tree().Root()
	assert.Equal(t, tree.Prediction{2, 3}, root.Result)
	assert.Equal(t, 4.0, root.Error)
	assert.Equal(t, 0.5, root.Threshold)

	yPred, err := m.Predict(column(0, 1))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2}, {3, 4}}, yPred)
}

func TestFitMaxDepth(t *testing.T) {
	m, err := New(tree.Classification, ID3, MaxDepth(1))
	require.NoError(t, err)
	require.NoError(t, m.Fit(noisyX, noisyY))
	assert.Equal(t, 3, m.Tree().Len())
}

func TestFitIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	X := make([][]float64, 200)
	Y := make([][]float64, len(X))
	for i := range X {
		X[i] = []float64{float64(r.Intn(10)), r.Float64(), float64(r.Intn(3))}
		Y[i] = []float64{float64(r.Intn(3))}
	}
	for _, c := range []Criterion{ID3, C45, CART} {
		t.Run(c.String(), func(t *testing.T) {
			sequential, err := New(tree.Classification, c)
			require.NoError(t, err)
			require.NoError(t, sequential.Fit(X, Y))
			again, err := New(tree.Classification, c)
			require.NoError(t, err)
			require.NoError(t, again.Fit(X, Y))
			parallel, err := New(tree.Classification, c, Parallelism(4))
			require.NoError(t, err)
			require.NoError(t, parallel.Fit(X, Y))

			expected := sequential.Tree().String()
			assert.Equal(t, expected, again.Tree().String())
			assert.Equal(t, expected, parallel.Tree().String())
			assert.Equal(t, sequential.Tree().Len(), parallel.Tree().Len())
		})
	}
}

func TestFitInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		mode tree.Mode
		X, Y [][]float64
		err  error
	}{
		{"no samples", tree.Classification, nil, nil, ErrEmptyInput},
		{"no features", tree.Classification, [][]float64{{}}, column(0), ErrEmptyInput},
		{"row count mismatch", tree.Classification, column(1, 2), column(0), ErrShapeMismatch},
		{"ragged features", tree.Classification, [][]float64{{1, 2}, {3}}, column(0, 1), ErrShapeMismatch},
		{"ragged labels", tree.Regression, column(1, 2), [][]float64{{1, 2}, {3}}, ErrShapeMismatch},
		{"fractional class", tree.Classification, column(1, 2), column(0, 1.5), ErrInvalidLabel},
		{"negative class", tree.Classification, column(1, 2), column(0, -1), ErrInvalidLabel},
		{"several classes per row", tree.Classification, column(1, 2), [][]float64{{0, 1}, {1, 0}}, ErrInvalidLabel},
		{"infinite feature", tree.Regression, [][]float64{{1}, {posInf}}, column(0, 1), ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.mode, CART)
			require.NoError(t, err)
			err = m.Fit(tt.X, tt.Y)
			assert.ErrorIs(t, err, tt.err)
			assert.Nil(t, m.Tree())
		})
	}
}

func TestFitFailureKeepsPreviousTree(t *testing.T) {
	m, err := New(tree.Classification, ID3)
	require.NoError(t, err)
	require.NoError(t, m.Fit(column(0, 0, 1, 1), column(0, 0, 1, 1)))
	previous := m.Tree()

	assert.ErrorIs(t, m.Fit(column(0, 1), column(0)), ErrShapeMismatch)
	assert.Same(t, previous, m.Tree())
}

func TestNewUnsupportedCriterion(t *testing.T) {
	for _, c := range []Criterion{ID3, C45} {
		_, err := New(tree.Regression, c)
		assert.ErrorIs(t, err, ErrUnsupportedCriterion)
	}
}

func TestPredictErrors(t *testing.T) {
	m, err := New(tree.Classification, ID3)
	require.NoError(t, err)
	_, err = m.Predict(column(1))
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, m.Fit([][]float64{{0, 0}, {1, 1}}, column(0, 1)))
	_, err = m.Predict(column(1))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestPredictIsIdempotent(t *testing.T) {
	m, err := New(tree.Classification, C45)
	require.NoError(t, err)
	require.NoError(t, m.Fit(noisyX, noisyY))

	first, err := m.Predict(noisyX)
	require.NoError(t, err)
	second, err := m.Predict(noisyX)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPredictReturnsCopies(t *testing.T) {
	m, err := New(tree.Classification, ID3)
	require.NoError(t, err)
	require.NoError(t, m.Fit(column(1, 2, 3), column(1, 1, 1)))

	yPred, err := m.Predict(column(1))
	require.NoError(t, err)
	yPred[0][0] = 7
	assert.Equal(t, tree.Prediction{1}, m.Tree().Root().Result)
}

func TestFromTree(t *testing.T) {
	grown, err := New(tree.Regression, CART)
	require.NoError(t, err)
	require.NoError(t, grown.Fit(column(1, 2, 3, 4), column(1, 1, 5, 5)))

	m, err := FromTree(grown.Tree())
	require.NoError(t, err)
	assert.Equal(t, CART, m.Criterion())
	assert.Equal(t, tree.Regression, m.Mode())
	assert.Same(t, grown.Tree(), m.Tree())
	predictions, err := m.Predict(column(0, 10))
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {5}}, predictions)
}

func TestBestPartitionParallelism(t *testing.T) {
	x := [][]float64{{1, 5}, {2, 4}, {3, 3}, {4, 2}}
	y := column(0, 0, 1, 1)
	rows := []int{0, 1, 2, 3}
	for _, parallelism := range []int{1, 2, 4} {
		p := &pot{mode: tree.Classification, scorer: InformationGain(), parallelism: parallelism, x: x, y: y}
		part, err := p.bestPartition(rows, entropy(y))
		require.NoError(t, err)
		require.NotNil(t, part)
		assert.Equal(t, 0, part.Feature, "parallelism %d", parallelism)
		assert.Equal(t, 2.5, part.Threshold, "parallelism %d", parallelism)
		assert.Equal(t, []int{0, 1}, part.left)
		assert.Equal(t, []int{2, 3}, part.right)
	}
}
