package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//	[0] x[0] < 5
//	|__[1] 0
//	`__[2] x[1] < 1
//	   |__[3] 1
//	   `__[4] 2
func sampleTree(t *testing.T) *Tree {
	tr := New(Classification, 2)
	tr.NewNode(Prediction{0}, 3, 6)
	tr.NewNode(Prediction{0}, 0, 2)
	tr.NewNode(Prediction{1}, 1, 4)
	tr.NewNode(Prediction{1}, 0, 3)
	tr.NewNode(Prediction{2}, 0, 1)
	require.NoError(t, tr.Split(0, 0, 5, 1, 2))
	require.NoError(t, tr.Split(2, 1, 1, 3, 4))
	return tr
}

func TestNewNodeAssignsSequentialIDs(t *testing.T) {
	tr := New(Regression, 1)
	for i := 0; i < 3; i++ {
		n := tr.NewNode(Prediction{float64(i)}, 0, 1)
		assert.Equal(t, i, n.ID)
		assert.True(t, n.IsLeaf())
	}
	assert.Equal(t, 3, tr.Len())
}

func TestSplitValidation(t *testing.T) {
	tr := sampleTree(t)
	tr.NewNode(Prediction{0}, 0, 1)
	tr.NewNode(Prediction{0}, 0, 1)
	tests := []struct {
		name              string
		id, feature, l, r int
	}{
		{"unknown node", 9, 0, 5, 6},
		{"internal node", 0, 0, 5, 6},
		{"child before parent", 3, 0, 1, 5},
		{"unknown child", 3, 0, 5, 7},
		{"same children", 3, 0, 5, 5},
		{"feature out of range", 3, 2, 5, 6},
		{"negative feature", 3, -1, 5, 6},
		{"child of another node", 3, 0, 4, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tr.Split(tt.id, tt.feature, 0, tt.l, tt.r))
		})
	}
	require.NoError(t, tr.Split(3, 1, 0, 5, 6))
}

func TestDetached(t *testing.T) {
	tr := sampleTree(t)
	assert.Empty(t, tr.Detached())
	tr.NewNode(Prediction{0}, 0, 1)
	tr.NewNode(Prediction{1}, 0, 1)
	assert.Equal(t, []int{5, 6}, tr.Detached())
	require.NoError(t, tr.Split(1, 0, 2, 5, 6))
	assert.Empty(t, tr.Detached())
	assert.Equal(t, 7, tr.Reachable())
}

func TestPredict(t *testing.T) {
	tr := sampleTree(t)
	tests := []struct {
		sample   []float64
		expected Prediction
	}{
		{[]float64{4.9, 100}, Prediction{0}},
		{[]float64{5, 0}, Prediction{1}},
		{[]float64{5, 1}, Prediction{2}},
	}
	for _, tt := range tests {
		p, err := tr.Predict(tt.sample)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, p)
	}
	_, err := tr.Predict([]float64{6})
	assert.Equal(t, ErrCannotPredictFromSample, err)
	_, err = New(Classification, 1).Predict([]float64{1})
	assert.Equal(t, ErrCannotPredictFromEmptyTree, err)
}

func TestPrunedNodesActAsLeaves(t *testing.T) {
	tr := sampleTree(t)
	require.NoError(t, tr.SetPruned([]int{2}))
	assert.True(t, tr.IsPruned(2))
	assert.False(t, tr.IsPruned(0))
	assert.Equal(t, 3, tr.Reachable())
	assert.Equal(t, 2, tr.Leaves())

	p, err := tr.Predict([]float64{7, 7})
	require.NoError(t, err)
	assert.Equal(t, Prediction{1}, p)

	n, err := tr.Node(2)
	require.NoError(t, err)
	assert.False(t, n.IsLeaf())

	require.NoError(t, tr.SetPruned(nil))
	assert.Equal(t, 5, tr.Reachable())
	assert.Empty(t, tr.Pruned())
}

func TestSetPrunedRejectsUnknownNodes(t *testing.T) {
	tr := sampleTree(t)
	require.NoError(t, tr.SetPruned([]int{2}))
	assert.Error(t, tr.SetPruned([]int{0, 5}))
	assert.Equal(t, []int{2}, tr.Pruned())
}

func TestTraverse(t *testing.T) {
	tr := sampleTree(t)
	var ids []int
	collect := func(n *Node) error {
		ids = append(ids, n.ID)
		return nil
	}
	require.NoError(t, tr.Traverse(false, collect))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ids)

	ids = nil
	require.NoError(t, tr.Traverse(true, collect))
	assert.Equal(t, []int{4, 3, 2, 1, 0}, ids)

	stop := assert.AnError
	var visited int
	err := tr.Traverse(false, func(n *Node) error {
		visited++
		if n.ID == 1 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, visited)
}

func TestString(t *testing.T) {
	tr := sampleTree(t)
	expected := "[0] { 0 } (samples=6, error=3) x[0] < 5\n" +
		"|__[1] { 0 } (samples=2, error=0)\n" +
		"`__[2] { 1 } (samples=4, error=1) x[1] < 1\n" +
		"   |__[3] { 1 } (samples=3, error=0)\n" +
		"   `__[4] { 2 } (samples=1, error=0)\n"
	assert.Equal(t, expected, tr.String())

	require.NoError(t, tr.SetPruned([]int{2}))
	expected = "[0] { 0 } (samples=6, error=3) x[0] < 5\n" +
		"|__[1] { 0 } (samples=2, error=0)\n" +
		"`__[2] { 1 } (samples=4, error=1) (pruned)\n"
	assert.Equal(t, expected, tr.String())
}

func TestPrediction(t *testing.T) {
	p := Prediction{2}
	assert.Equal(t, 2, p.Class())
	assert.Equal(t, "2", p.String())
	assert.Equal(t, "(1.5, 3)", Prediction{1.5, 3}.String())
	assert.True(t, p.Equal(Prediction{2}))
	assert.False(t, p.Equal(Prediction{2, 0}))

	c := p.Copy()
	c[0] = 5
	assert.Equal(t, Prediction{2}, p)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Classification, Regression} {
		parsed, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}
	_, err := ParseMode("clustering")
	assert.Error(t, err)
}
