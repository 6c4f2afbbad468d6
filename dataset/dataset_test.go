package dataset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pbanos/bonsai/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schema = &feature.Schema{Features: []string{"a", "b"}, Labels: []string{"y"}}

func TestAdd(t *testing.T) {
	d := New(schema)
	require.NoError(t, d.Add([]float64{1, 2}, []float64{0}))
	assert.Error(t, d.Add([]float64{1}, []float64{0}))
	assert.Error(t, d.Add([]float64{1, 2}, []float64{0, 1}))
	assert.Equal(t, 1, d.Count())
}

func TestAddRecord(t *testing.T) {
	d := New(schema)
	require.NoError(t, d.AddRecord(map[string]float64{"b": 2, "a": 1, "y": 3, "extra": 9}))
	assert.Equal(t, [][]float64{{1, 2}}, d.X)
	assert.Equal(t, [][]float64{{3}}, d.Y)
	assert.Equal(t, map[string]float64{"a": 1, "b": 2, "y": 3}, d.Record(0))

	assert.Error(t, d.AddRecord(map[string]float64{"a": 1, "y": 3}))
	assert.Error(t, d.AddRecord(map[string]float64{"a": 1, "b": math.NaN(), "y": 3}))
	assert.Equal(t, 1, d.Count())
}

func TestSplit(t *testing.T) {
	d := New(schema)
	for i := 0; i < 1000; i++ {
		require.NoError(t, d.Add([]float64{float64(i), 0}, []float64{float64(i % 2)}))
	}
	kept, split := d.Split(0.2, rand.New(rand.NewSource(1)))
	assert.Equal(t, d.Count(), kept.Count()+split.Count())
	assert.InDelta(t, 200, split.Count(), 60)
	assert.Same(t, schema, split.Schema)
	for _, part := range []*Dataset{kept, split} {
		for i := 1; i < part.Count(); i++ {
			assert.Less(t, part.X[i-1][0], part.X[i][0])
		}
	}

	all, none := d.Split(0, rand.New(rand.NewSource(1)))
	assert.Equal(t, d.Count(), all.Count())
	assert.Zero(t, none.Count())
}
