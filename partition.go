package bonsai

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

/*
Partition represents a binary split of the rows reaching a node according
to a feature and a threshold, along with the score it got.
*/
type Partition struct {
	Feature   int
	Threshold float64
	Score     float64
	left      []int
	right     []int
}

/*
bestPartition takes the rows reaching a node and the entropy of their
labels and returns the partition with the highest score among those
obtained by splitting the rows at the midpoint of every pair of adjacent
distinct values of every feature, or nil if no partition scores above
negative infinity. An error is returned if the evaluation of any
feature fails.

Candidates are considered feature by feature in index order and, for each
feature, in increasing threshold order. A candidate only replaces the best
one so far if its score is strictly greater, so the first of several equally
scored candidates wins. When the pot allows parallelism, features are
evaluated concurrently and their winners reduced in feature order with the
same comparison, which yields the same partition.
*/
func (p *pot) bestPartition(rows []int, parentEntropy float64) (*Partition, error) {
	features := len(p.x[0])
	candidates := make([]*Partition, features)
	if p.parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(p.parallelism)
		for f := 0; f < features; f++ {
			f := f
			g.Go(func() error {
				candidates[f] = p.featurePartition(rows, f, parentEntropy)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for f := 0; f < features; f++ {
			candidates[f] = p.featurePartition(rows, f, parentEntropy)
		}
	}
	var result *Partition
	for _, c := range candidates {
		if c != nil && (result == nil || c.Score > result.Score) {
			result = c
		}
	}
	return result, nil
}

// featurePartition returns the best partition of the rows on the
// given feature or nil if none scores above negative infinity.
func (p *pot) featurePartition(rows []int, f int, parentEntropy float64) *Partition {
	values := p.distinctValues(rows, f)
	var result *Partition
	bestScore := math.Inf(-1)
	for i, v := range values[1:] {
		threshold := (values[i] + v) / 2.0
		var left, right []int
		for _, r := range rows {
			if p.x[r][f] < threshold {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		score := p.scorer.Score(p.labels(left), p.labels(right), parentEntropy)
		if score > bestScore {
			bestScore = score
			result = &Partition{Feature: f, Threshold: threshold, Score: score, left: left, right: right}
		}
	}
	return result
}

// distinctValues returns the sorted distinct values of a feature on the rows
func (p *pot) distinctValues(rows []int, f int) []float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = p.x[r][f]
	}
	sort.Float64s(values)
	distinct := values[:1]
	for _, v := range values[1:] {
		if v != distinct[len(distinct)-1] {
			distinct = append(distinct, v)
		}
	}
	return distinct
}
