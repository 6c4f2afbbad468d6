package bonsai

import (
	"fmt"
	"math"
	"sort"

	"github.com/pbanos/bonsai/tree"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

/*
SplitScorer is an interface wrapping the Score method, used to rate
candidate binary splits of the samples of a node.

The Score method takes the labels of the samples that would go down the
left and right subtrees and the entropy of the labels of the node being
split and returns a score. Greater scores mean better splits.
*/
type SplitScorer interface {
	Score(left, right [][]float64, parentEntropy float64) float64
}

/*
ScorerFunc wraps a function with the Score method signature to implement
the SplitScorer interface
*/
type ScorerFunc func(left, right [][]float64, parentEntropy float64) float64

/*
Score takes the labels on both sides of a split and the entropy of the
labels of the node being split and invokes the ScorerFunc with those
parameters to return its result.
*/
func (sf ScorerFunc) Score(left, right [][]float64, parentEntropy float64) float64 {
	return sf(left, right, parentEntropy)
}

// Criterion identifies a family of split scoring
type Criterion int

const (
	// ID3 scores splits by their information gain
	ID3 Criterion = iota
	// C45 scores splits by their gain ratio
	C45
	// CART scores splits by the reduction of gini impurity on classification
	// trees and of label standard deviation on regression trees
	CART
)

// ParseCriterion takes a criterion name and returns the corresponding Criterion
func ParseCriterion(s string) (Criterion, error) {
	switch s {
	case "id3":
		return ID3, nil
	case "c4.5", "c45":
		return C45, nil
	case "cart":
		return CART, nil
	}
	return ID3, fmt.Errorf("unknown split criterion %q", s)
}

func (c Criterion) String() string {
	switch c {
	case ID3:
		return "id3"
	case C45:
		return "c4.5"
	case CART:
		return "cart"
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

// NewScorer takes a criterion and a mode and returns the SplitScorer that
// implements the criterion for trees of the mode.
func NewScorer(c Criterion, m tree.Mode) (SplitScorer, error) {
	switch c {
	case ID3, C45:
		if m != tree.Classification {
			return nil, errors.Wrapf(ErrUnsupportedCriterion, "%v cannot grow %v trees", c, m)
		}
		if c == ID3 {
			return InformationGain(), nil
		}
		return GainRatio(), nil
	case CART:
		if m == tree.Regression {
			return VarianceReduction(), nil
		}
		return ImpurityReduction(), nil
	}
	return nil, errors.Wrapf(ErrUnsupportedCriterion, "%v", c)
}

/*
InformationGain returns a SplitScorer whose Score method computes the
reduction of entropy achieved by the split:

	Entropy(S) - |L|/|S| x Entropy(L) - |R|/|S| x Entropy(R)
*/
func InformationGain() SplitScorer {
	return ScorerFunc(informationGain)
}

/*
GainRatio returns a SplitScorer whose Score method computes the information
gain of the split divided by its split information:

	-|L|/|S| x log2(|L|/|S|) - |R|/|S| x log2(|R|/|S|)

with empty sides contributing nothing. Splits whose split information is not
positive, or whose ratio is not a finite number, score negative infinity so
they are never chosen.
*/
func GainRatio() SplitScorer {
	return ScorerFunc(func(left, right [][]float64, parentEntropy float64) float64 {
		n := float64(len(left) + len(right))
		var splitInformation float64
		for _, side := range [][][]float64{left, right} {
			if len(side) == 0 {
				continue
			}
			p := float64(len(side)) / n
			splitInformation -= p * math.Log2(p)
		}
		if !(splitInformation > 0) {
			return math.Inf(-1)
		}
		ratio := informationGain(left, right, parentEntropy) / splitInformation
		if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
			return math.Inf(-1)
		}
		return ratio
	})
}

/*
ImpurityReduction returns a SplitScorer whose Score method computes the
negated weighted gini impurity of both sides of the split:

	-(|L|/|S| x Gini(L) + |R|/|S| x Gini(R))
*/
func ImpurityReduction() SplitScorer {
	return ScorerFunc(func(left, right [][]float64, _ float64) float64 {
		n := float64(len(left) + len(right))
		return -(float64(len(left))/n*gini(left) + float64(len(right))/n*gini(right))
	})
}

/*
VarianceReduction returns a SplitScorer whose Score method computes the
negated sum of the standard deviations of the labels on both sides of the
split:

	-(StdDev(L) + StdDev(R))
*/
func VarianceReduction() SplitScorer {
	return ScorerFunc(func(left, right [][]float64, _ float64) float64 {
		return -(stdDev(left) + stdDev(right))
	})
}

func informationGain(left, right [][]float64, parentEntropy float64) float64 {
	n := float64(len(left) + len(right))
	return parentEntropy - (float64(len(left))/n*entropy(left) + float64(len(right))/n*entropy(right))
}

// entropy returns the entropy in bits of the label values
func entropy(labels [][]float64) float64 {
	return stat.Entropy(proportions(labels)) / math.Ln2
}

func gini(labels [][]float64) float64 {
	p := proportions(labels)
	if len(p) == 0 {
		return 0
	}
	return 1 - floats.Dot(p, p)
}

// proportions returns the share of every distinct label value among
// all label values, in increasing order of value.
func proportions(labels [][]float64) []float64 {
	values := flatten(labels)
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)
	total := float64(len(values))
	var result []float64
	start := 0
	for i := 1; i <= len(values); i++ {
		if i == len(values) || values[i] != values[start] {
			result = append(result, float64(i-start)/total)
			start = i
		}
	}
	return result
}

// stdDev returns the population standard deviation of all label values
func stdDev(labels [][]float64) float64 {
	values := flatten(labels)
	if len(values) == 0 {
		return 0
	}
	return math.Sqrt(stat.Moment(2, values, nil))
}

func flatten(labels [][]float64) []float64 {
	var size int
	for _, l := range labels {
		size += len(l)
	}
	values := make([]float64, 0, size)
	for _, l := range labels {
		values = append(values, l...)
	}
	return values
}
