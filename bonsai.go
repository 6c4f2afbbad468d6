/*
Package bonsai grows binary decision trees on numeric data and prunes
them with weakest-link cost-complexity pruning, choosing the pruned tree
that best predicts a validation set.

Trees can be grown for classification, predicting non-negative integer
class labels, or for regression, predicting vectors of real values. Splits
are scored according to a Criterion: ID3 (information gain), C4.5 (gain
ratio) or CART (gini impurity or standard deviation reduction).
*/
package bonsai

import (
	"math"
	"time"

	"github.com/pbanos/bonsai/evaluation"
	"github.com/pbanos/bonsai/metrics"
	"github.com/pbanos/bonsai/tree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("component", "bonsai")

/*
AccuracyFunc is a function that takes expected and predicted label rows
and returns how well they match, greater values meaning better matches.
*/
type AccuracyFunc func(yTrue, yPred [][]float64) float64

/*
Model grows a decision tree with its Fit method, prunes it with its Prune
method and predicts labels for samples with its Predict method.

A Model is not safe for concurrent use when Fit or Prune are involved:
concurrent calls to Predict are fine as long as no Fit or Prune call
runs at the same time.
*/
type Model struct {
	mode        tree.Mode
	criterion   Criterion
	scorer      SplitScorer
	maxDepth    int
	parallelism int
	accuracy    AccuracyFunc
	logger      logrus.FieldLogger
	tree        *tree.Tree
}

// Option configures a Model
type Option func(*Model)

// MaxDepth limits the depth of grown trees, with the root at depth 0.
// Values below 1 mean no limit.
func MaxDepth(n int) Option {
	return func(m *Model) { m.maxDepth = n }
}

// Parallelism sets the number of features whose splits can be evaluated
// at the same time when growing a tree. The grown tree does not depend on it.
func Parallelism(n int) Option {
	return func(m *Model) { m.parallelism = n }
}

// WithLogger sets the logger the model reports its work to
func WithLogger(l logrus.FieldLogger) Option {
	return func(m *Model) { m.logger = l }
}

// WithAccuracy sets the function used to rate pruned trees on validation data
func WithAccuracy(f AccuracyFunc) Option {
	return func(m *Model) { m.accuracy = f }
}

// WithScorer replaces the SplitScorer derived from the model's criterion
func WithScorer(s SplitScorer) Option {
	return func(m *Model) { m.scorer = s }
}

/*
New takes a mode, a split criterion and options and returns a Model that
grows trees of that mode scoring splits by the criterion, or an error if
the criterion does not support the mode.
*/
func New(mode tree.Mode, c Criterion, opts ...Option) (*Model, error) {
	scorer, err := NewScorer(c, mode)
	if err != nil {
		return nil, err
	}
	m := &Model{
		mode:      mode,
		criterion: c,
		scorer:    scorer,
		accuracy:  evaluation.Accuracy,
		logger:    log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

/*
FromTree takes an already grown tree and options and returns a Model that
predicts with it and can prune it. Trees do not record the criterion they
were grown with, so the model gets the CART criterion, which supports both
modes. It is the criterion used should the model be fitted again, and the
one its fit metrics are labelled with.
*/
func FromTree(t *tree.Tree, opts ...Option) (*Model, error) {
	m, err := New(t.Mode, CART, opts...)
	if err != nil {
		return nil, err
	}
	m.tree = t
	return m, nil
}

// Tree returns the tree of the model, or nil if it has not been fitted
func (m *Model) Tree() *tree.Tree {
	return m.tree
}

// Criterion returns the criterion the model scores splits by
func (m *Model) Criterion() Criterion {
	return m.criterion
}

// Mode returns the mode of the trees grown by the model
func (m *Model) Mode() tree.Mode {
	return m.mode
}

/*
Fit takes a feature matrix X and a label matrix Y, with a row of labels per
row of features, and grows a new tree on them, replacing any previous tree
and its pruned nodes. Classification models expect a single non-negative
integer label per row.

The input is validated before any state is changed: ErrEmptyInput is returned
for inputs without rows or features, ErrShapeMismatch when rows do not line
up, ErrInvalidValue for non-finite values and ErrInvalidLabel for labels a
classification tree cannot predict.
*/
func (m *Model) Fit(X, Y [][]float64) error {
	if err := m.validate(X, Y, -1); err != nil {
		return err
	}
	start := time.Now()
	p := &pot{
		mode:        m.mode,
		scorer:      m.scorer,
		maxDepth:    m.maxDepth,
		parallelism: m.parallelism,
		x:           X,
		y:           Y,
	}
	t, err := p.grow()
	if err != nil {
		return errors.Wrap(err, "growing tree")
	}
	m.tree = t
	duration := time.Since(start)
	metrics.RecordFit(m.mode.String(), m.criterion.String(), duration, t.Len())
	m.logger.WithFields(logrus.Fields{
		"mode":      m.mode,
		"criterion": m.criterion,
		"samples":   len(X),
		"nodes":     t.Len(),
		"leaves":    t.Leaves(),
		"duration":  duration,
	}).Debug("tree grown")
	return nil
}

/*
Predict takes a feature matrix and returns a prediction per row: a single
class label for classification models or a label vector for regression
ones. Predictions honor the pruned nodes of the tree.
*/
func (m *Model) Predict(X [][]float64) ([][]float64, error) {
	if m.tree == nil || m.tree.Root() == nil {
		return nil, ErrNotFitted
	}
	result, err := m.predict(X)
	metrics.RecordPredictions(m.mode.String(), len(X), err == nil)
	return result, err
}

func (m *Model) predict(X [][]float64) ([][]float64, error) {
	result := make([][]float64, len(X))
	for i, x := range X {
		if len(x) != m.tree.Features {
			return nil, errors.Wrapf(ErrShapeMismatch, "row %d has %d features, tree expects %d", i, len(x), m.tree.Features)
		}
		p, err := m.tree.Predict(x)
		if err != nil {
			return nil, errors.Wrapf(err, "predicting row %d", i)
		}
		result[i] = p.Copy()
	}
	return result, nil
}

// validate checks X and Y can be used to grow or evaluate a tree
// expecting rows of the given number of features, or any number
// if features is negative.
func (m *Model) validate(X, Y [][]float64, features int) error {
	if len(X) == 0 {
		return errors.Wrap(ErrEmptyInput, "no samples")
	}
	if len(X) != len(Y) {
		return errors.Wrapf(ErrShapeMismatch, "%d feature rows and %d label rows", len(X), len(Y))
	}
	if features < 0 {
		features = len(X[0])
	}
	if features == 0 {
		return errors.Wrap(ErrEmptyInput, "no features")
	}
	labels := len(Y[0])
	if labels == 0 {
		return errors.Wrap(ErrEmptyInput, "no labels")
	}
	for i := range X {
		if len(X[i]) != features {
			return errors.Wrapf(ErrShapeMismatch, "row %d has %d features, expected %d", i, len(X[i]), features)
		}
		if len(Y[i]) != labels {
			return errors.Wrapf(ErrShapeMismatch, "row %d has %d labels, expected %d", i, len(Y[i]), labels)
		}
		for j, v := range X[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrInvalidValue, "feature %d of row %d is %v", j, i, v)
			}
		}
		for j, v := range Y[i] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Wrapf(ErrInvalidValue, "label %d of row %d is %v", j, i, v)
			}
		}
		if m.mode == tree.Classification {
			if labels != 1 {
				return errors.Wrapf(ErrInvalidLabel, "classification expects 1 label per row, got %d", labels)
			}
			if v := Y[i][0]; v < 0 || v != math.Trunc(v) {
				return errors.Wrapf(ErrInvalidLabel, "label of row %d is %v", i, v)
			}
		}
	}
	return nil
}
