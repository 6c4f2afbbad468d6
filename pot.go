package bonsai

import (
	"math"
	"sort"

	"github.com/pbanos/bonsai/tree"
	"gonum.org/v1/gonum/stat"
)

// Tolerances under which two feature values are considered equal
// when checking whether the samples of a node can be told apart.
const (
	relativeTolerance = 1e-5
	absoluteTolerance = 1e-8
)

/*
pot represents the context in which a tree is grown: the training
data, the way splits are scored and the limits on growth.
*/
type pot struct {
	mode        tree.Mode
	scorer      SplitScorer
	maxDepth    int
	parallelism int
	x, y        [][]float64
}

// task represents a node of the tree still to be developed along
// with the rows of the training data that reach it.
type task struct {
	node  *tree.Node
	rows  []int
	depth int
}

// grow returns a tree grown on the pot's training data.
//
// Nodes are developed depth-first, left subtree first, using a stack
// of pending tasks. Both children of a node are created when it is
// split, so node IDs come out as they would from a recursive
// implementation.
func (p *pot) grow() (*tree.Tree, error) {
	t := tree.New(p.mode, len(p.x[0]))
	rows := make([]int, len(p.x))
	for i := range rows {
		rows[i] = i
	}
	stack := []*task{{node: p.newNode(t, rows), rows: rows}}
	for len(stack) > 0 {
		tk := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		subtasks, err := p.develop(t, tk)
		if err != nil {
			return nil, err
		}
		for i := len(subtasks) - 1; i >= 0; i-- {
			stack = append(stack, subtasks[i])
		}
	}
	return t, nil
}

// develop takes a tree and a task and splits the task's node if
// its rows allow it, returning the tasks for its children.
func (p *pot) develop(t *tree.Tree, tk *task) ([]*task, error) {
	if p.maxDepth > 0 && tk.depth >= p.maxDepth {
		return nil, nil
	}
	if p.homogeneous(tk.rows) || p.indistinguishable(tk.rows) {
		return nil, nil
	}
	part, err := p.bestPartition(tk.rows, entropy(p.labels(tk.rows)))
	if err != nil {
		return nil, err
	}
	if part == nil {
		return nil, nil
	}
	left := p.newNode(t, part.left)
	right := p.newNode(t, part.right)
	if err := t.Split(tk.node.ID, part.Feature, part.Threshold, left.ID, right.ID); err != nil {
		return nil, err
	}
	return []*task{
		{node: left, rows: part.left, depth: tk.depth + 1},
		{node: right, rows: part.right, depth: tk.depth + 1},
	}, nil
}

// newNode creates a node on the tree with the prediction and training
// error for the given rows.
func (p *pot) newNode(t *tree.Tree, rows []int) *tree.Node {
	if p.mode == tree.Regression {
		result, err := p.meanPrediction(rows)
		return t.NewNode(result, err, len(rows))
	}
	result, err := p.majorityPrediction(rows)
	return t.NewNode(result, err, len(rows))
}

// majorityPrediction returns the most frequent class among the rows,
// the smallest one on ties, and the number of rows of other classes.
func (p *pot) majorityPrediction(rows []int) (tree.Prediction, float64) {
	counts := make(map[float64]int)
	for _, r := range rows {
		counts[p.y[r][0]]++
	}
	classes := make([]float64, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Float64s(classes)
	var majority float64
	best := -1
	for _, c := range classes {
		if counts[c] > best {
			majority = c
			best = counts[c]
		}
	}
	return tree.Prediction{majority}, float64(len(rows) - best)
}

// meanPrediction returns the mean label vector of the rows and the sum
// of squared differences between their labels and that mean.
func (p *pot) meanPrediction(rows []int) (tree.Prediction, float64) {
	width := len(p.y[rows[0]])
	mean := make(tree.Prediction, width)
	column := make([]float64, len(rows))
	var sse float64
	for j := 0; j < width; j++ {
		for i, r := range rows {
			column[i] = p.y[r][j]
		}
		mean[j] = stat.Mean(column, nil)
		for _, v := range column {
			sse += (v - mean[j]) * (v - mean[j])
		}
	}
	return mean, sse
}

// homogeneous returns whether all rows have the same labels
func (p *pot) homogeneous(rows []int) bool {
	first := tree.Prediction(p.y[rows[0]])
	for _, r := range rows[1:] {
		if !first.Equal(p.y[r]) {
			return false
		}
	}
	return true
}

// indistinguishable returns whether the features of all rows are
// numerically close to those of the first row.
func (p *pot) indistinguishable(rows []int) bool {
	first := p.x[rows[0]]
	for _, r := range rows[1:] {
		for j, v := range p.x[r] {
			if math.Abs(v-first[j]) > absoluteTolerance+relativeTolerance*math.Abs(first[j]) {
				return false
			}
		}
	}
	return true
}

func (p *pot) labels(rows []int) [][]float64 {
	labels := make([][]float64, len(rows))
	for i, r := range rows {
		labels[i] = p.y[r]
	}
	return labels
}
