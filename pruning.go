package bonsai

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/pbanos/bonsai/metrics"
	"github.com/pbanos/bonsai/tree"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

/*
PruneReport describes the outcome of pruning a tree:
  * Sequence holds the IDs of the internal nodes of the tree in the order
    weakest-link pruning collapses them
  * Accuracies holds the validation accuracy of the tree with the first i
    nodes of the sequence pruned, for i from 0 to len(Sequence)
  * Selected is the number of nodes of the sequence that ended up pruned
*/
type PruneReport struct {
	Sequence   []int
	Accuracies []float64
	Selected   int
}

// Pruned returns the IDs of the nodes that ended up pruned
func (pr *PruneReport) Pruned() []int {
	return pr.Sequence[:pr.Selected]
}

// Accuracy returns the validation accuracy of the selected pruned tree
func (pr *PruneReport) Accuracy() float64 {
	return pr.Accuracies[pr.Selected]
}

/*
Prune takes a validation feature matrix X and label matrix Y and prunes
the tree of the model, returning a report of the process or an error.

The weakest-link sequence of the tree is computed with PruneSequence, then
every prefix of the sequence is tried as the set of pruned nodes of the tree
and rated with the model's accuracy function on the validation data. The
longest prefix among those achieving the best accuracy is kept as the pruned
nodes of the tree, replacing any previous ones, so ties favor smaller trees.
*/
func (m *Model) Prune(X, Y [][]float64) (*PruneReport, error) {
	if m.tree == nil || m.tree.Root() == nil {
		return nil, ErrNotFitted
	}
	if err := m.validate(X, Y, m.tree.Features); err != nil {
		return nil, errors.Wrap(err, "validating pruning data")
	}
	sequence := PruneSequence(m.tree)
	previous := m.tree.Pruned()
	report := &PruneReport{
		Sequence:   sequence,
		Accuracies: make([]float64, len(sequence)+1),
	}
	for i := range report.Accuracies {
		if err := m.tree.SetPruned(sequence[:i]); err != nil {
			return nil, err
		}
		yPred, err := m.predict(X)
		if err != nil {
			m.tree.SetPruned(previous)
			return nil, err
		}
		report.Accuracies[i] = m.accuracy(Y, yPred)
	}
	report.Selected = len(sequence)
	for i := len(sequence) - 1; i >= 0; i-- {
		if report.Accuracies[i] > report.Accuracies[report.Selected] {
			report.Selected = i
		}
	}
	if err := m.tree.SetPruned(report.Pruned()); err != nil {
		return nil, err
	}
	metrics.RecordPrune(m.mode.String(), len(sequence), report.Selected, report.Accuracy())
	m.logger.WithFields(logrus.Fields{
		"sequence":  len(sequence),
		"pruned":    report.Selected,
		"accuracy":  report.Accuracy(),
		"reachable": m.tree.Reachable(),
	}).Debug("tree pruned")
	return report, nil
}

// weakLink holds the pruning cost of an internal node and the number
// of leaves under it.
type weakLink struct {
	id     int
	cost   float64
	leaves int
}

/*
PruneSequence takes a tree and returns the IDs of its internal nodes in the
order in which weakest-link cost-complexity pruning would collapse them into
leaves, ignoring the tree's current pruned nodes.

At every step the cost of every internal node v that is still reachable is

	(Error(v) - LeavesError(v)) / (Leaves(v) - 1)

where Leaves(v) is the number of leaves under v and LeavesError(v) the sum of
their errors, nodes already in the sequence counting as leaves. The node with
the lowest cost is appended to the sequence, ties going to the one with fewer
leaves and then to the first one in pre-order. The sequence is complete when
no internal node remains.
*/
func PruneSequence(t *tree.Tree) []int {
	var sequence []int
	pruned := bitset.New(uint(t.Len()))
	for {
		links := weakLinks(t, pruned)
		if len(links) == 0 {
			return sequence
		}
		weakest := links[0]
		for _, l := range links[1:] {
			if l.cost < weakest.cost || (l.cost == weakest.cost && l.leaves < weakest.leaves) {
				weakest = l
			}
		}
		sequence = append(sequence, weakest.id)
		pruned.Set(uint(weakest.id))
	}
}

// weakLinks returns the weak links of the internal nodes reachable on the
// tree given a set of pruned nodes, in pre-order.
func weakLinks(t *tree.Tree, pruned *bitset.BitSet) []weakLink {
	root := t.Root()
	if root == nil {
		return nil
	}
	terminal := func(n *tree.Node) bool {
		return n.IsLeaf() || pruned.Test(uint(n.ID))
	}
	var order []*tree.Node
	stack := []*tree.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		if !terminal(n) {
			left, _ := t.Node(n.Left)
			right, _ := t.Node(n.Right)
			stack = append(stack, right, left)
		}
	}
	leaves := make([]int, t.Len())
	leavesError := make([]float64, t.Len())
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if terminal(n) {
			leaves[n.ID] = 1
			leavesError[n.ID] = n.Error
			continue
		}
		leaves[n.ID] = leaves[n.Left] + leaves[n.Right]
		leavesError[n.ID] = leavesError[n.Left] + leavesError[n.Right]
	}
	var links []weakLink
	for _, n := range order {
		if terminal(n) {
			continue
		}
		links = append(links, weakLink{
			id:     n.ID,
			cost:   (n.Error - leavesError[n.ID]) / float64(leaves[n.ID]-1),
			leaves: leaves[n.ID],
		})
	}
	return links
}
