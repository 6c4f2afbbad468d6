package tree

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Tree represents a binary decision tree. Its nodes are kept
// in an arena indexed by node ID with the root at ID 0.
//
// Besides its nodes, a tree holds a set of pruned node IDs:
// pruned nodes are treated as leaves when traversing the tree,
// while their descendants remain in the arena untouched.
type Tree struct {
	// Mode tells whether the tree predicts classes or vectors
	Mode Mode
	// Features is the number of values samples are expected to
	// have, that is, the width of the rows the tree was grown on.
	Features int
	nodes    arena
	pruned   *bitset.BitSet
	// IDs of the nodes that are already the child of another
	parented *bitset.BitSet
	// pruned IDs in the order they were given
	prunedIDs []int
}

// New takes a mode and a number of features and returns an
// empty tree ready to be grown.
func New(mode Mode, features int) *Tree {
	return &Tree{Mode: mode, Features: features, pruned: bitset.New(0), parented: bitset.New(0)}
}

// NewNode takes a prediction, its training error and the number of
// samples it was computed from, and returns a new leaf node in the tree
// with the next available ID.
func (t *Tree) NewNode(result Prediction, err float64, samples int) *Node {
	return t.nodes.create(result, err, samples)
}

// Split takes the ID of a leaf node, a feature index, a threshold and
// the IDs of two other nodes in the tree and turns the leaf into an
// internal node that sends samples with a value for the feature below
// the threshold to left and the rest to right.
func (t *Tree) Split(id, feature int, threshold float64, left, right int) error {
	n, err := t.nodes.get(id)
	if err != nil {
		return fmt.Errorf("splitting node: %v", err)
	}
	if !n.IsLeaf() {
		return fmt.Errorf("splitting node %d: node is already split", id)
	}
	for _, c := range []int{left, right} {
		if c <= id {
			return fmt.Errorf("splitting node %d: child %d must be created after its parent", id, c)
		}
		if _, err = t.nodes.get(c); err != nil {
			return fmt.Errorf("splitting node %d: %v", id, err)
		}
		if t.parented.Test(uint(c)) {
			return fmt.Errorf("splitting node %d: node %d is already the child of another node", id, c)
		}
	}
	if left == right {
		return fmt.Errorf("splitting node %d: children must be different nodes", id)
	}
	if feature < 0 || feature >= t.Features {
		return fmt.Errorf("splitting node %d: feature %d out of range [0, %d)", id, feature, t.Features)
	}
	n.Feature = feature
	n.Threshold = threshold
	n.Left = left
	n.Right = right
	t.parented.Set(uint(left))
	t.parented.Set(uint(right))
	return nil
}

// Detached returns the IDs of the nodes other than the root that are
// not the child of any node, in increasing order.
func (t *Tree) Detached() []int {
	var ids []int
	for id := 1; id < t.Len(); id++ {
		if !t.parented.Test(uint(id)) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Root returns the root node of the tree or nil if the tree is empty
func (t *Tree) Root() *Node {
	if t == nil || len(t.nodes) == 0 {
		return nil
	}
	return t.nodes[0]
}

// Node takes an ID and returns the node in the tree with that ID
// or an error if there is no such node.
func (t *Tree) Node(id int) (*Node, error) {
	return t.nodes.get(id)
}

// Len returns the total number of nodes in the tree, pruned
// or unreachable ones included.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// SetPruned takes a slice of node IDs and makes them the set of
// pruned nodes of the tree, replacing any previous one. It returns
// an error, leaving the previous set in place, if any of the IDs
// does not belong to a node in the tree.
func (t *Tree) SetPruned(ids []int) error {
	pruned := bitset.New(uint(len(t.nodes)))
	for _, id := range ids {
		if _, err := t.nodes.get(id); err != nil {
			return fmt.Errorf("setting pruned nodes: %v", err)
		}
		pruned.Set(uint(id))
	}
	t.pruned = pruned
	t.prunedIDs = append([]int(nil), ids...)
	return nil
}

// Pruned returns the IDs of the pruned nodes of the tree
func (t *Tree) Pruned() []int {
	return append([]int(nil), t.prunedIDs...)
}

// IsPruned takes a node ID and returns whether it is pruned
func (t *Tree) IsPruned(id int) bool {
	return id >= 0 && t.pruned != nil && t.pruned.Test(uint(id))
}

// isTerminal returns whether traversals stop at the given node
func (t *Tree) isTerminal(n *Node) bool {
	return n.IsLeaf() || t.IsPruned(n.ID)
}

// Predict takes a sample and returns a prediction according to the tree
// and its pruned nodes, or an error if the prediction could not be made.
func (t *Tree) Predict(sample []float64) (Prediction, error) {
	n := t.Root()
	if n == nil {
		return nil, ErrCannotPredictFromEmptyTree
	}
	for !t.isTerminal(n) {
		if n.Feature >= len(sample) {
			return nil, ErrCannotPredictFromSample
		}
		if sample[n.Feature] < n.Threshold {
			n = t.nodes[n.Left]
		} else {
			n = t.nodes[n.Right]
		}
	}
	return n.Result, nil
}

// Traverse takes a bottomup boolean and an error-returning function
// that takes a node as parameter, and goes through the nodes reachable
// from the root given the pruned nodes of the tree, running the function
// with every one of them. Pruned nodes are visited, their descendants are not.
// Traverse will call the function with a parent node before calling it
// for its children if bottomup is false, and call it after its children
// if bottomup is true. Left subtrees are visited before right ones
// when bottomup is false.
// If the call to the function returns an error, the traversing is
// aborted and the error is returned.
func (t *Tree) Traverse(bottomup bool, f func(*Node) error) error {
	order := t.preorder()
	if bottomup {
		for i := len(order) - 1; i >= 0; i-- {
			if err := f(order[i]); err != nil {
				return err
			}
		}
		return nil
	}
	for _, n := range order {
		if err := f(n); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tree) preorder() []*Node {
	root := t.Root()
	if root == nil {
		return nil
	}
	var order []*Node
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, n)
		if !t.isTerminal(n) {
			stack = append(stack, t.nodes[n.Right], t.nodes[n.Left])
		}
	}
	return order
}

// Reachable returns the number of nodes that can be reached from
// the root of the tree given its pruned nodes.
func (t *Tree) Reachable() int {
	return len(t.preorder())
}

// Leaves returns the number of nodes at which predictions end
// given the pruned nodes of the tree.
func (t *Tree) Leaves() int {
	var count int
	for _, n := range t.preorder() {
		if t.isTerminal(n) {
			count++
		}
	}
	return count
}

func (t *Tree) String() string {
	root := t.Root()
	if root == nil {
		return "[empty tree]\n"
	}
	type line struct {
		n      *Node
		indent string
		branch string
	}
	var b strings.Builder
	stack := []line{{n: root}}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		b.WriteString(l.indent + l.branch + t.nodeString(l.n) + "\n")
		if t.isTerminal(l.n) {
			continue
		}
		indent := l.indent
		switch l.branch {
		case "|__":
			indent += "|  "
		case "`__":
			indent += "   "
		}
		stack = append(stack,
			line{t.nodes[l.n.Right], indent, "`__"},
			line{t.nodes[l.n.Left], indent, "|__"},
		)
	}
	return b.String()
}

func (t *Tree) nodeString(n *Node) string {
	result := fmt.Sprintf("[%d] { %v } (samples=%d, error=%g)", n.ID, n.Result, n.Samples, n.Error)
	if t.IsPruned(n.ID) && !n.IsLeaf() {
		return result + " (pruned)"
	}
	if !n.IsLeaf() {
		result = fmt.Sprintf("%s x[%d] < %g", result, n.Feature, n.Threshold)
	}
	return result
}
