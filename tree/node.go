package tree

// None is the child index of an absent child
const None = -1

/*
Node is a node of the tree
*/
type Node struct {
	// An ID to identify the node, which is also its
	// position in the tree's arena. IDs follow creation
	// order and are never reused.
	ID int
	// The index of the feature compared against Threshold.
	// Only meaningful for internal nodes.
	Feature int
	// Samples with a value for Feature below Threshold go
	// down the Left subtree, the rest go down the Right one.
	Threshold float64
	// The IDs of the children of the node or None
	Left, Right int
	// The prediction for samples reaching this node were it
	// a leaf: a single class label for classification trees
	// or the mean label vector for regression trees.
	Result Prediction
	// The training error of the node were it a leaf: the
	// number of misclassified samples for classification
	// trees, the sum of squared residuals for regression ones.
	Error float64
	// The number of training samples that reached the node
	Samples int
}

// IsLeaf returns whether the node has no children
func (n *Node) IsLeaf() bool {
	return n.Left == None && n.Right == None
}
