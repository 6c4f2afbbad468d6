package tree

import "fmt"

// arena holds the nodes of a tree indexed by their ID.
type arena []*Node

func (a *arena) create(result Prediction, err float64, samples int) *Node {
	n := &Node{
		ID:      len(*a),
		Left:    None,
		Right:   None,
		Result:  result,
		Error:   err,
		Samples: samples,
	}
	*a = append(*a, n)
	return n
}

func (a arena) get(id int) (*Node, error) {
	if id < 0 || id >= len(a) {
		return nil, fmt.Errorf("node %d not found", id)
	}
	return a[id], nil
}
