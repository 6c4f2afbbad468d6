package json

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/bonsai/tree"
)

type node struct {
	ID        int             `json:"id"`
	Feature   int             `json:"f,omitempty"`
	Threshold float64         `json:"t,omitempty"`
	Left      *int            `json:"l,omitempty"`
	Right     *int            `json:"r,omitempty"`
	Result    tree.Prediction `json:"res"`
	Error     float64         `json:"err"`
	Samples   int             `json:"n"`
}

/*
WriteJSONTree takes a pointer to a tree.Tree and an io.Writer and
serializes the given tree as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
* "mode": a string with the mode of the tree
* "features": the number of features of the samples the tree predicts
* "pruned": an array with the IDs of the pruned nodes of the tree
* "nodes": an array containing every node in the tree, pruned or
  unreachable ones included, in ID order.
A node is serialized as a JSON object with the following fields:
* "id": the ID of the node
* "f", "t", "l" and "r": the feature, threshold and children IDs
  of internal nodes, absent on leaves
* "res": an array with the prediction of the node
* "err": the training error of the node
* "n": the number of training samples that reached the node
An error is returned if the tree cannot be serialized or written
onto the io.Writer.
*/
func WriteJSONTree(w io.Writer, t *tree.Tree) error {
	err := marshalJSONTreeHeader(t, w)
	if err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		n, err := t.Node(i)
		if err != nil {
			return err
		}
		if err = writeNode(i, n, w); err != nil {
			return err
		}
	}
	return marshalJSONTreeFooter(w)
}

/*
ReadJSONTree takes an io.Reader and unmarshals its contents into a new
tree, which is returned. The contents are expected to be a tree
serialized by WriteJSONTree. An error is returned if the JSON cannot be
read from the io.Reader or does not describe a valid tree.
*/
func ReadJSONTree(r io.Reader) (*tree.Tree, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		Mode     string  `json:"mode"`
		Features int     `json:"features"`
		Pruned   []int   `json:"pruned"`
		Nodes    []*node `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return nil, err
	}
	mode, err := tree.ParseMode(jt.Mode)
	if err != nil {
		return nil, err
	}
	if jt.Features <= 0 {
		return nil, fmt.Errorf("invalid number of features %d", jt.Features)
	}
	t := tree.New(mode, jt.Features)
	for i, jn := range jt.Nodes {
		if jn == nil || jn.ID != i {
			return nil, fmt.Errorf("unmarshalling node %d: nodes must be listed in ID order", i)
		}
		if len(jn.Result) == 0 {
			return nil, fmt.Errorf("unmarshalling node %d: no prediction", i)
		}
		t.NewNode(jn.Result, jn.Error, jn.Samples)
	}
	for _, jn := range jt.Nodes {
		if jn.Left == nil && jn.Right == nil {
			continue
		}
		if jn.Left == nil || jn.Right == nil {
			return nil, fmt.Errorf("unmarshalling node %d: internal nodes need both children", jn.ID)
		}
		err = t.Split(jn.ID, jn.Feature, jn.Threshold, *jn.Left, *jn.Right)
		if err != nil {
			return nil, err
		}
	}
	if detached := t.Detached(); len(detached) > 0 {
		return nil, fmt.Errorf("unmarshalling tree: nodes %v are not reachable from the root", detached)
	}
	if err = t.SetPruned(jt.Pruned); err != nil {
		return nil, err
	}
	return t, nil
}

func marshalJSONTreeHeader(t *tree.Tree, w io.Writer) error {
	jPruned, err := json.Marshal(t.Pruned())
	if err != nil {
		return err
	}
	if string(jPruned) == "null" {
		jPruned = []byte("[]")
	}
	header := fmt.Sprintf(`{"mode":%q,"features":%d,"pruned":%s,"nodes":[`, t.Mode, t.Features, jPruned)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(i int, n *tree.Node, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn := &node{
		ID:      n.ID,
		Result:  n.Result,
		Error:   n.Error,
		Samples: n.Samples,
	}
	if !n.IsLeaf() {
		left, right := n.Left, n.Right
		jn.Feature = n.Feature
		jn.Threshold = n.Threshold
		jn.Left = &left
		jn.Right = &right
	}
	b, err := json.Marshal(jn)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func marshalJSONTreeFooter(w io.Writer) error {
	_, err := w.Write([]byte(`]}`))
	return err
}
