package tree

import (
	"fmt"
	"strings"
)

/*
Prediction represents a prediction made by a decision Tree: a
single class label for classification trees or a vector of
label means for regression trees.
*/
type Prediction []float64

// PredictionError represents an error related with predictions
type PredictionError string

/*
ErrCannotPredictFromSample is the error returned by the Predict method of a tree
when the sample lacks a value for a feature some node on its path compares.
*/
const ErrCannotPredictFromSample = PredictionError("no prediction available for this kind of sample")

/*
ErrCannotPredictFromEmptyTree is the error returned when trying to predict
with a tree that has not been grown.
*/
const ErrCannotPredictFromEmptyTree = PredictionError("cannot make prediction with an empty tree")

func (pe PredictionError) Error() string {
	return string(pe)
}

// Class returns the class label of a classification prediction
func (p Prediction) Class() int {
	if len(p) == 0 {
		return 0
	}
	return int(p[0])
}

// Equal returns whether both predictions hold exactly the same values
func (p Prediction) Equal(o Prediction) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// Copy returns a copy of the prediction values
func (p Prediction) Copy() []float64 {
	return append([]float64(nil), p...)
}

func (p Prediction) String() string {
	if len(p) == 1 {
		return fmt.Sprintf("%g", p[0])
	}
	values := make([]string, len(p))
	for i, v := range p {
		values[i] = fmt.Sprintf("%g", v)
	}
	return "(" + strings.Join(values, ", ") + ")"
}
