/*
Package evaluation provides functions to measure how well
predictions match expected labels.
*/
package evaluation

import "gonum.org/v1/gonum/floats"

/*
Accuracy takes a slice of expected label rows and a slice of predicted
label rows and returns the fraction of rows whose prediction matches the
expected labels exactly. It returns 0 when there are no rows to compare.
Rows beyond the length of the shorter slice count as mismatches.
*/
func Accuracy(yTrue, yPred [][]float64) float64 {
	n := len(yTrue)
	if len(yPred) > n {
		n = len(yPred)
	}
	if n == 0 {
		return 0
	}
	var matches int
	for i := 0; i < len(yTrue) && i < len(yPred); i++ {
		if floats.Equal(yTrue[i], yPred[i]) {
			matches++
		}
	}
	return float64(matches) / float64(n)
}

/*
MeanSquaredError takes a slice of expected label rows and a slice of
predicted label rows of the same length and returns the mean over rows
of the sum of squared differences between expected and predicted values.
*/
func MeanSquaredError(yTrue, yPred [][]float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	var sse float64
	for i := 0; i < len(yTrue) && i < len(yPred); i++ {
		for j := 0; j < len(yTrue[i]) && j < len(yPred[i]); j++ {
			d := yTrue[i][j] - yPred[i][j]
			sse += d * d
		}
	}
	return sse / float64(len(yTrue))
}
