package bonsai

// Error represents an error growing, pruning or querying a tree
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrEmptyInput is returned when a dataset has no samples or no features
	ErrEmptyInput = Error("empty input")
	// ErrShapeMismatch is returned when the rows of a feature matrix and its
	// labels do not line up, or rows have different widths
	ErrShapeMismatch = Error("shape mismatch")
	// ErrInvalidValue is returned when a feature or label is not a finite number
	ErrInvalidValue = Error("invalid value")
	// ErrInvalidLabel is returned when classification labels are not single
	// non-negative integers
	ErrInvalidLabel = Error("invalid classification label")
	// ErrNotFitted is returned when predicting or pruning before growing a tree
	ErrNotFitted = Error("model has no tree: call Fit first")
	// ErrUnsupportedCriterion is returned when a split criterion cannot be
	// used with the requested mode
	ErrUnsupportedCriterion = Error("unsupported split criterion")
)
