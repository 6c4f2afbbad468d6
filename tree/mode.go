package tree

import "fmt"

// Mode tells whether a tree predicts classes or real-valued vectors
type Mode int

const (
	// Classification trees predict the majority class label of their leaves
	Classification Mode = iota
	// Regression trees predict the mean label vector of their leaves
	Regression
)

// ParseMode takes a mode name and returns the corresponding Mode
func ParseMode(s string) (Mode, error) {
	switch s {
	case "classification":
		return Classification, nil
	case "regression":
		return Regression, nil
	}
	return Classification, fmt.Errorf("unknown mode %q", s)
}

func (m Mode) String() string {
	switch m {
	case Classification:
		return "classification"
	case Regression:
		return "regression"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
