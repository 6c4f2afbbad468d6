/*
Package feature describes the columns of a dataset: which of them are
features the trees split on and which are labels the trees predict.
*/
package feature

import "fmt"

/*
Schema represents the layout of the columns of a dataset. Features holds
the names of the columns that make up the rows of the feature matrix, in
order, and Labels holds the names of the columns that make up the rows of
the label matrix, in order.
*/
type Schema struct {
	Features []string `yaml:"features"`
	Labels   []string `yaml:"labels"`
}

/*
Validate returns an error if the schema has no features or labels,
or if any column name is empty or used more than once.
*/
func (s *Schema) Validate() error {
	if len(s.Features) == 0 {
		return fmt.Errorf("schema has no features")
	}
	if len(s.Labels) == 0 {
		return fmt.Errorf("schema has no labels")
	}
	seen := make(map[string]bool)
	for _, c := range s.Columns() {
		if c == "" {
			return fmt.Errorf("schema has a column with no name")
		}
		if seen[c] {
			return fmt.Errorf("column %q is declared more than once", c)
		}
		seen[c] = true
	}
	return nil
}

// Columns returns the names of all columns of the schema,
// features first and labels after them.
func (s *Schema) Columns() []string {
	columns := make([]string, 0, len(s.Features)+len(s.Labels))
	columns = append(columns, s.Features...)
	return append(columns, s.Labels...)
}
