/*
Package dataset holds samples as the feature and label matrices trees
are grown, pruned and tested on, laid out according to a feature.Schema.
*/
package dataset

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/pbanos/bonsai/feature"
)

/*
Dataset represents a collection of samples. Every sample is a row of
values for the features of the schema in X and a row of values for its
labels in Y at the same index.
*/
type Dataset struct {
	Schema *feature.Schema
	X      [][]float64
	Y      [][]float64
}

// New takes a schema and returns an empty dataset laid out according to it
func New(schema *feature.Schema) *Dataset {
	return &Dataset{Schema: schema}
}

/*
Add takes a row of feature values and a row of label values and appends
them to the dataset as a new sample, or returns an error if they do not
match the number of features and labels of the schema.
*/
func (d *Dataset) Add(x, y []float64) error {
	if len(x) != len(d.Schema.Features) {
		return fmt.Errorf("sample has %d feature values, schema defines %d features", len(x), len(d.Schema.Features))
	}
	if len(y) != len(d.Schema.Labels) {
		return fmt.Errorf("sample has %d label values, schema defines %d labels", len(y), len(d.Schema.Labels))
	}
	d.X = append(d.X, x)
	d.Y = append(d.Y, y)
	return nil
}

/*
AddRecord takes a map of column names to values and appends a sample
with the values for the columns of the schema, or returns an error if
any of them is missing or is not a finite number.
*/
func (d *Dataset) AddRecord(record map[string]float64) error {
	x, err := pick(record, d.Schema.Features)
	if err != nil {
		return err
	}
	y, err := pick(record, d.Schema.Labels)
	if err != nil {
		return err
	}
	return d.Add(x, y)
}

// Count returns the number of samples in the dataset
func (d *Dataset) Count() int {
	return len(d.X)
}

// Record returns the values of the i-th sample by column name
func (d *Dataset) Record(i int) map[string]float64 {
	record := make(map[string]float64)
	for j, c := range d.Schema.Features {
		record[c] = d.X[i][j]
	}
	for j, c := range d.Schema.Labels {
		record[c] = d.Y[i][j]
	}
	return record
}

/*
Split takes a probability and a source of randomness and divides the
samples of the dataset between two new datasets with the same schema:
every sample goes to the second one with the given probability and to
the first one otherwise. Samples keep their relative order.
*/
func (d *Dataset) Split(probability float64, r *rand.Rand) (*Dataset, *Dataset) {
	kept, split := New(d.Schema), New(d.Schema)
	for i := range d.X {
		target := kept
		if r.Float64() < probability {
			target = split
		}
		target.X = append(target.X, d.X[i])
		target.Y = append(target.Y, d.Y[i])
	}
	return kept, split
}

func pick(record map[string]float64, columns []string) ([]float64, error) {
	values := make([]float64, len(columns))
	for i, c := range columns {
		v, ok := record[c]
		if !ok {
			return nil, fmt.Errorf("sample has no value for column %q", c)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("sample has a non-finite value %v for column %q", v, c)
		}
		values[i] = v
	}
	return values, nil
}
