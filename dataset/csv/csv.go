/*
Package csv reads datasets from CSV streams and writes them back.

The header or first row of a CSV stream names its columns and every other
row holds the values of a sample for them, as numbers.
*/
package csv

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
	"github.com/pkg/errors"
)

/*
Writer is a dataset to which samples can be written as CSV rows
*/
type Writer struct {
	count  int
	schema *feature.Schema
	w      *csv.Writer
}

/*
ReadDataset takes an io.Reader for a CSV stream and a schema and returns
the dataset with the samples parsed from the reader or an error.

The header must name every column in the schema, in any order. Columns
not in the schema are ignored. Every value of a column in the schema must
parse as a finite number.
*/
func ReadDataset(reader io.Reader, schema *feature.Schema) (*dataset.Dataset, error) {
	d := dataset.New(schema)
	err := ReadDatasetBySample(reader, schema, func(_ int, x, y []float64) (bool, error) {
		return true, d.Add(x, y)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

/*
ReadDatasetBySample takes an io.Reader for a CSV stream, a schema and a
lambda function on an integer and the feature and label values of a sample
that returns a boolean value. It parses the samples from the reader and for
each it calls the lambda function with the sample values and its index as
parameters. If the lambda function returns true, it will continue processing
the next sample, otherwise it will stop. An error is returned if something
goes wrong when reading the stream or parsing a sample.
*/
func ReadDatasetBySample(reader io.Reader, schema *feature.Schema, lambda func(int, []float64, []float64) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}
	featureColumns, err := columnIndexes(header, schema.Features)
	if err != nil {
		return err
	}
	labelColumns, err := columnIndexes(header, schema.Labels)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "reading body")
		}
		x, err := parseValues(row, featureColumns, header)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", l)
		}
		y, err := parseValues(row, labelColumns, header)
		if err != nil {
			return errors.Wrapf(err, "parsing line %d", l)
		}
		ok, err := lambda(l-2, x, y)
		if err != nil {
			return errors.Wrapf(err, "processing line %d", l)
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string and a schema, opens the file
to which the filepath points to and uses ReadDataset to return the dataset
read from it or an error. If the filepath is "" os.Stdin is read instead.
*/
func ReadDatasetFromFilePath(filepath string, schema *feature.Schema) (*dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, errors.Wrap(err, "opening dataset")
		}
		defer f.Close()
	}
	d, err := ReadDataset(f, schema)
	if err != nil {
		err = errors.Wrapf(err, "parsing CSV file %s", filepath)
	}
	return d, err
}

/*
NewWriter takes an io.Writer and a schema and returns a Writer that will
write samples on the io.Writer, after writing a header with the columns of
the schema.
*/
func NewWriter(writer io.Writer, schema *feature.Schema) (*Writer, error) {
	w := csv.NewWriter(writer)
	err := w.Write(schema.Columns())
	if err != nil {
		return nil, errors.Wrap(err, "writing CSV header")
	}
	return &Writer{schema: schema, w: w}, nil
}

/*
WriteDataset takes a writer and a dataset and dumps to the writer the
dataset in CSV format. It returns an error if something went wrong when
writing to the writer.
*/
func WriteDataset(writer io.Writer, d *dataset.Dataset) error {
	cw, err := NewWriter(writer, d.Schema)
	if err != nil {
		return err
	}
	for i := range d.X {
		if err = cw.Write(d.X[i], d.Y[i]); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// Count returns the total number of samples written to the writer
func (cw *Writer) Count() int {
	return cw.count
}

// Write takes the feature and label values of a sample and writes them
// as a CSV row.
func (cw *Writer) Write(x, y []float64) error {
	record := make([]string, 0, len(x)+len(y))
	for _, v := range x {
		record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
	}
	for _, v := range y {
		record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
	}
	err := cw.w.Write(record)
	if err != nil {
		return errors.Wrapf(err, "writing CSV row for sample %d", cw.count+1)
	}
	cw.count++
	return nil
}

// Flush ensures any pending writes reach the underlying io.Writer
func (cw *Writer) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}

func columnIndexes(header, columns []string) ([]int, error) {
	positions := make(map[string]int)
	for i, name := range header {
		positions[name] = i
	}
	indexes := make([]int, len(columns))
	for i, c := range columns {
		p, ok := positions[c]
		if !ok {
			return nil, errors.Errorf("parsing header: column %q not found", c)
		}
		indexes[i] = p
	}
	return indexes, nil
}

func parseValues(row []string, indexes []int, header []string) ([]float64, error) {
	values := make([]float64, len(indexes))
	for i, idx := range indexes {
		v, err := strconv.ParseFloat(row[idx], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "converting value of column %q", header[idx])
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Errorf("value of column %q is not finite", header[idx])
		}
		values[i] = v
	}
	return values, nil
}
