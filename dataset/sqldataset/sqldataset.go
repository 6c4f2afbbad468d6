/*
Package sqldataset reads datasets from tables of SQL databases and
writes them back.

A table holds a sample per row and a column per feature or label of the
schema, with the same names. Access to the database goes through an
Adapter, so that the package can work over different database engines.
*/
package sqldataset

import (
	"context"
	"fmt"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
	"github.com/pkg/errors"
)

/*
Adapter is an interface providing the methods needed to read and
write datasets on a database.

ColumnName takes the name of a feature or label and returns the name of the
column holding it, or an error if the name cannot be used as a column name.

CreateTable ensures a table with a REAL column for each given column exists.

AddRows inserts the given rows of values for the columns into the table and
returns how many were inserted.

IterateOnRows queries the values of the columns for every row of the table
and calls the lambda with the index and values of each row, in the order the
database returns them, until it returns false or an error. NULL values are
an error.
*/
type Adapter interface {
	ColumnName(string) (string, error)
	CreateTable(ctx context.Context, table string, columns []string) error
	AddRows(ctx context.Context, table string, columns []string, rows [][]float64) (int, error)
	IterateOnRows(ctx context.Context, table string, columns []string, lambda func(int, []float64) (bool, error)) error
	Close() error
}

// MaxRowInsertionsPerStatement is the maximum number of rows adapters
// insert with a single command. Adding more results in more commands.
const MaxRowInsertionsPerStatement = 10

/*
Read takes a context, an adapter, a table name and a schema and returns
a dataset with the samples in the table, or an error if the table cannot
be read or lacks values for any column in the schema.
*/
func Read(ctx context.Context, a Adapter, table string, schema *feature.Schema) (*dataset.Dataset, error) {
	columns, err := columnNames(a, schema.Columns())
	if err != nil {
		return nil, err
	}
	d := dataset.New(schema)
	features := len(schema.Features)
	err = a.IterateOnRows(ctx, table, columns, func(i int, values []float64) (bool, error) {
		x := append([]float64(nil), values[:features]...)
		y := append([]float64(nil), values[features:]...)
		if err := d.Add(x, y); err != nil {
			return false, errors.Wrapf(err, "adding row %d", i)
		}
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading table %s", table)
	}
	return d, nil
}

/*
Write takes a context, an adapter, a table name and a dataset and stores
the samples of the dataset on the table, creating it if it does not exist.
It returns the number of samples written and an error if not all of them
could be written.
*/
func Write(ctx context.Context, a Adapter, table string, d *dataset.Dataset) (int, error) {
	columns, err := columnNames(a, d.Schema.Columns())
	if err != nil {
		return 0, err
	}
	if err = a.CreateTable(ctx, table, columns); err != nil {
		return 0, errors.Wrapf(err, "creating table %s", table)
	}
	rows := make([][]float64, d.Count())
	for i := range rows {
		rows[i] = make([]float64, 0, len(columns))
		rows[i] = append(rows[i], d.X[i]...)
		rows[i] = append(rows[i], d.Y[i]...)
	}
	n, err := a.AddRows(ctx, table, columns, rows)
	if err != nil {
		return n, errors.Wrapf(err, "writing table %s", table)
	}
	return n, nil
}

func columnNames(a Adapter, names []string) ([]string, error) {
	columns := make([]string, len(names))
	for i, name := range names {
		c, err := a.ColumnName(name)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns to access")
	}
	return columns, nil
}
