/*
Package sqlite3adapter provides an implementation of the
Adapter interface in the sqldataset package that works
over an SQLite3 database file.
*/
package sqlite3adapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Import of sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbanos/bonsai/dataset/sqldataset"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a path to an SQLite3 database file and a maximum number of open
connections (0 meaning no limit) and returns an Adapter that works on the
file's database or an error if it fails to open as an sqlite3 database.
*/
func New(path string, maxConns int) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxConns)
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty names cannot be used as column names")
	}
	if strings.ContainsAny(name, `"`) {
		return "", fmt.Errorf(`name '%s' contains invalid character '"'`, name)
	}
	return name, nil
}

func (a *adapter) CreateTable(ctx context.Context, table string, columns []string) error {
	var createStmtBuf bytes.Buffer
	table, err := a.ColumnName(table)
	if err != nil {
		return err
	}
	createStmtBuf.WriteString(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS "%s"(`, table))
	for i, c := range columns {
		if i > 0 {
			createStmtBuf.WriteString(", ")
		}
		createStmtBuf.WriteString(fmt.Sprintf(`"%s" REAL NULL`, c))
	}
	createStmtBuf.WriteString(")")
	_, err = a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring table %s exists: %v", table, err)
	}
	return nil
}

func (a *adapter) AddRows(ctx context.Context, table string, columns []string, rows [][]float64) (int, error) {
	table, err := a.ColumnName(table)
	if err != nil {
		return 0, err
	}
	var insertStmtStartBuf bytes.Buffer
	insertStmtStartBuf.WriteString(fmt.Sprintf(`INSERT INTO "%s" ("`, table))
	insertStmtStartBuf.WriteString(strings.Join(columns, `", "`))
	insertStmtStartBuf.WriteString(`") VALUES `)
	rowPlaceholders := "(?" + strings.Repeat(", ?", len(columns)-1) + ")"
	var added int
	for added < len(rows) {
		end := added + sqldataset.MaxRowInsertionsPerStatement
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[added:end]
		placeholders := make([]string, len(chunk))
		values := make([]interface{}, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if len(row) != len(columns) {
				return added, fmt.Errorf("row %d has %d values for %d columns", added+i, len(row), len(columns))
			}
			placeholders[i] = rowPlaceholders
			for _, v := range row {
				values = append(values, v)
			}
		}
		_, err = a.db.ExecContext(ctx, insertStmtStartBuf.String()+strings.Join(placeholders, ", "), values...)
		if err != nil {
			return added, fmt.Errorf("inserting rows %d to %d: %v", added, end-1, err)
		}
		added = end
	}
	return added, nil
}

func (a *adapter) IterateOnRows(ctx context.Context, table string, columns []string, lambda func(int, []float64) (bool, error)) error {
	table, err := a.ColumnName(table)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`SELECT "%s" FROM "%s"`, strings.Join(columns, `", "`), table)
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		values, err := scanRow(rows, columns)
		if err != nil {
			return fmt.Errorf("scanning row %d: %v", i, err)
		}
		ok, err := lambda(i, values)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	return rows.Err()
}

func (a *adapter) Close() error {
	return a.db.Close()
}

func scanRow(rows *sql.Rows, columns []string) ([]float64, error) {
	nullValues := make([]sql.NullFloat64, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range nullValues {
		dest[i] = &nullValues[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	values := make([]float64, len(columns))
	for i, v := range nullValues {
		if !v.Valid {
			return nil, fmt.Errorf("column %s is NULL", columns[i])
		}
		values[i] = v.Float64
	}
	return values, nil
}
