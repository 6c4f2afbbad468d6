/*
Package pgadapter provides an implementation of the
Adapter interface in the sqldataset package that works
over a PostgreSQL database.
*/
package pgadapter

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/pbanos/bonsai/dataset/sqldataset"
)

type adapter struct {
	db *sql.DB
}

/*
New takes a PostgreSQL database connection URL and returns
an Adapter that works on the database or an error if it fails to connect to it.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return &adapter{db}, nil
}

func (a *adapter) ColumnName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty names cannot be used as column names")
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("name %q contains a NUL character", name)
	}
	return name, nil
}

func (a *adapter) CreateTable(ctx context.Context, table string, columns []string) error {
	var createStmtBuf bytes.Buffer
	createStmtBuf.WriteString("CREATE TABLE IF NOT EXISTS ")
	createStmtBuf.WriteString(pq.QuoteIdentifier(table))
	createStmtBuf.WriteString("(")
	for i, c := range columns {
		if i > 0 {
			createStmtBuf.WriteString(", ")
		}
		createStmtBuf.WriteString(pq.QuoteIdentifier(c))
		createStmtBuf.WriteString(" DOUBLE PRECISION NULL")
	}
	createStmtBuf.WriteString(")")
	_, err := a.db.ExecContext(ctx, createStmtBuf.String())
	if err != nil {
		return fmt.Errorf("ensuring table %s exists: %v", table, err)
	}
	return nil
}

func (a *adapter) AddRows(ctx context.Context, table string, columns []string, rows [][]float64) (int, error) {
	var insertStmtStartBuf bytes.Buffer
	insertStmtStartBuf.WriteString("INSERT INTO ")
	insertStmtStartBuf.WriteString(pq.QuoteIdentifier(table))
	insertStmtStartBuf.WriteString(" (")
	insertStmtStartBuf.WriteString(quoteIdentifiers(columns))
	insertStmtStartBuf.WriteString(") VALUES ")
	var added int
	for added < len(rows) {
		end := added + sqldataset.MaxRowInsertionsPerStatement
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[added:end]
		var insertStmtBuf bytes.Buffer
		insertStmtBuf.WriteString(insertStmtStartBuf.String())
		values := make([]interface{}, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if len(row) != len(columns) {
				return added, fmt.Errorf("row %d has %d values for %d columns", added+i, len(row), len(columns))
			}
			if i > 0 {
				insertStmtBuf.WriteString(", ")
			}
			insertStmtBuf.WriteString("(")
			for j, v := range row {
				if j > 0 {
					insertStmtBuf.WriteString(", ")
				}
				values = append(values, v)
				insertStmtBuf.WriteString(fmt.Sprintf("$%d", len(values)))
			}
			insertStmtBuf.WriteString(")")
		}
		_, err := a.db.ExecContext(ctx, insertStmtBuf.String(), values...)
		if err != nil {
			return added, fmt.Errorf("inserting rows %d to %d: %v", added, end-1, err)
		}
		added = end
	}
	return added, nil
}

func (a *adapter) IterateOnRows(ctx context.Context, table string, columns []string, lambda func(int, []float64) (bool, error)) error {
	query := fmt.Sprintf("SELECT %s FROM %s", quoteIdentifiers(columns), pq.QuoteIdentifier(table))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for i := 0; rows.Next(); i++ {
		nullValues := make([]sql.NullFloat64, len(columns))
		dest := make([]interface{}, len(columns))
		for j := range nullValues {
			dest[j] = &nullValues[j]
		}
		if err = rows.Scan(dest...); err != nil {
			return fmt.Errorf("scanning row %d: %v", i, err)
		}
		values := make([]float64, len(columns))
		for j, v := range nullValues {
			if !v.Valid {
				return fmt.Errorf("scanning row %d: column %s is NULL", i, columns[j])
			}
			values[j] = v.Float64
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

func quoteIdentifiers(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = pq.QuoteIdentifier(n)
	}
	return strings.Join(quoted, ", ")
}
