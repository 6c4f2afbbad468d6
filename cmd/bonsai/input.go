package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/dataset/csv"
	"github.com/pbanos/bonsai/dataset/mongodataset"
	"github.com/pbanos/bonsai/dataset/sqldataset"
	"github.com/pbanos/bonsai/dataset/sqldataset/pgadapter"
	"github.com/pbanos/bonsai/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/bonsai/feature"
	"github.com/pbanos/bonsai/feature/yaml"
	mgo "gopkg.in/mgo.v2"
)

const inputFlagUsage = "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL with the data to use (defaults to STDIN, interpreted as CSV)"

// dataConfig holds the flags that locate a dataset
type dataConfig struct {
	*rootCmdConfig
	metadataInput string
	table         string
	maxDBConns    int
}

func (dc *dataConfig) readSchema() (*feature.Schema, error) {
	dc.Logf("Reading schema from metadata at %s...", dc.metadataInput)
	return yaml.ReadSchemaFromFile(dc.metadataInput)
}

/*
readDataset takes a context, the location of a dataset and a schema and
reads the dataset from it: CSV files or STDIN, SQLite3 files, PostgreSQL
tables or MongoDB collections.
*/
func (dc *dataConfig) readDataset(ctx context.Context, input string, schema *feature.Schema) (*dataset.Dataset, error) {
	switch {
	case strings.HasPrefix(input, "postgresql://") || strings.HasPrefix(input, "postgres://"):
		dc.Logf("Creating PostgreSQL adapter for url %s to read table %s...", input, dc.table)
		adapter, err := pgadapter.New(input)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.Read(ctx, adapter, dc.table, schema)
	case strings.HasPrefix(input, "mongodb://"):
		dc.Logf("Connecting to MongoDB at %s to read collection %s...", input, dc.table)
		session, err := mgo.Dial(input)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		return mongodataset.Read(ctx, session, dc.table, schema)
	case strings.HasSuffix(input, ".db"):
		dc.Logf("Creating SQLite3 adapter for file %s to read table %s...", input, dc.table)
		adapter, err := sqlite3adapter.New(input, dc.maxDBConns)
		if err != nil {
			return nil, err
		}
		defer adapter.Close()
		return sqldataset.Read(ctx, adapter, dc.table, schema)
	}
	if input == "" {
		dc.Logf("Reading dataset from STDIN...")
	} else {
		dc.Logf("Reading dataset from %s...", input)
	}
	return csv.ReadDatasetFromFilePath(input, schema)
}

/*
writeDataset takes a context, the location for a dataset and a dataset and
writes the dataset to it, in any of the formats readDataset supports. An
empty location means STDOUT, as CSV.
*/
func (dc *dataConfig) writeDataset(ctx context.Context, output string, d *dataset.Dataset) error {
	switch {
	case strings.HasPrefix(output, "postgresql://") || strings.HasPrefix(output, "postgres://"):
		dc.Logf("Creating PostgreSQL adapter for url %s to write table %s...", output, dc.table)
		adapter, err := pgadapter.New(output)
		if err != nil {
			return err
		}
		defer adapter.Close()
		_, err = sqldataset.Write(ctx, adapter, dc.table, d)
		return err
	case strings.HasPrefix(output, "mongodb://"):
		dc.Logf("Connecting to MongoDB at %s to write collection %s...", output, dc.table)
		session, err := mgo.Dial(output)
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		_, err = mongodataset.Write(ctx, session, dc.table, d)
		return err
	case strings.HasSuffix(output, ".db"):
		dc.Logf("Creating SQLite3 adapter for file %s to write table %s...", output, dc.table)
		adapter, err := sqlite3adapter.New(output, dc.maxDBConns)
		if err != nil {
			return err
		}
		defer adapter.Close()
		_, err = sqldataset.Write(ctx, adapter, dc.table, d)
		return err
	}
	if output == "" {
		return csv.WriteDataset(os.Stdout, d)
	}
	dc.Logf("Creating %s to write dataset...", output)
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	return csv.WriteDataset(f, d)
}

func (dc *dataConfig) Validate() error {
	if dc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	if dc.table == "" {
		return fmt.Errorf("table flag cannot be empty")
	}
	if dc.maxDBConns < 0 {
		return fmt.Errorf("max-db-conns flag cannot be negative")
	}
	return nil
}
