package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

type datasetCmdConfig struct {
	dataConfig
	dataInput string
	output    string
}

func datasetCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &datasetCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Copy sets of data",
		Long:  `Copy a set of data from one location to another, converting between CSV files, SQLite3 files, PostgreSQL tables and MongoDB collections`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(1)
			}
			ctx := context.Background()
			schema, err := config.readSchema()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(2)
			}
			d, err := config.readDataset(ctx, config.dataInput, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading input: %v\n", err)
				config.exit(3)
			}
			config.Logf("Writing %d samples...", d.Count())
			if err = config.writeDataset(ctx, config.output, d); err != nil {
				fmt.Fprintf(os.Stderr, "writing output: %v\n", err)
				config.exit(4)
			}
			config.Logf("Done")
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage)
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and labels available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the table or collection holding the samples when reading from or writing to a database")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "location to write the samples to, in the same formats as the input flag (defaults to STDOUT, as CSV)")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (dcc *datasetCmdConfig) Validate() error {
	if dcc.dataInput == dcc.output && dcc.dataInput != "" {
		return fmt.Errorf("input and output cannot be the same location")
	}
	return dcc.dataConfig.Validate()
}
