package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
)

type splitCmdConfig struct {
	dataConfig
	dataInput        string
	output           string
	splitOutput      string
	splitProbability float64
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set of data in two",
		Long:  `Split a set of data in two, for instance to obtain training and validation sets`,
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
			seed := config.seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			config.Logf("Splitting %d samples with probability %f and seed %d...", d.Count(), config.splitProbability, seed)
			kept, split := d.Split(config.splitProbability, rand.New(rand.NewSource(seed)))
			if err = config.writeDataset(ctx, config.output, kept); err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(4)
			}
			if err = config.writeDataset(ctx, config.splitOutput, split); err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(5)
			}
			config.Logf("Done: %d samples kept, %d split", kept.Count(), split.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage)
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and labels available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the table or collection holding the samples when reading from or writing to a database")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "location to write the samples that are not split, in the same formats as the input flag (defaults to STDOUT, as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "location to write the split samples, in the same formats as the input flag (required)")
	cmd.PersistentFlags().Float64VarP(&(config.splitProbability), "split-probability", "p", 0.2, "probability of a sample going to the split output")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random split (defaults to 0: seed from the current time)")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability < 0 || scc.splitProbability > 1 {
		return fmt.Errorf("split-probability flag must be between 0 and 1")
	}
	return scc.dataConfig.Validate()
}
