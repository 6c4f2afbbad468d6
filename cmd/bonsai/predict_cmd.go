package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/dataset/csv"
	"github.com/pbanos/bonsai/feature"
	"github.com/spf13/cobra"
)

type predictCmdConfig struct {
	dataConfig
	treeInput string
	dataInput string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict labels for a set of data",
		Long:  `Use a tree to predict the labels of a set of samples, writing them to STDOUT as CSV`,
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
			t, err := loadTree(ctx, config.treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			model, err := bonsai.FromTree(t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			samples, err := config.readDataset(ctx, config.dataInput, &feature.Schema{Features: schema.Features})
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading samples: %v\n", err)
				config.exit(4)
			}
			config.Logf("Predicting labels for %d samples...", samples.Count())
			predictions, err := model.Predict(samples.X)
			if err != nil {
				fmt.Fprintf(os.Stderr, "predicting: %v\n", err)
				config.exit(5)
			}
			w, err := csv.NewWriter(os.Stdout, schema)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(6)
			}
			for i, x := range samples.X {
				if err = w.Write(x, predictions[i]); err != nil {
					fmt.Fprintln(os.Stderr, err)
					config.exit(6)
				}
			}
			if err = w.Flush(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(6)
			}
			config.Logf("Done: %d predictions written", w.Count())
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "location of the tree to predict with: "+treeLocationUsage+" (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage)
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features on the input and the labels to predict (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the table or collection holding the samples when reading from a database")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return pcc.dataConfig.Validate()
}
