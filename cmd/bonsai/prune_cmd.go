package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/bonsai"
	"github.com/spf13/cobra"
)

type pruneCmdConfig struct {
	dataConfig
	treeInput string
	dataInput string
	output    string
}

func pruneCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &pruneCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Prune a tree against a validation set",
		Long:  `Prune a tree with weakest-link pruning, keeping the pruned tree that best predicts a validation set`,
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
			model, err := bonsai.FromTree(t, bonsai.WithLogger(log))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			validationSet, err := config.readDataset(ctx, config.dataInput, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading validation set: %v\n", err)
				config.exit(4)
			}
			config.Logf("Pruning tree against a set with %d samples...", validationSet.Count())
			report, err := model.Prune(validationSet.X, validationSet.Y)
			if err != nil {
				fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
				config.exit(5)
			}
			for i, acc := range report.Accuracies {
				config.Logf("%d nodes pruned: validation accuracy %f", i, acc)
			}
			config.Logf("Done: pruned nodes %v", report.Pruned())
			location, err := outputTree(ctx, config.output, t)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(6)
			}
			config.Logf("Tree written to %s", location)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "location of the tree to prune: "+treeLocationUsage+" (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage)
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and labels available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the table or collection holding the samples when reading from a database")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "location to which the pruned tree will be written in JSON format: "+treeLocationUsage+" (defaults to STDOUT)")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (pcc *pruneCmdConfig) Validate() error {
	if pcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	return pcc.dataConfig.Validate()
}
