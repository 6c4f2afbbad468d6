package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/tree"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	dataConfig
	dataInput       string
	validationInput string
	output          string
	mode            string
	criterion       string
	maxDepth        int
	parallelism     int
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict its labels, optionally pruning it against a validation set.`,
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
			model, err := config.model()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(3)
			}
			trainingSet, err := config.readDataset(ctx, config.dataInput, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading training set: %v\n", err)
				config.exit(4)
			}
			config.Logf("Growing tree from a set with %d samples and %d features to predict %v ...", trainingSet.Count(), len(schema.Features), schema.Labels)
			err = model.Fit(trainingSet.X, trainingSet.Y)
			if err != nil {
				fmt.Fprintf(os.Stderr, "growing the tree: %v\n", err)
				config.exit(5)
			}
			config.Logf("Done")
			if config.validationInput != "" {
				validationSet, err := config.readDataset(ctx, config.validationInput, schema)
				if err != nil {
					fmt.Fprintf(os.Stderr, "reading validation set: %v\n", err)
					config.exit(6)
				}
				config.Logf("Pruning tree against a set with %d samples...", validationSet.Count())
				report, err := model.Prune(validationSet.X, validationSet.Y)
				if err != nil {
					fmt.Fprintf(os.Stderr, "pruning the tree: %v\n", err)
					config.exit(7)
				}
				config.Logf("Done: pruned %d of %d candidate nodes for a validation accuracy of %f", report.Selected, len(report.Sequence), report.Accuracy())
			}
			config.Logf("%v", model.Tree())
			location, err := outputTree(ctx, config.output, model.Tree())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				config.exit(8)
			}
			config.Logf("Tree written to %s", location)
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage)
	cmd.PersistentFlags().StringVarP(&(config.validationInput), "validation", "V", "", "location of a validation set to prune the grown tree against, in the same formats as the input flag (defaults to no pruning)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and labels available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the table or collection holding the samples when reading from a database")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "location to which the generated tree will be written in JSON format: "+treeLocationUsage+" (defaults to STDOUT)")
	cmd.PersistentFlags().StringVar(&(config.mode), "mode", "classification", "kind of tree to grow: classification or regression")
	cmd.PersistentFlags().StringVarP(&(config.criterion), "criterion", "c", "cart", "split criterion: id3, c4.5 or cart (only cart can grow regression trees)")
	cmd.PersistentFlags().IntVar(&(config.maxDepth), "max-depth", 0, "maximum depth of the tree (defaults to 0: no limit)")
	cmd.PersistentFlags().IntVarP(&(config.parallelism), "parallelism", "p", 1, "number of features whose splits are evaluated at the same time")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if err := gcc.dataConfig.Validate(); err != nil {
		return err
	}
	if gcc.maxDepth < 0 {
		return fmt.Errorf("max-depth flag cannot be negative")
	}
	if gcc.parallelism < 1 {
		return fmt.Errorf("parallelism flag must be at least 1")
	}
	return nil
}

func (gcc *growCmdConfig) model() (*bonsai.Model, error) {
	mode, err := tree.ParseMode(gcc.mode)
	if err != nil {
		return nil, err
	}
	criterion, err := bonsai.ParseCriterion(gcc.criterion)
	if err != nil {
		return nil, err
	}
	return bonsai.New(mode, criterion,
		bonsai.MaxDepth(gcc.maxDepth),
		bonsai.Parallelism(gcc.parallelism),
		bonsai.WithLogger(log),
	)
}
