package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/evaluation"
	"github.com/pbanos/bonsai/tree"
	"github.com/spf13/cobra"
)

type testCmdConfig struct {
	dataConfig
	treeInput string
	dataInput string
	threshold float64
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{dataConfig: dataConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
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
			testSet, err := config.readDataset(ctx, config.dataInput, schema)
			if err != nil {
				fmt.Fprintf(os.Stderr, "reading test set: %v\n", err)
				config.exit(4)
			}
			config.Logf("Testing tree against a set with %d samples...", testSet.Count())
			predictions, err := model.Predict(testSet.X)
			if err != nil {
				fmt.Fprintf(os.Stderr, "testing the tree: %v\n", err)
				config.exit(5)
			}
			accuracy := evaluation.Accuracy(testSet.Y, predictions)
			report := color.New(color.FgGreen).SprintFunc()
			if accuracy < config.threshold {
				report = color.New(color.FgRed).SprintFunc()
			}
			fmt.Printf("%d samples tested, accuracy %s\n", testSet.Count(), report(fmt.Sprintf("%f", accuracy)))
			if model.Mode() == tree.Regression {
				fmt.Printf("mean squared error %f\n", evaluation.MeanSquaredError(testSet.Y, predictions))
			}
			if accuracy < config.threshold {
				config.exit(6)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "location of the tree to test: "+treeLocationUsage+" (required)")
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", inputFlagUsage)
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the features and labels available on the input (required)")
	cmd.PersistentFlags().StringVar(&(config.table), "table", "samples", "name of the table or collection holding the samples when reading from a database")
	cmd.PersistentFlags().Float64Var(&(config.threshold), "threshold", 0, "minimum accuracy expected from the tree, below which the command fails")
	cmd.PersistentFlags().IntVar(&(config.maxDBConns), "max-db-conns", 0, "limit to DB connections opened at a time (defaults to 0: no limit)")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.treeInput == "" {
		return fmt.Errorf("required tree flag was not set")
	}
	if tcc.threshold < 0 || tcc.threshold > 1 {
		return fmt.Errorf("threshold flag must be between 0 and 1")
	}
	return tcc.dataConfig.Validate()
}
