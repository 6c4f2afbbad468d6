package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	var treeInput string
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a tree",
		Long:  `Print a tree in a human readable format, with pruned nodes shown as leaves`,
		Run: func(cmd *cobra.Command, args []string) {
			if treeInput == "" {
				fmt.Fprintln(os.Stderr, "required tree flag was not set")
				rootConfig.exit(1)
			}
			rootConfig.Logf("Loading tree from %s...", treeInput)
			t, err := loadTree(context.Background(), treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				rootConfig.exit(2)
			}
			fmt.Print(t)
		},
	}
	cmd.PersistentFlags().StringVarP(&treeInput, "tree", "t", "", "location of the tree to print: "+treeLocationUsage+" (required)")
	return cmd
}
