package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pbanos/bonsai"
	"github.com/pbanos/bonsai/server"
	"github.com/spf13/cobra"
)

func serveCmd(rootConfig *rootCmdConfig) *cobra.Command {
	var treeInput, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions of a tree over HTTP",
		Long:  `Serve predictions of a tree over an HTTP JSON API, along with the tree itself and prometheus metrics`,
		Run: func(cmd *cobra.Command, args []string) {
			if treeInput == "" {
				fmt.Fprintln(os.Stderr, "required tree flag was not set")
				rootConfig.exit(1)
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			t, err := loadTree(ctx, treeInput)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				rootConfig.exit(2)
			}
			model, err := bonsai.FromTree(t, bonsai.WithLogger(log))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				rootConfig.exit(2)
			}
			rootConfig.Logf("Serving tree from %s on %s", treeInput, addr)
			if err = server.Run(ctx, addr, model); err != nil {
				fmt.Fprintln(os.Stderr, err)
				rootConfig.exit(3)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&treeInput, "tree", "t", "", "location of the tree to serve: "+treeLocationUsage+" (required)")
	cmd.PersistentFlags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	return cmd
}
