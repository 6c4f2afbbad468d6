package main

import (
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	verbose    bool
	cpuProfile string
	profiler   interface{ Stop() }
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

// osExit is replaced in tests
var osExit = os.Exit

// exit stops any running profiler, so that its profile gets written,
// and terminates the command with the given code.
func (rcc *rootCmdConfig) exit(code int) {
	rcc.stopProfiler()
	osExit(code)
}

func (rcc *rootCmdConfig) stopProfiler() {
	if rcc.profiler != nil {
		rcc.profiler.Stop()
		rcc.profiler = nil
	}
}

func cliParser() *cobra.Command {
	config := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "bonsai",
		Short: "bonsai is a tool to grow and prune decision trees",
		Long:  `A tool to grow classification and regression trees from your data, prune them against validation data, test them, and use them to make predictions`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.setupLogging()
			if config.cpuProfile != "" {
				config.profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(config.cpuProfile), profile.Quiet)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			config.stopProfiler()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&(config.verbose), "verbose", "v", false, "")
	rootCmd.PersistentFlags().StringVar(&(config.cpuProfile), "cpu-profile", "", "path to a directory where a CPU profile of the command will be written")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(config),
		pruneCmd(config),
		predictCmd(config),
		testCmd(config),
		splitCmd(config),
		datasetCmd(config),
		treeCmd(config),
		serveCmd(config),
	)
	return rootCmd
}
