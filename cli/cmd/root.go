package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/warriorguo/pipeline/cli/output"
)

// Version is stamped at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pipeline",
		Short: "Visual pipeline editor backend",
		Long: `pipeline serves the graph state of a visual ML pipeline editor and
simulates runs over it. Nodes are Data Source, Transformer, Model and Sink.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newRunCmd(), newCatalogCmd(), newVersionCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		output.Error("%v", err)
		os.Exit(1)
	}
}
