package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/warriorguo/pipeline"
	"github.com/warriorguo/pipeline/cli/output"
	"github.com/warriorguo/pipeline/types"
)

type runFlags struct {
	delay       time.Duration
	failureRate float64
	dot         bool
}

func newRunCmd() *cobra.Command {
	flags := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run [node type]...",
		Short: "Build a linear pipeline and simulate one run",
		Long: `Build a chain from the given node types, left to right, and execute it
while printing the run log. Without arguments the chain is
"Data Source" -> Transformer -> Model -> Sink.

Examples:
  pipeline run
  pipeline run "Data Source" Sink --delay 200ms --failure-rate 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args, flags)
		},
	}
	cmd.Flags().DurationVar(&flags.delay, "delay", 1500*time.Millisecond, "simulated processing time per node")
	cmd.Flags().Float64Var(&flags.failureRate, "failure-rate", 0.1, "probability that a node fails")
	cmd.Flags().BoolVar(&flags.dot, "dot", false, "print the Graphviz DOT of the run afterwards")
	return cmd
}

func runPipeline(cmd *cobra.Command, args []string, flags *runFlags) error {
	nodeTypes := types.AllNodeTypes()
	if len(args) > 0 {
		nodeTypes = make([]types.NodeTypeName, 0, len(args))
		for _, arg := range args {
			nt, err := types.ParseNodeTypeName(arg)
			if err != nil {
				return errors.Trace(err)
			}
			nodeTypes = append(nodeTypes, nt)
		}
	}

	printer := output.New(cmd.OutOrStdout())
	live := types.ListenerFunc(func(e *types.Event) {
		if e.Type == types.EventLogAppended && e.Log != nil {
			printer.Log(*e.Log)
		}
	})

	editor, err := pipeline.NewEditor(
		types.WithProcessingDelay(flags.delay),
		types.WithFailureRate(flags.failureRate),
		types.WithListener(live),
	)
	if err != nil {
		return errors.Trace(err)
	}
	ctx := cmd.Context()
	defer editor.Close(context.Background())

	if _, err := pipeline.BuildChain(editor, nodeTypes...); err != nil {
		return errors.Trace(err)
	}
	if err := editor.Execute(ctx); err != nil {
		return errors.Trace(err)
	}

	if flags.dot {
		dot, err := editor.RenderLastRun(ctx)
		if err != nil {
			return errors.Trace(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), dot)
	}

	if editor.ExecutionState() == types.ExecutionError {
		return errors.Errorf("pipeline run failed")
	}
	return nil
}
