package cmd

import (
	"time"

	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/warriorguo/pipeline/catalog"
	"github.com/warriorguo/pipeline/cli/output"
	"github.com/warriorguo/pipeline/config"
	"github.com/warriorguo/pipeline/types"
)

type catalogFlags struct {
	config  string
	url     string
	timeout time.Duration
	strict  bool
	json    bool
}

func newCatalogCmd() *cobra.Command {
	flags := &catalogFlags{}
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Fetch the node-type palette from a backend",
		Long: `Fetch the node types from <url>/api/nodes. Unless --strict is given, a
failing backend is answered with the built-in palette.

The catalog section of --config and PIPELINE_CATALOG_URL give the defaults,
--url and --timeout override them.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.config)
			if err != nil {
				return errors.Trace(err)
			}
			url := cfg.Catalog.URL
			if cmd.Flags().Changed("url") {
				url = flags.url
			}
			opts := cfg.CatalogOptions()
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = flags.timeout
			}
			client := catalog.NewClient(url, opts)

			var nodeTypes []types.NodeTypeData
			if flags.strict {
				if nodeTypes, err = client.FetchStrict(cmd.Context()); err != nil {
					return errors.Trace(err)
				}
			} else {
				nodeTypes = client.Fetch(cmd.Context())
			}

			printer := output.New(cmd.OutOrStdout())
			if flags.json {
				return errors.Trace(printer.JSON(nodeTypes))
			}
			printer.NodeTypes(nodeTypes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "YAML config file")
	cmd.Flags().StringVar(&flags.url, "url", "http://localhost:8080", "backend base URL")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 5*time.Second, "request timeout")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "fail instead of using the built-in palette")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print JSON")
	return cmd
}
