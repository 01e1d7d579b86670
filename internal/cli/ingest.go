package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/olivia-graph/olivia/pkg/config"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/network"
	"github.com/olivia-graph/olivia/pkg/store"
)

// ingestOpts holds the command-line flags for the ingest command.
type ingestOpts struct {
	configPath string
	save       bool
}

// ingestCommand builds a network model from an adjacency-list file, printing
// a summary and optionally persisting it to the configured store.
func (c *CLI) ingestCommand() *cobra.Command {
	opts := ingestOpts{save: true}

	cmd := &cobra.Command{
		Use:   "ingest <adjacency-file>",
		Short: "Parse an adjacency file and build a network model",
		Long: `Parse a tab-separated adjacency-list file (optionally .gz or .bz2
compressed) into a network model, condensing it into strongly connected
components and printing a summary.

Example:
  olivia ingest packages.txt.gz`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIngest(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to olivia.toml (defaults to built-in config)")
	cmd.Flags().BoolVar(&opts.save, "save", true, "persist the resulting model to the configured store")

	return cmd
}

func (c *CLI) runIngest(ctx context.Context, path string, opts *ingestOpts) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	prog := newProgress(c.Logger)
	g, err := graph.ParseAdjacency(f, path)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Parsed %d packages, %d edges", g.Size(), g.EdgeCount()))

	prog = newProgress(c.Logger)
	net, err := network.Build(g)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Condensed into %d SCCs", len(net.SCCs())))

	printSuccess("Ingested %s", path)
	printKeyValue("Build ID", net.BuildID().String())
	printKeyValue("Packages", fmt.Sprintf("%d", net.Size()))

	if !opts.save {
		return nil
	}

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	s, err := config.BuildStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := store.SaveNetwork(ctx, s, net, cfg.Store.TTL); err != nil {
		return err
	}
	printDetail("Saved model under build ID %s", net.BuildID())
	return nil
}

// loadConfig loads path if non-empty, otherwise returns config.Default().
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}
