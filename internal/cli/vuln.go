package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// vulnCommand computes failure_vulnerability for a network.
func (c *CLI) vulnCommand() *cobra.Command {
	var metricName string

	cmd := &cobra.Command{
		Use:   "vuln <adjacency-file>",
		Short: "Compute failure_vulnerability: mean metric over the whole network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kind, err := metricKind(metricName)
			if err != nil {
				return err
			}
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			stats, err := net.GetMetric(ctx, kind)
			if err != nil {
				return err
			}
			printKeyValue("failure_vulnerability", fmt.Sprintf("%g", stats.Mean()))
			printDetail("metric=%s packages=%d", metricName, net.Size())
			return nil
		},
	}

	cmd.Flags().StringVar(&metricName, "metric", "reach", "metric to average: reach|impact|surface|dependents|dependencies")
	return cmd
}
