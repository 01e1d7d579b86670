package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// metricCommand computes and ranks a metric across the network.
func (c *CLI) metricCommand() *cobra.Command {
	var (
		metricName string
		top        int
		packageArg string
	)

	cmd := &cobra.Command{
		Use:   "metric <adjacency-file>",
		Short: "Compute and rank a metric across the network",
		Long: `Compute reach, impact, surface, dependents, or dependencies for every
package in the network. With --package, print only that package's value;
otherwise print the top-ranked packages.`,
		Args: cobra.ExactArgs(1),
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

			prog := newProgress(c.Logger)
			stats, err := net.GetMetric(ctx, kind)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Computed %s over %d packages", metricName, stats.Len()))

			if packageArg != "" {
				v, ok := stats.Value(packageArg)
				if !ok {
					return fmt.Errorf("package %q not found", packageArg)
				}
				printKeyValue(packageArg, fmt.Sprintf("%g", v))
				return nil
			}

			for _, e := range stats.Top(top, nil) {
				printKeyValue(e.Name, fmt.Sprintf("%g", e.Value))
			}
			printNewline()
			printDetail("mean=%g min=%g max=%g", stats.Mean(), stats.Min(), stats.Max())
			return nil
		},
	}

	cmd.Flags().StringVar(&metricName, "metric", "reach", "metric to compute: reach|impact|surface|dependents|dependencies")
	cmd.Flags().IntVar(&top, "top", 10, "number of top-ranked packages to print (0 = all)")
	cmd.Flags().StringVar(&packageArg, "package", "", "print only this package's value")

	return cmd
}
