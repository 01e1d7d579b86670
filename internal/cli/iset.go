package cli

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/olivia-graph/olivia/pkg/olivia/iset"
)

// isetCommand computes an immunization-set heuristic.
func (c *CLI) isetCommand() *cobra.Command {
	var (
		heuristic  string
		metricName string
		setSize    int
		indirect   bool
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "iset <adjacency-file>",
		Short: "Compute an immunization set heuristic",
		Long: `Suggest a set of packages worth immunizing first, using one of:
  naive     top-k by metric
  delta     DELTA FRAME bound (metric must be reach or impact)
  sap       strong articulation points of the largest SCC
  random    uniform random sample (direct or --indirect)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}

			var names []string
			switch heuristic {
			case "naive":
				kind, err := metricKind(metricName)
				if err != nil {
					return err
				}
				names, err = iset.NaiveRanking(ctx, net, kind, setSize)
				if err != nil {
					return err
				}
			case "delta":
				switch metricName {
				case "reach":
					names, err = iset.DeltaFrameReach(ctx, net)
				case "impact":
					names, err = iset.DeltaFrameImpact(ctx, net)
				default:
					return fmt.Errorf("delta heuristic supports --metric reach|impact, got %q", metricName)
				}
				if err != nil {
					return err
				}
			case "sap":
				names, err = iset.StrongArticulationPoints(net, nil)
				if err != nil {
					return err
				}
			case "random":
				names, err = iset.Random(net, setSize, indirect, rand.New(rand.NewSource(seed)))
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown heuristic %q (want naive|delta|sap|random)", heuristic)
			}

			printKeyValue("immunization set", strings.Join(names, ", "))
			printDetail("heuristic=%s size=%d", heuristic, len(names))
			return nil
		},
	}

	cmd.Flags().StringVar(&heuristic, "heuristic", "naive", "naive|delta|sap|random")
	cmd.Flags().StringVar(&metricName, "metric", "reach", "metric for naive/delta heuristics")
	cmd.Flags().IntVar(&setSize, "size", 5, "target set size for naive/random heuristics")
	cmd.Flags().BoolVar(&indirect, "indirect", false, "random heuristic: sample a random dependency of a random package")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random heuristic: PRNG seed")

	return cmd
}
