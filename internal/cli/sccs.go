package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// sccsCommand lists the network's strongly connected components.
func (c *CLI) sccsCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "sccs <adjacency-file>",
		Short: "List strongly connected components, largest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := loadNetwork(args[0])
			if err != nil {
				return err
			}
			clusters := net.SortedClusters()
			if top > 0 && top < len(clusters) {
				clusters = clusters[:top]
			}
			for i, cluster := range clusters {
				if len(cluster) == 1 {
					printKeyValue(fmt.Sprintf("SCC %d", i), cluster[0])
					continue
				}
				printKeyValue(fmt.Sprintf("SCC %d", i), fmt.Sprintf("%d members: %s", len(cluster), strings.Join(cluster, ", ")))
			}
			printNewline()
			printDetail("%d SCCs total", len(net.SCCs()))
			return nil
		},
	}

	cmd.Flags().IntVar(&top, "top", 0, "only show the N largest SCCs (0 = all)")
	return cmd
}
