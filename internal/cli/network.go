package cli

import (
	"fmt"
	"os"

	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
	"github.com/olivia-graph/olivia/pkg/olivia/network"
)

// loadNetwork parses path as an adjacency file and builds a network model.
// Every analysis command accepts the same input shape so that each
// invocation is self-contained and does not depend on a prior "ingest
// --save" call.
func loadNetwork(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, err := graph.ParseAdjacency(f, path)
	if err != nil {
		return nil, err
	}
	return network.Build(g)
}

// metricKind maps a user-facing flag value to a metrics.Kind.
func metricKind(name string) (metrics.Kind, error) {
	switch name {
	case "reach":
		return metrics.Reach, nil
	case "impact":
		return metrics.Impact, nil
	case "surface":
		return metrics.Surface, nil
	case "dependents", "dependents_count":
		return metrics.DependentsCount, nil
	case "dependencies", "dependencies_count":
		return metrics.DependenciesCount, nil
	default:
		return "", fmt.Errorf("unknown metric %q (want reach|impact|surface|dependents|dependencies)", name)
	}
}
