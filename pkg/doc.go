// Package pkg provides the core libraries for OLIVIA, a dependency-network
// vulnerability analysis engine.
//
// # Overview
//
// OLIVIA ingests a raw package dependency graph (who-depends-on-whom) and
// builds its strongly-connected-component condensation once, then answers
// whole-network vulnerability questions against that condensation:
//
//  1. [bitset] - adaptive dense/sparse integer set representation
//  2. [errcode] - structured, user-facing error codes
//  3. [observability] - engine/cache progress hooks
//  4. [olivia/graph] - immutable CSR-backed dependency graph (component A)
//  5. [olivia/condensation] - SCC quotient DAG (component B)
//  6. [olivia/network] - the model: condensation + cached metrics (component C)
//  7. [olivia/metrics] - Reach/Impact/Surface/DependentsCount/DependenciesCount
//     sweeps, serial and bounded-parallel (component D), plus MetricStats (E)
//  8. [olivia/coupling] - transitive coupling interfaces (component F)
//  9. [olivia/vulnerability] - failure_vulnerability + immunization_delta (G)
//  10. [olivia/iset] - immunization-set heuristics layered on the engine
//  11. [store] - pluggable model/metric persistence (file, Redis, MongoDB)
//  12. [config] - engine configuration (workers, thresholds, store backend)
//
// # Architecture
//
// The typical data flow through OLIVIA:
//
//	adjacency text
//	         ↓
//	    [olivia/graph] (ingest, build immutable CSR graph)
//	         ↓
//	    [olivia/condensation] (SCC quotient + reverse-topo order)
//	         ↓
//	    [olivia/network] (cached metric computation, coupling, save/load)
//	         ↓
//	    [olivia/vulnerability] / [olivia/iset] (network-wide analysis)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/olivia-graph/olivia/pkg/olivia/graph"
//	    "github.com/olivia-graph/olivia/pkg/olivia/network"
//	    "github.com/olivia-graph/olivia/pkg/olivia/metrics"
//	)
//
//	b := graph.NewBuilder()
//	b.AddEdge("app", "lib")
//	net, _ := network.Build(b.Build())
//	reach, _ := net.GetMetric(context.Background(), metrics.Reach)
//	top := reach.Top(10, nil)
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...
package pkg
