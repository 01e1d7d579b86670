package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

// writeAdjacencyFixture writes a small star-shaped adjacency file and
// returns its path: root depends on a, b, c; a and b depend on shared.
func writeAdjacencyFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "packages.txt")
	contents := "root\ta\tb\tc\na\tshared\nb\tshared\nc\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func newTestCLI() *CLI {
	return &CLI{Logger: log.NewWithOptions(&bytes.Buffer{}, log.Options{Level: log.WarnLevel})}
}

func TestIngestCommandWithoutSave(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	err := c.runIngest(context.Background(), path, &ingestOpts{save: false})
	if err != nil {
		t.Fatalf("runIngest: %v", err)
	}
}

func TestSccsCommandListsClusters(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.sccsCommand()
	cmd.SetArgs([]string{path})
	cmd.SetOut(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("sccs command: %v", err)
	}
}

func TestMetricCommandComputesReach(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.metricCommand()
	cmd.SetArgs([]string{path, "--metric", "reach", "--package", "root"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("metric command: %v", err)
	}
}

func TestMetricCommandUnknownMetric(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.metricCommand()
	cmd.SetArgs([]string{path, "--metric", "bogus"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown metric")
	}
}

func TestVulnCommandComputesMean(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.vulnCommand()
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("vuln command: %v", err)
	}
}

func TestImmunizeCommandRequiresTargets(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.immunizeCommand()
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error when --targets is missing")
	}
}

func TestImmunizeCommandComputesDelta(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.immunizeCommand()
	cmd.SetArgs([]string{path, "--targets", "a"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("immunize command: %v", err)
	}
}

func TestIsetCommandNaive(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.isetCommand()
	cmd.SetArgs([]string{path, "--heuristic", "naive", "--size", "2"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("iset command: %v", err)
	}
}

func TestIsetCommandUnknownHeuristic(t *testing.T) {
	path := writeAdjacencyFixture(t)
	c := newTestCLI()
	cmd := c.isetCommand()
	cmd.SetArgs([]string{path, "--heuristic", "bogus"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unknown heuristic")
	}
}

func TestCachePathCommand(t *testing.T) {
	c := newTestCLI()
	cmd := c.cachePathCommand()
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache path command: %v", err)
	}
}

func TestCacheClearCommandEmptyDir(t *testing.T) {
	c := newTestCLI()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "olivia.toml")
	contents := "[store]\nbackend = \"file\"\ndir = \"" + filepath.Join(dir, "models") + "\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := c.cacheClearCommand()
	cmd.SetArgs([]string{"--config", configPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cache clear command: %v", err)
	}
}

func TestRootCommandRegistersAllSubcommands(t *testing.T) {
	c := newTestCLI()
	root := c.RootCommand()

	want := []string{"ingest", "sccs", "metric", "vuln", "immunize", "iset", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if strings.HasPrefix(sub.Use, name) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("RootCommand() missing subcommand %q", name)
		}
	}
}
