package graph

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/olivia-graph/olivia/pkg/errcode"
)

// ParseAdjacency reads the adjacency text format described by the network's
// external interfaces: one line per package, `name` optionally followed by
// tab-separated dependency names. Blank lines and lines starting with "#"
// are ignored. Unknown dependency-only names are auto-registered.
//
// name selects transparent decompression: a ".gz" suffix wraps r in a gzip
// reader, ".bz2" in a bzip2 reader; any other suffix is read as plain text.
func ParseAdjacency(r io.Reader, name string) (*Graph, error) {
	reader, err := decompress(r, name)
	if err != nil {
		return nil, err
	}

	b := NewBuilder()
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		head := strings.TrimSpace(fields[0])
		if head == "" {
			return nil, errcode.Wrap(errcode.MalformedInput, ErrEmptyName, "line %d", lineNo)
		}
		b.Register(head)
		for _, dep := range fields[1:] {
			dep = strings.TrimSpace(dep)
			if dep == "" {
				continue
			}
			b.AddEdge(head, dep)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errcode.Wrap(errcode.MalformedInput, err, "reading %s", name)
	}
	return b.Build(), nil
}

func decompress(r io.Reader, name string) (io.Reader, error) {
	switch {
	case strings.HasSuffix(name, ".gz"):
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, errcode.Wrap(errcode.MalformedInput, err, "opening gzip stream %s", name)
		}
		return gz, nil
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), nil
	default:
		return r, nil
	}
}

// FormatAdjacencyLine renders a single adjacency-format line for head and
// its direct dependencies, the inverse of the per-line grammar ParseAdjacency
// accepts. Used by exporters and tests.
func FormatAdjacencyLine(head string, deps []string) string {
	if len(deps) == 0 {
		return head
	}
	return fmt.Sprintf("%s\t%s", head, strings.Join(deps, "\t"))
}
