package network

import (
	"bufio"
	"compress/gzip"
	"encoding/binary"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/olivia-graph/olivia/pkg/errcode"
	"github.com/olivia-graph/olivia/pkg/olivia/condensation"
	"github.com/olivia-graph/olivia/pkg/olivia/graph"
	"github.com/olivia-graph/olivia/pkg/olivia/metrics"
)

// olv1Magic identifies the serialized model container (§6).
var olv1Magic = [4]byte{'O', 'L', 'V', '1'}

const olv1Version byte = 1

// Save writes n as a gzip-compressed OLV1 container: header, name table,
// forward adjacency in CSR form, per-SCC member lists, intra-SCC arc counts,
// and every currently cached metric result. The reverse adjacency, the
// condensation's quotient CSR and its reverse topological order are not
// written; Load rebuilds them from the forward adjacency.
func (n *Network) Save(w io.Writer) error {
	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)

	if err := writeHeader(bw, n); err != nil {
		return err
	}
	if err := writeNames(bw, n.g); err != nil {
		return err
	}
	if err := writeCSR(bw, n.g); err != nil {
		return err
	}
	if err := writeCondensation(bw, n.c); err != nil {
		return err
	}
	if err := writeMetricCache(bw, n); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return errcode.Wrap(errcode.CorruptedModel, err, "flushing model writer")
	}
	return gz.Close()
}

// Load reads a model previously produced by Save.
func Load(r io.Reader) (*Network, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errcode.Wrap(errcode.CorruptedModel, err, "opening gzip stream")
	}
	defer gz.Close()
	br := bufio.NewReader(gz)

	buildID, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	names, err := readNames(br)
	if err != nil {
		return nil, err
	}
	b := graph.NewBuilder()
	for _, name := range names {
		b.Register(name)
	}
	if err := readCSRIntoBuilder(br, b, names); err != nil {
		return nil, err
	}
	g := b.Build()

	c, err := readCondensation(br, g)
	if err != nil {
		return nil, err
	}

	n := &Network{
		g:       g,
		c:       c,
		buildID: buildID,
		cache:   make(map[metrics.Kind]*metrics.Stats),
	}
	if err := readMetricCache(br, n); err != nil {
		return nil, err
	}
	return n, nil
}

func writeHeader(w io.Writer, n *Network) error {
	if _, err := w.Write(olv1Magic[:]); err != nil {
		return errcode.Wrap(errcode.CorruptedModel, err, "writing magic")
	}
	if err := writeByte(w, olv1Version); err != nil {
		return err
	}
	idBytes, _ := n.buildID.MarshalBinary()
	if err := writeBytes(w, idBytes); err != nil {
		return err
	}
	if err := writeUint64(w, uint64(n.Size())); err != nil {
		return err
	}
	return writeUint64(w, uint64(n.c.SCCCount()))
}

func readHeader(r io.Reader) (uuid.UUID, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return uuid.UUID{}, errcode.Wrap(errcode.CorruptedModel, err, "reading magic")
	}
	if magic != olv1Magic {
		return uuid.UUID{}, errcode.New(errcode.CorruptedModel, "bad magic %q", magic[:])
	}
	version, err := readByte(r)
	if err != nil {
		return uuid.UUID{}, err
	}
	if version != olv1Version {
		return uuid.UUID{}, errcode.New(errcode.CorruptedModel, "unsupported version %d", version)
	}
	idBytes, err := readBytes(r)
	if err != nil {
		return uuid.UUID{}, err
	}
	id, err := uuid.FromBytes(idBytes)
	if err != nil {
		return uuid.UUID{}, errcode.Wrap(errcode.CorruptedModel, err, "parsing build id")
	}
	if _, err := readUint64(r); err != nil { // package count, reconstructed from names
		return uuid.UUID{}, err
	}
	if _, err := readUint64(r); err != nil { // scc count, recomputed by condensation.Build in readCondensation
		return uuid.UUID{}, err
	}
	return id, nil
}

func writeNames(w io.Writer, g *graph.Graph) error {
	names := g.Names()
	if err := writeUint64(w, uint64(len(names))); err != nil {
		return err
	}
	for _, name := range names {
		if err := writeBytes(w, []byte(name)); err != nil {
			return err
		}
	}
	return nil
}

func readNames(r io.Reader) ([]string, error) {
	count, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	names := make([]string, count)
	for i := range names {
		b, err := readBytes(r)
		if err != nil {
			return nil, err
		}
		names[i] = string(b)
	}
	return names, nil
}

func writeCSR(w io.Writer, g *graph.Graph) error {
	n := g.Size()
	if err := writeUint64(w, uint64(g.EdgeCount())); err != nil {
		return err
	}
	for u := 0; u < n; u++ {
		neighbors := g.OutNeighbors(u)
		if err := writeUint64(w, uint64(len(neighbors))); err != nil {
			return err
		}
		for _, v := range neighbors {
			if err := writeUint64(w, uint64(v)); err != nil {
				return err
			}
		}
	}
	return nil
}

func readCSRIntoBuilder(r io.Reader, b *graph.Builder, names []string) error {
	if _, err := readUint64(r); err != nil { // edge count, informational
		return err
	}
	for u := range names {
		degree, err := readUint64(r)
		if err != nil {
			return err
		}
		for i := uint64(0); i < degree; i++ {
			v, err := readUint64(r)
			if err != nil {
				return err
			}
			b.AddEdge(names[u], names[v])
		}
	}
	return nil
}

func writeCondensation(w io.Writer, c *condensation.Condensation) error {
	nscc := c.SCCCount()
	if err := writeUint64(w, uint64(nscc)); err != nil {
		return err
	}
	for s := 0; s < nscc; s++ {
		members := c.Members(s)
		if err := writeUint64(w, uint64(len(members))); err != nil {
			return err
		}
		for _, m := range members {
			if err := writeUint64(w, uint64(m)); err != nil {
				return err
			}
		}
		if err := writeUint64(w, uint64(c.IntraArcs(s))); err != nil {
			return err
		}
	}
	return nil
}

func readCondensation(r io.Reader, g *graph.Graph) (*condensation.Condensation, error) {
	if _, err := readUint64(r); err != nil { // scc count, recomputed by Build
		return nil, err
	}
	nscc := 0
	// The persisted per-SCC membership/intra-arc data is redundant with
	// what Build derives directly from g; re-deriving it here keeps Load
	// honest against tampering instead of trusting the stored arrays.
	c, err := condensation.Build(g)
	if err != nil {
		return nil, err
	}
	nscc = c.SCCCount()
	for s := 0; s < nscc; s++ {
		count, err := readUint64(r)
		if err != nil {
			return nil, err
		}
		for i := uint64(0); i < count; i++ {
			if _, err := readUint64(r); err != nil {
				return nil, err
			}
		}
		if _, err := readUint64(r); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func writeMetricCache(w io.Writer, n *Network) error {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if err := writeUint64(w, uint64(len(n.cache))); err != nil {
		return err
	}
	for kind, stats := range n.cache {
		if err := writeBytes(w, []byte(kind)); err != nil {
			return err
		}
		names := n.g.Names()
		if err := writeUint64(w, uint64(len(names))); err != nil {
			return err
		}
		for _, name := range names {
			v, _ := stats.Value(name)
			if err := writeFloat64(w, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func readMetricCache(r io.Reader, n *Network) error {
	count, err := readUint64(r)
	if err != nil {
		return err
	}
	names := n.g.Names()
	for i := uint64(0); i < count; i++ {
		kindBytes, err := readBytes(r)
		if err != nil {
			return err
		}
		nameCount, err := readUint64(r)
		if err != nil {
			return err
		}
		if int(nameCount) != len(names) {
			return errcode.New(errcode.CorruptedModel, "cached metric %q has %d values, want %d", kindBytes, nameCount, len(names))
		}
		values := make(map[string]float64, nameCount)
		for j := range names {
			v, err := readFloat64(r)
			if err != nil {
				return err
			}
			values[names[j]] = v
		}
		n.cache[metrics.Kind(kindBytes)] = metrics.NewStats(values)
	}
	return nil
}

func writeByte(w io.Writer, b byte) error {
	if _, err := w.Write([]byte{b}); err != nil {
		return errcode.Wrap(errcode.CorruptedModel, err, "writing byte")
	}
	return nil
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, errcode.Wrap(errcode.CorruptedModel, err, "reading byte")
	}
	return b[0], nil
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return errcode.Wrap(errcode.CorruptedModel, err, "writing uint64")
	}
	return nil
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errcode.Wrap(errcode.CorruptedModel, err, "reading uint64")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeFloat64(w io.Writer, v float64) error {
	return writeUint64(w, math.Float64bits(v))
}

func readFloat64(r io.Reader) (float64, error) {
	bits, err := readUint64(r)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(bits), nil
}

func writeBytes(w io.Writer, b []byte) error {
	if err := writeUint64(w, uint64(len(b))); err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return errcode.Wrap(errcode.CorruptedModel, err, "writing bytes")
	}
	return nil
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, errcode.Wrap(errcode.CorruptedModel, err, "reading bytes")
	}
	return b, nil
}
