package store

import (
	"bytes"
	"context"
	"time"

	"github.com/olivia-graph/olivia/pkg/olivia/network"
)

// SaveNetwork serializes net as an OLV1 container and writes it to s,
// keyed by the network's BuildID.
func SaveNetwork(ctx context.Context, s Store, net *network.Network, ttl time.Duration) error {
	var buf bytes.Buffer
	if err := net.Save(&buf); err != nil {
		return err
	}
	return s.Set(ctx, ModelKey(net.BuildID().String()), buf.Bytes(), ttl)
}

// LoadNetwork reads and deserializes the OLV1 container stored under
// buildID. ok is false on a cache miss.
func LoadNetwork(ctx context.Context, s Store, buildID string) (net *network.Network, ok bool, err error) {
	data, found, err := s.Get(ctx, ModelKey(buildID))
	if err != nil || !found {
		return nil, false, err
	}
	net, err = network.Load(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}
	return net, true, nil
}
