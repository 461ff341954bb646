package mixedsom

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/attatrol/mixedsom/internal/conv"
	"github.com/attatrol/mixedsom/neuron"
	"github.com/attatrol/mixedsom/record"
	"github.com/attatrol/mixedsom/topology"
)

// ClusterResult assigns every record of a source to the neuron that was its
// BMU when the result was produced. Cluster ids are neuron slots.
//
// A ClusterResult is immutable and goes stale once the map trains further.
type ClusterResult struct {
	clusterOf map[int64]int
	members   []*roaring64.Bitmap
	neurons   []*neuron.Neuron
	slotAt    map[topology.Point]int
	records   int64
	recordLen int
}

// ProduceClusterResult scans src once and assigns each record to its BMU.
// ctx is checked on entry; a started scan is never cancelled.
func ProduceClusterResult(ctx context.Context, som *Som, src record.Source) (*ClusterResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if src.RecordLen() != som.src.RecordLen() {
		return nil, &ConfigError{
			Field:  "source",
			Reason: fmt.Sprintf("record length %d, map expects %d", src.RecordLen(), som.src.RecordLen()),
		}
	}

	n := som.Len()
	res := &ClusterResult{
		clusterOf: make(map[int64]int),
		members:   make([]*roaring64.Bitmap, n),
		neurons:   som.Neurons(),
		slotAt:    make(map[topology.Point]int, n),
		recordLen: src.RecordLen(),
	}
	for i, nr := range res.neurons {
		res.members[i] = roaring64.New()
		res.slotAt[nr.Position()] = i
	}

	err := record.Scan(som.throttle(ctx, src), func(rec record.Record) error {
		key, err := conv.RecordToUint64(rec.Index)
		if err != nil {
			return err
		}
		bmu, _ := som.bmu(rec.Values)
		res.clusterOf[rec.Index] = bmu
		res.members[bmu].Add(key)
		res.records++
		return nil
	})
	if err != nil {
		err = dataAccess("cluster", err)
		som.logger.LogClusterResult(ctx, res.records, n, 0, err)
		return nil, err
	}

	som.logger.LogClusterResult(ctx, res.records, n, res.NonEmpty(), nil)
	return res, nil
}

// Cluster returns the cluster of rec.
func (r *ClusterResult) Cluster(rec record.Record) (int, bool) {
	return r.ClusterOf(rec.Index)
}

// ClusterOf returns the cluster of the record with the given index.
func (r *ClusterResult) ClusterOf(index int64) (int, bool) {
	c, ok := r.clusterOf[index]
	return c, ok
}

// Neuron returns the neuron rec was assigned to.
func (r *ClusterResult) Neuron(rec record.Record) (*neuron.Neuron, bool) {
	c, ok := r.ClusterOf(rec.Index)
	if !ok {
		return nil, false
	}
	return r.neurons[c], true
}

// ClusterOfNeuron returns the cluster represented by n.
func (r *ClusterResult) ClusterOfNeuron(n *neuron.Neuron) (int, bool) {
	c, ok := r.slotAt[n.Position()]
	return c, ok
}

// Size returns the number of records in cluster c.
func (r *ClusterResult) Size(c int) int64 {
	if c < 0 || c >= len(r.members) {
		return 0
	}
	return int64(r.members[c].GetCardinality())
}

// SizeOf returns the number of records assigned to n.
func (r *ClusterResult) SizeOf(n *neuron.Neuron) int64 {
	c, ok := r.ClusterOfNeuron(n)
	if !ok {
		return 0
	}
	return r.Size(c)
}

// Members returns a copy of the record indices in cluster c.
func (r *ClusterResult) Members(c int) *roaring64.Bitmap {
	if c < 0 || c >= len(r.members) {
		return roaring64.New()
	}
	return r.members[c].Clone()
}

// Records rescans src and returns the records of cluster c in source order,
// at most limit of them (limit <= 0 means all).
func (r *ClusterResult) Records(src record.Source, c, limit int) ([]record.Record, error) {
	if c < 0 || c >= len(r.members) {
		return nil, fmt.Errorf("cluster %d out of range [0, %d)", c, len(r.members))
	}
	if src.RecordLen() != r.recordLen {
		return nil, fmt.Errorf("record length %d, result expects %d", src.RecordLen(), r.recordLen)
	}
	members := r.members[c]
	want := int(members.GetCardinality())
	if limit > 0 {
		want = min(want, limit)
	}
	if want == 0 {
		return nil, nil
	}

	out := make([]record.Record, 0, want)
	err := record.Scan(src, func(rec record.Record) error {
		key, err := conv.RecordToUint64(rec.Index)
		if err != nil || !members.Contains(key) {
			return nil
		}
		out = append(out, rec.Clone())
		if len(out) == want {
			return record.ErrStop
		}
		return nil
	})
	if err != nil {
		return out, dataAccess("records", err)
	}
	return out, nil
}

// RecordsOf is Records for the cluster represented by n.
func (r *ClusterResult) RecordsOf(src record.Source, n *neuron.Neuron, limit int) ([]record.Record, error) {
	c, ok := r.ClusterOfNeuron(n)
	if !ok {
		return nil, fmt.Errorf("neuron at %v is not part of this result", n.Position())
	}
	return r.Records(src, c, limit)
}

// Count returns the number of clusters, including empty ones.
func (r *ClusterResult) Count() int { return len(r.members) }

// NonEmpty returns the number of clusters with at least one record.
func (r *ClusterResult) NonEmpty() int {
	k := 0
	for _, m := range r.members {
		if !m.IsEmpty() {
			k++
		}
	}
	return k
}

// RecordCount returns the number of records assigned.
func (r *ClusterResult) RecordCount() int64 { return r.records }
