package mixedsom

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/attatrol/mixedsom/internal/conv"
	"github.com/attatrol/mixedsom/record"
)

// Reallocation summarises one devouring pass.
type Reallocation struct {
	// Weak is the number of neurons that won at most Alpha*median records.
	Weak int
	// Patrons is the number of neurons that won at least Beta*median records.
	Patrons int
	// Pairs is the number of patrons that claimed a weak neuron.
	Pairs int
	// Swaps is the number of neighbour swaps performed along all paths.
	Swaps int
	// Reseeded is the number of claimed neurons revived from the patron's
	// farthest record.
	Reseeded int
	// Fallbacks is the number of claimed neurons revived from a random
	// record because their patron had none.
	Fallbacks int
}

type pair struct {
	patron, weak int // content ids
}

// devour relocates weak neurons next to patrons. It runs at the start of an
// epoch on the previous epoch's win counts.
func (s *Som) devour(ctx context.Context) (Reallocation, error) {
	if !s.hasWins || math.IsInf(s.cfg.Beta, 1) {
		return Reallocation{}, nil
	}

	median := float64(s.size) / float64(len(s.neurons))
	weak := roaring.New()
	var patrons []int
	for i, w := range s.wins {
		switch {
		case float64(w) <= s.cfg.Alpha*median:
			key, err := conv.SlotToUint32(i)
			if err != nil {
				return Reallocation{}, err
			}
			weak.Add(key)
		case float64(w) >= s.cfg.Beta*median:
			patrons = append(patrons, i)
		}
	}
	r := Reallocation{Weak: int(weak.GetCardinality()), Patrons: len(patrons)}
	if weak.IsEmpty() || len(patrons) == 0 {
		return r, nil
	}

	slices.SortStableFunc(patrons, func(a, b int) int {
		return cmp.Compare(s.wins[a], s.wins[b])
	})

	for i := range s.slotOf {
		s.slotOf[i] = i
		s.contentAt[i] = i
	}

	pairs := make([]pair, 0, min(len(patrons), r.Weak))
	for _, p := range patrons {
		if weak.IsEmpty() {
			break
		}
		claimed, err := s.closest(weak, p)
		if err != nil {
			return r, err
		}
		key, err := conv.SlotToUint32(claimed)
		if err != nil {
			return r, err
		}
		weak.Remove(key)
		pairs = append(pairs, pair{patron: p, weak: claimed})
	}
	r.Pairs = len(pairs)

	for _, pr := range pairs {
		patron := s.slotOf[pr.patron]
		at, swaps, err := s.walk(s.slotOf[pr.weak], patron)
		r.Swaps += swaps
		if err != nil {
			return r, err
		}

		if t := s.distant[patron]; t.ok {
			s.neurons[at].SetWeights(t.values)
			r.Reseeded++
			continue
		}
		values, err := s.randomRecord(ctx)
		if err != nil {
			return r, dataAccess("reallocation", err)
		}
		s.neurons[at].SetWeights(values)
		r.Fallbacks++
	}
	return r, nil
}

// closest returns the slot in pool nearest to slot p; ties go to the lower slot.
func (s *Som) closest(pool *roaring.Bitmap, p int) (int, error) {
	best, bestDist := -1, math.Inf(1)
	it := pool.Iterator()
	for it.HasNext() {
		w, err := conv.Uint32ToSlot(it.Next())
		if err != nil {
			return -1, err
		}
		if d := s.topo.DistanceAt(w, p); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best, nil
}

// walk moves the content at slot from toward slot patron, one neighbour swap
// at a time, until it sits in the patron's local neighbourhood. It stops
// early if no neighbour is strictly closer to the patron. It returns the
// final slot and the number of swaps.
func (s *Som) walk(from, patron int) (int, int, error) {
	cur, swaps := from, 0
	for !s.inLocal(patron, cur) {
		next, nextDist := -1, s.topo.DistanceAt(cur, patron)
		for _, nb := range s.local[cur] {
			if d := s.topo.DistanceAt(nb, patron); d < nextDist {
				next, nextDist = nb, d
			}
		}
		if next < 0 || next == patron {
			break
		}
		if err := s.swapSlots(cur, next); err != nil {
			return cur, swaps, err
		}
		cur = next
		swaps++
	}
	return cur, swaps, nil
}

func (s *Som) inLocal(center, slot int) bool {
	_, found := slices.BinarySearch(s.local[center], slot)
	return found
}

// swapSlots exchanges the content of two slots together with its win count
// and farthest record, and keeps the content indirection in step.
func (s *Som) swapSlots(a, b int) error {
	if err := s.neurons[a].Swap(s.neurons[b]); err != nil {
		return fmt.Errorf("swap %d<->%d: %w", a, b, err)
	}
	s.wins[a], s.wins[b] = s.wins[b], s.wins[a]
	s.distant[a], s.distant[b] = s.distant[b], s.distant[a]

	ca, cb := s.contentAt[a], s.contentAt[b]
	s.contentAt[a], s.contentAt[b] = cb, ca
	s.slotOf[ca], s.slotOf[cb] = b, a
	return nil
}

// randomRecord returns the values of a uniformly chosen source record.
func (s *Som) randomRecord(ctx context.Context) ([]record.Value, error) {
	target := s.rand.Int63n(s.size)
	var (
		pos    int64
		values []record.Value
	)
	err := record.Scan(s.scanSource(ctx), func(rec record.Record) error {
		if pos == target {
			values = slices.Clone(rec.Values)
			return record.ErrStop
		}
		pos++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if values == nil {
		return nil, errors.New("source shrank since it was counted")
	}
	return values, nil
}
