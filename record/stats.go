package record

import (
	"fmt"
	"math"
)

// Count scans src once and returns the number of records.
func Count(src Source) (int64, error) {
	var n int64
	err := Scan(src, func(Record) error {
		n++
		return nil
	})
	return n, err
}

// Frequencies holds, for every categorical column, the relative frequency of
// each category over a whole source. Non-categorical columns have a nil row.
type Frequencies [][]float64

// Of returns the frequency of category c in column col, or 0 if unknown.
func (f Frequencies) Of(col int, c Category) float64 {
	if col >= len(f) || int(c) >= len(f[col]) {
		return 0
	}
	return f[col][c]
}

// Cardinality returns the number of categories known for column col.
func (f Frequencies) Cardinality(col int) int {
	if col >= len(f) {
		return 0
	}
	return len(f[col])
}

// ComputeFrequencies scans src once and returns the sample frequency table.
// An empty source yields empty rows.
func ComputeFrequencies(src Source, schema *Schema) (Frequencies, error) {
	if src.RecordLen() != schema.Len() {
		return nil, fmt.Errorf("source record length %d does not match schema length %d",
			src.RecordLen(), schema.Len())
	}
	counts := make([][]int64, schema.Len())
	var total int64
	err := Scan(src, func(r Record) error {
		for i, col := range schema.Columns {
			if !col.Type.IsCategorical() {
				continue
			}
			c := int(r.Values[i].Cat)
			if c >= len(counts[i]) {
				grown := make([]int64, c+1)
				copy(grown, counts[i])
				counts[i] = grown
			}
			counts[i][c]++
		}
		total++
		return nil
	})
	if err != nil {
		return nil, err
	}

	freqs := make(Frequencies, schema.Len())
	for i, col := range schema.Columns {
		if !col.Type.IsCategorical() {
			continue
		}
		n := len(counts[i])
		if col.Dict != nil && col.Dict.Len() > n {
			n = col.Dict.Len()
		}
		freqs[i] = make([]float64, n)
		if total == 0 {
			continue
		}
		for c, k := range counts[i] {
			freqs[i][c] = float64(k) / float64(total)
		}
	}
	return freqs, nil
}

// Bounds is the observed range of a numeric column.
type Bounds struct {
	Min, Max float64
}

// Span returns Max-Min.
func (b Bounds) Span() float64 {
	return b.Max - b.Min
}

// NumericBounds scans src once and returns the range of every numeric
// column. Other columns get a zero Bounds.
func NumericBounds(src Source, schema *Schema) ([]Bounds, error) {
	bounds := make([]Bounds, schema.Len())
	for i := range bounds {
		bounds[i] = Bounds{Min: math.Inf(1), Max: math.Inf(-1)}
	}
	err := Scan(src, func(r Record) error {
		for i, col := range schema.Columns {
			if !col.Type.IsNumeric() {
				continue
			}
			v := r.Values[i].Number(col.Type)
			bounds[i].Min = math.Min(bounds[i].Min, v)
			bounds[i].Max = math.Max(bounds[i].Max, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for i, col := range schema.Columns {
		if !col.Type.IsNumeric() || math.IsInf(bounds[i].Min, 1) {
			bounds[i] = Bounds{}
		}
	}
	return bounds, nil
}
