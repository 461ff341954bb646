package record

import (
	"errors"
	"fmt"
	"io"
	"slices"
)

// Source is a forward-only, resettable stream of records.
//
// Next returns io.EOF once the stream is exhausted. Reset rewinds the
// stream to its first record and must be cheap: the engine rescans the
// whole source for every epoch, BMU pass and snapshot.
type Source interface {
	Reset() error
	Next() (Record, error)
	RecordLen() int
}

// ErrStop can be returned from a Scan callback to end the scan early
// without reporting an error.
var ErrStop = errors.New("stop scan")

// Scan resets src and calls fn for every record in source order.
// Errors from the source are wrapped with the failing step; errors from fn
// are returned unchanged. Returning ErrStop from fn ends the scan cleanly.
func Scan(src Source, fn func(Record) error) error {
	if err := src.Reset(); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("next: %w", err)
		}
		if err := fn(rec); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
	}
}

// ErrEmptySource is returned by consumers that need at least one record.
var ErrEmptySource = errors.New("source is empty")

// ErrClosed is returned by a MemorySource after Close.
var ErrClosed = errors.New("source closed")

// MemorySource is a Source over records held in memory.
// Clones share the records but keep their own cursor.
type MemorySource struct {
	records *[]Record
	width   int
	cursor  int
	closed  bool
}

var _ Source = (*MemorySource)(nil)

// NewMemorySource returns an empty in-memory source for records of the
// given length.
func NewMemorySource(recordLen int) *MemorySource {
	recs := make([]Record, 0)
	return &MemorySource{records: &recs, width: recordLen}
}

// Append adds a record; its index is its position in the source.
func (m *MemorySource) Append(values ...Value) error {
	if len(values) != m.width {
		return fmt.Errorf("record length %d, want %d", len(values), m.width)
	}
	*m.records = append(*m.records, Record{
		Index:  int64(len(*m.records)),
		Values: slices.Clone(values),
	})
	return nil
}

// Reset implements Source.
func (m *MemorySource) Reset() error {
	if m.closed {
		return ErrClosed
	}
	m.cursor = 0
	return nil
}

// Next implements Source.
func (m *MemorySource) Next() (Record, error) {
	if m.closed {
		return Record{}, ErrClosed
	}
	if m.cursor >= len(*m.records) {
		return Record{}, io.EOF
	}
	rec := (*m.records)[m.cursor]
	m.cursor++
	return rec, nil
}

// RecordLen implements Source.
func (m *MemorySource) RecordLen() int {
	return m.width
}

// Len returns the number of records.
func (m *MemorySource) Len() int {
	return len(*m.records)
}

// Clone returns a source over the same records with an independent cursor.
func (m *MemorySource) Clone() *MemorySource {
	return &MemorySource{records: m.records, width: m.width}
}

// Close releases the cursor. Further calls fail with ErrClosed.
func (m *MemorySource) Close() error {
	m.closed = true
	return nil
}
