package resource

import (
	"context"

	"github.com/attatrol/mixedsom/record"
)

// ThrottledSource wraps a record.Source and paces Next through the
// controller's scan limiter. Reset is never throttled.
type ThrottledSource struct {
	src record.Source
	rc  *Controller
	ctx context.Context
}

var _ record.Source = (*ThrottledSource)(nil)

// NewThrottledSource creates a new ThrottledSource.
func NewThrottledSource(ctx context.Context, src record.Source, rc *Controller) *ThrottledSource {
	return &ThrottledSource{
		src: src,
		rc:  rc,
		ctx: ctx,
	}
}

// Reset implements record.Source.
func (s *ThrottledSource) Reset() error {
	return s.src.Reset()
}

// Next implements record.Source.
func (s *ThrottledSource) Next() (record.Record, error) {
	if err := s.rc.AcquireScan(s.ctx, 1); err != nil {
		return record.Record{}, err
	}
	return s.src.Next()
}

// RecordLen implements record.Source.
func (s *ThrottledSource) RecordLen() int {
	return s.src.RecordLen()
}
