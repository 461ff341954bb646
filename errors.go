package mixedsom

import (
	"errors"
	"fmt"

	"github.com/attatrol/mixedsom/neuron"
	"github.com/attatrol/mixedsom/record"
)

var (
	// ErrInvalidConfig is wrapped by every *ConfigError.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptySource is returned when a map is built over a source without records.
	ErrEmptySource = record.ErrEmptySource

	// ErrDataAccess is wrapped by every *DataAccessError.
	ErrDataAccess = errors.New("data access failed")

	// ErrVariantMismatch is returned when neurons with different update
	// policies are swapped.
	ErrVariantMismatch = neuron.ErrVariantMismatch
)

// ConfigError indicates an invalid construction parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// DataAccessError indicates that the data source failed during a scan.
//
// Both ErrDataAccess and the source's own error can be matched with errors.Is.
type DataAccessError struct {
	Op    string
	cause error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access failed during %s: %v", e.Op, e.cause)
}

func (e *DataAccessError) Unwrap() []error { return []error{ErrDataAccess, e.cause} }

func dataAccess(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, cause: err}
}
