package record

import (
	"fmt"
	"slices"
	"strconv"
)

// ColumnType tags the representation of one column.
type ColumnType uint8

const (
	// Missing marks an unsupported or absent column. Updates and distances skip it.
	Missing ColumnType = iota
	// Float is a numeric column with real values.
	Float
	// Integer is a numeric column with integer values.
	Integer
	// Binary is a two-valued categorical column (true/false, yes/no).
	Binary
	// BinaryDigital is a two-valued categorical column encoded as 0/1.
	BinaryDigital
	// Categorical is a categorical column with string values.
	Categorical
)

func (t ColumnType) String() string {
	switch t {
	case Missing:
		return "Missing"
	case Float:
		return "Float"
	case Integer:
		return "Integer"
	case Binary:
		return "Binary"
	case BinaryDigital:
		return "BinaryDigital"
	case Categorical:
		return "Categorical"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// IsCategorical reports whether values of this type are held as categories.
func (t ColumnType) IsCategorical() bool {
	return t == Binary || t == BinaryDigital || t == Categorical
}

// IsNumeric reports whether values of this type are held as numbers.
func (t ColumnType) IsNumeric() bool {
	return t == Float || t == Integer
}

// Category is a dense index into a column Dictionary.
type Category uint32

// Value is one column value. Which member is meaningful depends on the
// column type: Float for Float columns, Int for Integer columns and Cat for
// categorical columns.
type Value struct {
	Float float64
	Int   int64
	Cat   Category
}

// FloatValue returns a Value for a Float column.
func FloatValue(f float64) Value { return Value{Float: f} }

// IntValue returns a Value for an Integer column.
func IntValue(i int64) Value { return Value{Int: i} }

// CatValue returns a Value for a categorical column.
func CatValue(c Category) Value { return Value{Cat: c} }

// Number returns the numeric reading of v for the given column type.
// Categorical and missing columns read as 0.
func (v Value) Number(t ColumnType) float64 {
	switch t {
	case Float:
		return v.Float
	case Integer:
		return float64(v.Int)
	default:
		return 0
	}
}

// Format renders v using the column type (and dictionary for categories).
func (v Value) Format(t ColumnType, dict *Dictionary) string {
	switch t {
	case Float:
		return strconv.FormatFloat(v.Float, 'g', 6, 64)
	case Integer:
		return strconv.FormatInt(v.Int, 10)
	case Binary, BinaryDigital, Categorical:
		if dict != nil {
			if s, ok := dict.Lookup(v.Cat); ok {
				return s
			}
		}
		return "#" + strconv.FormatUint(uint64(v.Cat), 10)
	default:
		return "?"
	}
}

// Record is one row of a Source.
// Index is the row's stable position in the source and identifies the row
// across rescans.
type Record struct {
	Index  int64
	Values []Value
}

// Clone returns a deep copy of r.
func (r Record) Clone() Record {
	return Record{Index: r.Index, Values: slices.Clone(r.Values)}
}
