package record

import "fmt"

// Column describes one column of a record.
type Column struct {
	Name string
	Type ColumnType
	// Dict interns the values of a categorical column. NewSchema creates it
	// for categorical columns when left nil.
	Dict *Dictionary
}

// Schema is the ordered column layout shared by a source and every neuron.
type Schema struct {
	Columns []Column
}

// NewSchema builds a schema and allocates dictionaries for categorical columns.
func NewSchema(cols ...Column) *Schema {
	s := &Schema{Columns: make([]Column, len(cols))}
	for i, c := range cols {
		if c.Type.IsCategorical() && c.Dict == nil {
			c.Dict = NewDictionary()
		}
		s.Columns[i] = c
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.Columns)
}

// Type returns the type of column i.
func (s *Schema) Type(i int) ColumnType {
	return s.Columns[i].Type
}

// Types returns the column types in order.
func (s *Schema) Types() []ColumnType {
	types := make([]ColumnType, len(s.Columns))
	for i, c := range s.Columns {
		types[i] = c.Type
	}
	return types
}

// Cat interns value in column i and returns it as a Value.
// It panics if column i is not categorical.
func (s *Schema) Cat(i int, value string) Value {
	c := s.Columns[i]
	if !c.Type.IsCategorical() {
		panic(fmt.Sprintf("record: column %d (%s) is %s, not categorical", i, c.Name, c.Type))
	}
	return CatValue(c.Dict.Intern(value))
}

// Bool interns a Binary or BinaryDigital value in column i.
func (s *Schema) Bool(i int, b bool) Value {
	switch {
	case s.Columns[i].Type == BinaryDigital && b:
		return s.Cat(i, "1")
	case s.Columns[i].Type == BinaryDigital:
		return s.Cat(i, "0")
	case b:
		return s.Cat(i, "true")
	default:
		return s.Cat(i, "false")
	}
}

// Format renders values column by column.
func (s *Schema) Format(values []Value) []string {
	out := make([]string, len(values))
	for i, v := range values {
		if i >= len(s.Columns) {
			out[i] = "?"
			continue
		}
		out[i] = v.Format(s.Columns[i].Type, s.Columns[i].Dict)
	}
	return out
}
