// Package record defines the data model the map is trained on.
//
// # Column Types
//
//   - Float, Integer: numeric columns, stored in Value.Float / Value.Int
//   - Binary, BinaryDigital, Categorical: categorical columns, stored as a
//     Category (a dense index into the column's Dictionary)
//   - Missing: unsupported column, ignored by every update and distance
//
// # Values
//
// Value is a tagged union. The column's type in the Schema decides which
// member is meaningful, so a record never carries runtime type tags:
//
//	schema := record.NewSchema(
//	    record.Column{Name: "age", Type: record.Integer},
//	    record.Column{Name: "colour", Type: record.Categorical},
//	)
//	rec := []record.Value{record.IntValue(42), schema.Cat(1, "red")}
//
// # Sources
//
// A Source is a forward-only stream that can be reset and rescanned any
// number of times. Every full pass (training epoch, BMU query, snapshot)
// performs its own Reset, so Reset must be cheap and idempotent.
//
//	err := record.Scan(src, func(r record.Record) error {
//	    fmt.Println(r.Index, r.Values)
//	    return nil
//	})
package record
