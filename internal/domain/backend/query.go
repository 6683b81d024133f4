package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Order is a fixed sort key.
type Order struct {
	Column    string
	Ascending bool
}

// Asc orders by column ascending.
func Asc(column string) Order { return Order{Column: column, Ascending: true} }

// Desc orders by column descending.
func Desc(column string) Order { return Order{Column: column} }

// Filter is an equality predicate.
type Filter struct {
	Column string
	Value  string
}

// Eq builds an equality predicate.
func Eq(column, value string) Filter { return Filter{Column: column, Value: value} }

// Embed joins one related row alongside each primary row. The related row is
// looked up through ForeignKey on the primary table and exposed under Alias.
type Embed struct {
	Alias      string
	Table      Table
	ForeignKey string
	Columns    []string
}

// Query selects rows from one table.
type Query struct {
	Columns []string
	Embed   *Embed
	Order   *Order
	Filters []Filter
}

// SelectExpression renders the column list in PostgREST syntax,
// e.g. "*,contact:contacts(name,phone)".
func (q Query) SelectExpression() string {
	cols := "*"
	if len(q.Columns) > 0 {
		cols = strings.Join(q.Columns, ",")
	}
	if q.Embed == nil {
		return cols
	}
	embedCols := "*"
	if len(q.Embed.Columns) > 0 {
		embedCols = strings.Join(q.Embed.Columns, ",")
	}
	return fmt.Sprintf("%s,%s:%s(%s)", cols, q.Embed.Alias, q.Embed.Table, embedCols)
}

// Decode unmarshals a Select result into typed rows. Rows that fail to decode,
// for example because of an unknown enum value, fail the whole result.
func Decode[T any](raw json.RawMessage) ([]T, error) {
	if len(raw) == 0 {
		return []T{}, nil
	}
	var rows []T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []T{}
	}
	return rows, nil
}
