package querybuilder

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// InternalPrefix marks transport-only payload keys (e.g. _token) that never reach SQL.
const InternalPrefix = "_"

// Kind is the semantic type of a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindBool:
		return "boolean"
	case KindTime:
		return "timestamp"
	default:
		return "text"
	}
}

// Column describes one column of a table.
type Column struct {
	Name      string
	Kind      Kind
	Nullable  bool
	// Sensitive columns are written but never selected or returned.
	Sensitive bool
	// Immutable columns cannot be changed by an update.
	Immutable bool
}

// Table is the static descriptor a builder works from.
type Table struct {
	Name    string
	Key     string
	Columns []Column
}

// Field is one column/value pair destined for a statement.
type Field struct {
	Column string
	Value  any
}

// UnknownColumnError reports a payload key the table does not have.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("column %q of relation %q does not exist", e.Column, e.Table)
}

// ImmutableColumnError reports an attempt to update a protected column.
type ImmutableColumnError struct {
	Table  string
	Column string
}

func (e *ImmutableColumnError) Error() string {
	return fmt.Sprintf("column %q of relation %q cannot be changed", e.Column, e.Table)
}

// TypeError reports a value that cannot be stored in its column.
type TypeError struct {
	Column string
	Kind   Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s is not of a type(s) %s", e.Column, e.Kind)
}

// Column returns the descriptor for name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Public lists the non-sensitive column names in declaration order.
func (t Table) Public() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Sensitive {
			out = append(out, c.Name)
		}
	}
	return out
}

// SelectList is Public joined for use in a SELECT or RETURNING clause.
func (t Table) SelectList() string {
	return strings.Join(t.Public(), ", ")
}

// Fields converts a decoded JSON payload into ordered fields. Keys carrying the
// internal prefix are dropped; keys the table does not know are rejected.
// Output follows the table's column order so statements are deterministic.
func (t Table) Fields(values map[string]any) ([]Field, error) {
	unknown := make([]string, 0)
	for k := range values {
		if strings.HasPrefix(k, InternalPrefix) {
			continue
		}
		if _, ok := t.Column(k); !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownColumnError{Table: t.Name, Column: unknown[0]}
	}

	fields := make([]Field, 0, len(values))
	for _, c := range t.Columns {
		v, ok := values[c.Name]
		if !ok {
			continue
		}
		cv, err := coerce(c, v)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Column: c.Name, Value: cv})
	}
	return fields, nil
}

func coerce(c Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Kind {
	case KindInt:
		switch n := v.(type) {
		case json.Number:
			i, err := n.Int64()
			if err != nil {
				return nil, &TypeError{Column: c.Name, Kind: c.Kind}
			}
			return i, nil
		case float64:
			return int64(n), nil
		case int:
			return int64(n), nil
		case int64:
			return n, nil
		case string:
			i, err := strconv.ParseInt(n, 10, 64)
			if err != nil {
				return nil, &TypeError{Column: c.Name, Kind: c.Kind}
			}
			return i, nil
		}
	case KindFloat:
		switch n := v.(type) {
		case json.Number:
			f, err := n.Float64()
			if err != nil {
				return nil, &TypeError{Column: c.Name, Kind: c.Kind}
			}
			return f, nil
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case KindTime:
		switch tv := v.(type) {
		case time.Time:
			return tv, nil
		case string:
			ts, err := time.Parse(time.RFC3339, tv)
			if err != nil {
				return nil, &TypeError{Column: c.Name, Kind: c.Kind}
			}
			return ts, nil
		}
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
	}
	return nil, &TypeError{Column: c.Name, Kind: c.Kind}
}
