package querybuilder

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoFields is returned when nothing is left to write after filtering.
var ErrNoFields = errors.New("no fields to write")

// ConfigError reports a statement that cannot be built from its inputs.
type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return e.Msg }

// Key names the column(s) a statement matches on. One or two columns.
type Key []string

// Statement is parameterized SQL ready for ExecContext / QueryRowxContext.
type Statement struct {
	SQL       string
	Args      []any
	Returning []string
}

// BuildInsert renders INSERT INTO t (cols) VALUES ($1..) RETURNING returning.
func BuildInsert(t Table, fields []Field, returning []string) (Statement, error) {
	if t.Name == "" {
		return Statement{}, &ConfigError{Msg: "table is required"}
	}
	fields, err := writable(t, fields)
	if err != nil {
		return Statement{}, err
	}
	if len(fields) == 0 {
		return Statement{}, ErrNoFields
	}

	cols := make([]string, len(fields))
	marks := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = f.Column
		marks[i] = fmt.Sprintf("$%d", i+1)
		args[i] = f.Value
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.Name, strings.Join(cols, ", "), strings.Join(marks, ", "))
	if len(returning) > 0 {
		q += " RETURNING " + strings.Join(returning, ", ")
	}
	return Statement{SQL: q, Args: args, Returning: returning}, nil
}

// BuildUpdate renders UPDATE t SET a=$1, b=$2 WHERE key=$3 [AND key2=$4].
// Values follow field order, then the key values.
func BuildUpdate(t Table, fields []Field, key Key, ids []any, returning []string) (Statement, error) {
	if err := checkKey(t, key, ids); err != nil {
		return Statement{}, err
	}
	fields, err := writable(t, fields)
	if err != nil {
		return Statement{}, err
	}
	if len(fields) == 0 {
		return Statement{}, ErrNoFields
	}

	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields)+len(ids))
	for i, f := range fields {
		c, _ := t.Column(f.Column)
		if c.Immutable {
			return Statement{}, &ImmutableColumnError{Table: t.Name, Column: f.Column}
		}
		sets[i] = fmt.Sprintf("%s=$%d", f.Column, i+1)
		args = append(args, f.Value)
	}
	args = append(args, ids...)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s", t.Name, strings.Join(sets, ", "), where(key, len(fields)+1))
	if len(returning) > 0 {
		q += " RETURNING " + strings.Join(returning, ", ")
	}
	return Statement{SQL: q, Args: args, Returning: returning}, nil
}

// BuildDelete renders DELETE FROM t WHERE key=$1 [AND key2=$2]; Args echoes ids.
func BuildDelete(t Table, key Key, ids []any) (Statement, error) {
	if err := checkKey(t, key, ids); err != nil {
		return Statement{}, err
	}
	q := fmt.Sprintf("DELETE FROM %s WHERE %s", t.Name, where(key, 1))
	return Statement{SQL: q, Args: ids}, nil
}

func where(key Key, start int) string {
	parts := make([]string, len(key))
	for i, k := range key {
		parts[i] = fmt.Sprintf("%s=$%d", k, start+i)
	}
	return strings.Join(parts, " AND ")
}

func checkKey(t Table, key Key, ids []any) error {
	if t.Name == "" {
		return &ConfigError{Msg: "table is required"}
	}
	if len(key) == 0 || len(key) > 2 {
		return &ConfigError{Msg: "key must name one or two columns"}
	}
	if len(ids) != len(key) {
		return &ConfigError{Msg: fmt.Sprintf("key %v needs %d id value(s), got %d", []string(key), len(key), len(ids))}
	}
	for i, id := range ids {
		if id == nil {
			return &ConfigError{Msg: fmt.Sprintf("id for %s is required", key[i])}
		}
	}
	for _, k := range key {
		if _, ok := t.Column(k); !ok {
			return &UnknownColumnError{Table: t.Name, Column: k}
		}
	}
	return nil
}

// writable drops internal-prefixed fields and rejects columns t does not have.
func writable(t Table, fields []Field) ([]Field, error) {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if strings.HasPrefix(f.Column, InternalPrefix) {
			continue
		}
		if _, ok := t.Column(f.Column); !ok {
			return nil, &UnknownColumnError{Table: t.Name, Column: f.Column}
		}
		out = append(out, f)
	}
	return out, nil
}
