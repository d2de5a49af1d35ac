// Package base is the create/get/update/remove lifecycle every entity
// repository composes: statements come from querybuilder, rows are scanned
// with sqlx, failures become apperror values.
package base

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Repo is the lifecycle for rows of one table scanned into T.
type Repo[T any] struct {
	db    *sqlx.DB
	table querybuilder.Table
	// noun is used in not-found messages: "Could not find <noun> id: <id>".
	noun  string
}

func New[T any](db *sqlx.DB, table querybuilder.Table, noun string) *Repo[T] {
	return &Repo[T]{db: db, table: table, noun: noun}
}

func (r *Repo[T]) DB() *sqlx.DB              { return r.db }
func (r *Repo[T]) Table() querybuilder.Table { return r.table }

// NotFound builds the standard not-found error for id.
func (r *Repo[T]) NotFound(id any) error {
	return apperror.NotFound("Could not find %s id: %v", r.noun, id)
}

// Create inserts fields and returns the stored row without sensitive columns.
func (r *Repo[T]) Create(ctx context.Context, fields []querybuilder.Field) (*T, error) {
	st, err := querybuilder.BuildInsert(r.table, fields, r.table.Public())
	if err != nil {
		return nil, builderError(err)
	}
	var row T
	if err := r.db.QueryRowxContext(ctx, st.SQL, st.Args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.BadRequest("Could not create %s", r.noun)
		}
		return nil, storeError(err, true)
	}
	return &row, nil
}

// Get fetches a row by the table key.
func (r *Repo[T]) Get(ctx context.Context, id any) (*T, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s=$1", r.table.SelectList(), r.table.Name, r.table.Key)
	return r.GetBy(ctx, r.NotFound(id), q, id)
}

// GetBy runs q and scans a single row; no row yields notFound.
func (r *Repo[T]) GetBy(ctx context.Context, notFound error, q string, args ...any) (*T, error) {
	var row T
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, fmt.Errorf("get %s: %w", r.table.Name, err)
	}
	return &row, nil
}

// Select runs q and scans every row. An empty result is an empty slice.
func (r *Repo[T]) Select(ctx context.Context, q string, args ...any) ([]T, error) {
	rows := make([]T, 0)
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.table.Name, err)
	}
	return rows, nil
}

// IDs runs q and returns the first column of every row as int64.
func (r *Repo[T]) IDs(ctx context.Context, q string, args ...any) ([]int64, error) {
	ids := make([]int64, 0)
	if err := r.db.SelectContext(ctx, &ids, q, args...); err != nil {
		return nil, fmt.Errorf("select %s ids: %w", r.table.Name, err)
	}
	return ids, nil
}

// Update writes fields to the row matched by key/ids and returns it refreshed.
// Unknown or protected columns are rejected before any SQL runs.
func (r *Repo[T]) Update(ctx context.Context, fields []querybuilder.Field, key querybuilder.Key, ids ...any) (*T, error) {
	st, err := querybuilder.BuildUpdate(r.table, fields, key, ids, r.table.Public())
	if err != nil {
		return nil, builderError(err)
	}
	var row T
	if err := r.db.QueryRowxContext(ctx, st.SQL, st.Args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, r.NotFound(ids[0])
		}
		return nil, storeError(err, false)
	}
	return &row, nil
}

// UpdateByKey is Update against the table's own key.
func (r *Repo[T]) UpdateByKey(ctx context.Context, id any, fields []querybuilder.Field) (*T, error) {
	return r.Update(ctx, fields, querybuilder.Key{r.table.Key}, id)
}

// Remove deletes the row matched by key/ids.
func (r *Repo[T]) Remove(ctx context.Context, key querybuilder.Key, ids ...any) error {
	st, err := querybuilder.BuildDelete(r.table, key, ids)
	if err != nil {
		return builderError(err)
	}
	res, err := r.db.ExecContext(ctx, st.SQL, st.Args...)
	if err != nil {
		return storeError(err, false)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table.Name, err)
	}
	if n == 0 {
		return r.NotFound(ids[0])
	}
	return nil
}

// RemoveByKey is Remove against the table's own key.
func (r *Repo[T]) RemoveByKey(ctx context.Context, id any) error {
	return r.Remove(ctx, querybuilder.Key{r.table.Key}, id)
}

func builderError(err error) error {
	var (
		uc *querybuilder.UnknownColumnError
		ic *querybuilder.ImmutableColumnError
		te *querybuilder.TypeError
		ce *querybuilder.ConfigError
	)
	switch {
	case errors.As(err, &uc), errors.As(err, &ic), errors.As(err, &te):
		return apperror.Validation(err.Error())
	case errors.Is(err, querybuilder.ErrNoFields):
		return apperror.Validation("no updatable fields supplied")
	case errors.As(err, &ce):
		return apperror.New(http.StatusInternalServerError, ce.Msg).Wrap(err)
	}
	return err
}

// storeError maps a driver failure. Creates surface the constraint detail
// ("Key (email)=(x) already exists."); updates surface the raw message.
func storeError(err error, detail bool) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if detail && pqErr.Detail != "" {
		return apperror.Conflict(pqErr.Detail).Wrap(err)
	}
	return apperror.Conflict(pqErr.Message).Wrap(err)
}

// IsUniqueViolation reports a unique_violation from the store.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
