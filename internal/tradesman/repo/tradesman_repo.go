package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/tradesman/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Table describes `tradesmen`. rating is derived from reviews and is_blocked
// is administrative, so neither is writable through an update.
var Table = qb.Table{
	Name: "tradesmen",
	Key:  "id",
	Columns: []qb.Column{
		{Name: "id", Kind: qb.KindInt, Immutable: true},
		{Name: "first_name", Kind: qb.KindText},
		{Name: "last_name", Kind: qb.KindText},
		{Name: "email", Kind: qb.KindText},
		{Name: "phone", Kind: qb.KindInt},
		{Name: "rating", Kind: qb.KindFloat, Nullable: true, Immutable: true},
		{Name: "is_blocked", Kind: qb.KindBool, Immutable: true},
		{Name: "password", Kind: qb.KindText, Sensitive: true},
	},
}

type TradesmanRepo struct {
	*base.Repo[entity.Tradesman]
}

func NewTradesmanRepo(db *sqlx.DB) *TradesmanRepo {
	return &TradesmanRepo{Repo: base.New[entity.Tradesman](db, Table, "tradesman")}
}

// EnsureTable creates the tradesmen table if not exists (idempotent).
func (r *TradesmanRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tradesmen (
  id SERIAL PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone BIGINT NOT NULL,
  rating NUMERIC(3,2),
  is_blocked BOOLEAN NOT NULL DEFAULT false,
  password TEXT NOT NULL
);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// All returns every tradesman ordered by last then first name.
func (r *TradesmanRepo) All(ctx context.Context) ([]entity.Tradesman, error) {
	q := fmt.Sprintf(`SELECT %s FROM tradesmen ORDER BY last_name, first_name`, Table.SelectList())
	return r.Select(ctx, q)
}

func (r *TradesmanRepo) CredentialsByEmail(ctx context.Context, email string) (*entity.Credentials, error) {
	const q = `SELECT id, email, password FROM tradesmen WHERE email=$1`
	var c entity.Credentials
	if err := r.DB().GetContext(ctx, &c, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Could not find tradesman email: %s", email)
		}
		return nil, fmt.Errorf("get tradesman credentials: %w", err)
	}
	return &c, nil
}

// RefreshRating recomputes rating as the mean review score, NULL when unreviewed.
func (r *TradesmanRepo) RefreshRating(ctx context.Context, id int64) error {
	const q = `UPDATE tradesmen SET rating = (SELECT AVG(review_rating) FROM reviews WHERE tradesmen_id=$1) WHERE id=$1`
	if _, err := r.DB().ExecContext(ctx, q, id); err != nil {
		return fmt.Errorf("refresh rating: %w", err)
	}
	return nil
}
