package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/review/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Table describes `reviews`, keyed by the reviewed project.
var Table = qb.Table{
	Name: "reviews",
	Key:  "project_id",
	Columns: []qb.Column{
		{Name: "project_id", Kind: qb.KindInt, Immutable: true},
		{Name: "user_id", Kind: qb.KindInt, Immutable: true},
		{Name: "tradesmen_id", Kind: qb.KindInt, Immutable: true},
		{Name: "review_comment", Kind: qb.KindText, Nullable: true},
		{Name: "review_rating", Kind: qb.KindInt},
	},
}

type ReviewRepo struct {
	*base.Repo[entity.Review]
}

func NewReviewRepo(db *sqlx.DB) *ReviewRepo {
	return &ReviewRepo{Repo: base.New[entity.Review](db, Table, "review for project")}
}

// EnsureTable creates the reviews table if not exists (idempotent).
func (r *ReviewRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS reviews (
  project_id INTEGER PRIMARY KEY REFERENCES projects(id) ON DELETE CASCADE,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  tradesmen_id INTEGER NOT NULL REFERENCES tradesmen(id) ON DELETE CASCADE,
  review_comment TEXT,
  review_rating INTEGER NOT NULL CHECK (review_rating BETWEEN 1 AND 5)
);
CREATE INDEX IF NOT EXISTS idx_reviews_tradesmen_id ON reviews(tradesmen_id);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// ForTradesman lists the reviews a tradesman has received.
func (r *ReviewRepo) ForTradesman(ctx context.Context, tradesmanID int64) ([]entity.Review, error) {
	q := fmt.Sprintf(`SELECT %s FROM reviews WHERE tradesmen_id=$1 ORDER BY project_id DESC`, Table.SelectList())
	return r.Select(ctx, q, tradesmanID)
}

func (r *ReviewRepo) ProjectIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT project_id FROM reviews WHERE user_id=$1`, userID)
}
