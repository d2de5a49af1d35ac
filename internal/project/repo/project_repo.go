package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/project/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Table describes `projects`.
var Table = qb.Table{
	Name: "projects",
	Key:  "id",
	Columns: []qb.Column{
		{Name: "id", Kind: qb.KindInt, Immutable: true},
		{Name: "user_id", Kind: qb.KindInt, Immutable: true},
		{Name: "description", Kind: qb.KindText},
		{Name: "street_address", Kind: qb.KindText},
		{Name: "address_city", Kind: qb.KindText},
		{Name: "address_zip", Kind: qb.KindInt},
		{Name: "address_country", Kind: qb.KindText},
		{Name: "created_at", Kind: qb.KindTime, Immutable: true},
		{Name: "price", Kind: qb.KindFloat, Nullable: true},
		{Name: "tradesmen_id", Kind: qb.KindInt, Nullable: true},
		{Name: "status", Kind: qb.KindText},
		{Name: "completed_at", Kind: qb.KindTime, Nullable: true},
		{Name: "issues", Kind: qb.KindText, Nullable: true},
	},
}

type ProjectRepo struct {
	*base.Repo[entity.Project]
}

func NewProjectRepo(db *sqlx.DB) *ProjectRepo {
	return &ProjectRepo{Repo: base.New[entity.Project](db, Table, "Project")}
}

// EnsureTable creates the projects table if not exists (idempotent).
// UNIQUE(user_id, description) backs the duplicate-project rule.
func (r *ProjectRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS projects (
  id SERIAL PRIMARY KEY,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  description TEXT NOT NULL,
  street_address TEXT NOT NULL,
  address_city TEXT NOT NULL,
  address_zip INTEGER NOT NULL,
  address_country TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  price NUMERIC(12,2),
  tradesmen_id INTEGER REFERENCES tradesmen(id) ON DELETE RESTRICT,
  status TEXT NOT NULL DEFAULT 'auction',
  completed_at TIMESTAMPTZ,
  issues TEXT,
  CONSTRAINT projects_user_description_key UNIQUE (user_id, description)
);
CREATE INDEX IF NOT EXISTS idx_projects_tradesmen_id ON projects(tradesmen_id);
CREATE INDEX IF NOT EXISTS idx_projects_status ON projects(status);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// AllForUser lists the projects a user requested, newest first.
func (r *ProjectRepo) AllForUser(ctx context.Context, userID int64) ([]entity.Project, error) {
	q := fmt.Sprintf(`SELECT %s FROM projects WHERE user_id=$1 ORDER BY created_at DESC`, Table.SelectList())
	return r.Select(ctx, q, userID)
}

// AllForTradesman lists the projects a tradesman is assigned to, newest first.
func (r *ProjectRepo) AllForTradesman(ctx context.Context, tradesmanID int64) ([]entity.Project, error) {
	q := fmt.Sprintf(`SELECT %s FROM projects WHERE tradesmen_id=$1 ORDER BY created_at DESC`, Table.SelectList())
	return r.Select(ctx, q, tradesmanID)
}

// OpenForBidding lists projects still in auction, newest first.
func (r *ProjectRepo) OpenForBidding(ctx context.Context) ([]entity.Project, error) {
	q := fmt.Sprintf(`SELECT %s FROM projects WHERE status=$1 ORDER BY created_at DESC`, Table.SelectList())
	return r.Select(ctx, q, string(entity.StatusAuction))
}

// ByDescription finds a user's project by its description; nil when absent.
func (r *ProjectRepo) ByDescription(ctx context.Context, userID int64, description string) (*entity.Project, error) {
	q := fmt.Sprintf(`SELECT %s FROM projects WHERE user_id=$1 AND description=$2`, Table.SelectList())
	var p entity.Project
	if err := r.DB().GetContext(ctx, &p, q, userID, description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project by description: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepo) IDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT id FROM projects WHERE user_id=$1`, userID)
}

func (r *ProjectRepo) IDsForTradesman(ctx context.Context, tradesmanID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT id FROM projects WHERE tradesmen_id=$1`, tradesmanID)
}
