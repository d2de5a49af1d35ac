package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/bid/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Table describes `bids`. Only the amount is writable after creation.
var Table = qb.Table{
	Name: "bids",
	Key:  "id",
	Columns: []qb.Column{
		{Name: "id", Kind: qb.KindInt, Immutable: true},
		{Name: "project_id", Kind: qb.KindInt, Immutable: true},
		{Name: "tradesmen_id", Kind: qb.KindInt, Immutable: true},
		{Name: "bid", Kind: qb.KindFloat},
	},
}

type BidRepo struct {
	*base.Repo[entity.Bid]
}

func NewBidRepo(db *sqlx.DB) *BidRepo {
	return &BidRepo{Repo: base.New[entity.Bid](db, Table, "bid")}
}

// EnsureTable creates the bids table if not exists (idempotent).
// A tradesman holds at most one bid per project.
func (r *BidRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS bids (
  id SERIAL PRIMARY KEY,
  project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  tradesmen_id INTEGER NOT NULL REFERENCES tradesmen(id) ON DELETE CASCADE,
  bid NUMERIC(12,2) NOT NULL CHECK (bid >= 0),
  CONSTRAINT bids_project_tradesmen_key UNIQUE (project_id, tradesmen_id)
);
CREATE INDEX IF NOT EXISTS idx_bids_tradesmen_id ON bids(tradesmen_id);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// ForProject lists a project's bids, cheapest first, with the bidder's name.
func (r *BidRepo) ForProject(ctx context.Context, projectID int64) ([]entity.BidWithTradesman, error) {
	const q = `
SELECT b.id, b.project_id, b.tradesmen_id, b.bid, t.first_name, t.last_name
FROM bids b
JOIN tradesmen t ON t.id = b.tradesmen_id
WHERE b.project_id=$1
ORDER BY b.bid, b.id`
	bids := make([]entity.BidWithTradesman, 0)
	if err := r.DB().SelectContext(ctx, &bids, q, projectID); err != nil {
		return nil, fmt.Errorf("select project bids: %w", err)
	}
	return bids, nil
}

func (r *BidRepo) IDsForTradesman(ctx context.Context, tradesmanID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT id FROM bids WHERE tradesmen_id=$1`, tradesmanID)
}
