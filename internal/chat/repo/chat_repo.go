package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/chat/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Table describes `chat`. Only the comment text can be edited.
var Table = qb.Table{
	Name: "chat",
	Key:  "id",
	Columns: []qb.Column{
		{Name: "id", Kind: qb.KindInt, Immutable: true},
		{Name: "project_id", Kind: qb.KindInt, Immutable: true},
		{Name: "user_id", Kind: qb.KindInt, Nullable: true, Immutable: true},
		{Name: "tradesmen_id", Kind: qb.KindInt, Nullable: true, Immutable: true},
		{Name: "comment", Kind: qb.KindText},
		{Name: "sent_at", Kind: qb.KindTime, Immutable: true},
	},
}

type ChatRepo struct {
	*base.Repo[entity.Chat]
}

func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{Repo: base.New[entity.Chat](db, Table, "chat")}
}

// EnsureTable creates the chat table if not exists (idempotent).
func (r *ChatRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS chat (
  id SERIAL PRIMARY KEY,
  project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
  tradesmen_id INTEGER REFERENCES tradesmen(id) ON DELETE CASCADE,
  comment TEXT NOT NULL,
  sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
  CONSTRAINT chat_one_author CHECK ((user_id IS NULL) <> (tradesmen_id IS NULL))
);
CREATE INDEX IF NOT EXISTS idx_chat_project_id ON chat(project_id);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// ForProject lists a project's comments, newest first.
func (r *ChatRepo) ForProject(ctx context.Context, projectID int64) ([]entity.Chat, error) {
	q := fmt.Sprintf(`SELECT %s FROM chat WHERE project_id=$1 ORDER BY sent_at DESC`, Table.SelectList())
	return r.Select(ctx, q, projectID)
}

func (r *ChatRepo) IDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT id FROM chat WHERE user_id=$1`, userID)
}

func (r *ChatRepo) IDsByTradesman(ctx context.Context, tradesmanID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT id FROM chat WHERE tradesmen_id=$1`, tradesmanID)
}
