package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/photo/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

var Table = qb.Table{
	Name: "photos",
	Key:  "id",
	Columns: []qb.Column{
		{Name: "id", Kind: qb.KindInt, Immutable: true},
		{Name: "project_id", Kind: qb.KindInt, Immutable: true},
		{Name: "photo_link", Kind: qb.KindText},
		{Name: "description", Kind: qb.KindText},
		{Name: "after", Kind: qb.KindBool},
		{Name: "user_id", Kind: qb.KindInt, Immutable: true},
	},
}

type PhotoRepo struct {
	*base.Repo[entity.Photo]
}

func NewPhotoRepo(db *sqlx.DB) *PhotoRepo {
	return &PhotoRepo{Repo: base.New[entity.Photo](db, Table, "photo")}
}

// EnsureTable creates the photos table if not exists (idempotent).
func (r *PhotoRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS photos (
  id SERIAL PRIMARY KEY,
  project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
  photo_link TEXT NOT NULL,
  description TEXT NOT NULL,
  after BOOLEAN NOT NULL DEFAULT false,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_photos_project_id ON photos(project_id);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// All lists every photo grouped by project.
func (r *PhotoRepo) All(ctx context.Context) ([]entity.Photo, error) {
	q := fmt.Sprintf(`SELECT %s FROM photos ORDER BY project_id, id`, Table.SelectList())
	return r.Select(ctx, q)
}

// ForProject lists a project's photos, befores first.
func (r *PhotoRepo) ForProject(ctx context.Context, projectID int64) ([]entity.Photo, error) {
	q := fmt.Sprintf(`SELECT %s FROM photos WHERE project_id=$1 ORDER BY after, id`, Table.SelectList())
	return r.Select(ctx, q, projectID)
}

func (r *PhotoRepo) IDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	return r.IDs(ctx, `SELECT id FROM photos WHERE user_id=$1`, userID)
}
