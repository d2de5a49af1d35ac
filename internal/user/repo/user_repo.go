package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/base"
	"github.com/clay099/work-order-backend/internal/user/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

// Table describes `users`.
var Table = qb.Table{
	Name: "users",
	Key:  "id",
	Columns: []qb.Column{
		{Name: "id", Kind: qb.KindInt, Immutable: true},
		{Name: "first_name", Kind: qb.KindText},
		{Name: "last_name", Kind: qb.KindText},
		{Name: "email", Kind: qb.KindText},
		{Name: "phone", Kind: qb.KindInt},
		{Name: "street_address", Kind: qb.KindText},
		{Name: "address_city", Kind: qb.KindText},
		{Name: "address_zip", Kind: qb.KindInt},
		{Name: "address_country", Kind: qb.KindText},
		{Name: "password", Kind: qb.KindText, Sensitive: true},
	},
}

// UserRepo provides data access for the users table.
type UserRepo struct {
	*base.Repo[entity.User]
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{Repo: base.New[entity.User](db, Table, "User")}
}

// EnsureTable creates the users table if not exists (idempotent).
func (r *UserRepo) EnsureTable(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS users (
  id SERIAL PRIMARY KEY,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone BIGINT NOT NULL,
  street_address TEXT NOT NULL,
  address_city TEXT NOT NULL,
  address_zip INTEGER NOT NULL,
  address_country TEXT NOT NULL,
  password TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_last_first ON users(last_name, first_name);
`
	_, err := r.DB().ExecContext(ctx, ddl)
	return err
}

// All returns every user ordered by last then first name.
func (r *UserRepo) All(ctx context.Context) ([]entity.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users ORDER BY last_name, first_name`, Table.SelectList())
	return r.Select(ctx, q)
}

// CredentialsByEmail is the only read that returns the password hash.
func (r *UserRepo) CredentialsByEmail(ctx context.Context, email string) (*entity.Credentials, error) {
	const q = `SELECT id, email, password FROM users WHERE email=$1`
	var c entity.Credentials
	if err := r.DB().GetContext(ctx, &c, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Could not find User email: %s", email)
		}
		return nil, fmt.Errorf("get user credentials: %w", err)
	}
	return &c, nil
}
