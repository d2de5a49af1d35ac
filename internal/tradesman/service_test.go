package tradesman

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	tradesmanrepo "github.com/clay099/work-order-backend/internal/tradesman/repo"
	"github.com/clay099/work-order-backend/internal/validation"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

func newService(t *testing.T) (*Service, *tradesmanrepo.TradesmanRepo, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		raw.Close()
	})
	repo := tradesmanrepo.NewTradesmanRepo(sqlx.NewDb(raw, "postgres"))
	svc := NewService(repo, auth.BcryptHasher{Cost: bcrypt.MinCost}, auth.NewTokenService("testKEY", time.Hour), validation.MustNew().Email)
	return svc, repo, mock
}

func TestAuthenticate(t *testing.T) {
	svc, _, mock := newService(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password FROM tradesmen WHERE email=$1")).
			WithArgs("fixit@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}).AddRow(9, "fixit@example.com", string(hash)))
	}

	login, err := svc.Authenticate(context.Background(), "fixit@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, auth.RoleTradesman, login.UserType)
	assert.Equal(t, int64(9), login.ID)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Authenticate(context.Background(), "fixit@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestUpdateCannotTouchRating(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, err := svc.Update(context.Background(), 9, []qb.Field{{Column: "rating", Value: 5.0}})
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))
}

func TestRefreshRating(t *testing.T) {
	_, repo, mock := newService(t)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tradesmen SET rating = (SELECT AVG(review_rating) FROM reviews WHERE tradesmen_id=$1) WHERE id=$1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.RefreshRating(context.Background(), 9))
}

func TestListOrdersByName(t *testing.T) {
	svc, _, mock := newService(t)
	mock.ExpectQuery(`SELECT .+ FROM tradesmen ORDER BY last_name, first_name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "phone", "rating", "is_blocked"}).
			AddRow(9, "Fix", "It", "fixit@example.com", 5550001111, nil, false).
			AddRow(10, "Bob", "Builder", "bob@example.com", 5550002222, 4.5, false))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].Rating)
	assert.Equal(t, 4.5, *list[1].Rating)
}
