package user

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/auth"
	userrepo "github.com/clay099/work-order-backend/internal/user/repo"
	"github.com/clay099/work-order-backend/internal/validation"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

var userColumns = []string{"id", "first_name", "last_name", "email", "phone", "street_address", "address_city", "address_zip", "address_country"}

type ServiceSuite struct {
	suite.Suite
	mock   sqlmock.Sqlmock
	close  func() error
	tokens *auth.TokenService
	svc    *Service
}

func (s *ServiceSuite) SetupTest() {
	raw, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.mock = mock
	s.close = raw.Close
	s.tokens = auth.NewTokenService("testKEY", time.Hour)
	s.svc = NewService(userrepo.NewUserRepo(sqlx.NewDb(raw, "postgres")),
		auth.BcryptHasher{Cost: bcrypt.MinCost}, s.tokens, validation.MustNew().Email)
}

func (s *ServiceSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.NoError(s.close())
}

func (s *ServiceSuite) TestCreateHashesPassword() {
	fields, err := userrepo.Table.Fields(map[string]any{"email": "alice@example.com", "password": "secret"})
	s.Require().NoError(err)

	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (email, password) VALUES ($1, $2) RETURNING id, first_name")).
		WithArgs("alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "Smith", "alice@example.com", 5551234567, "1 Main St", "Springfield", 12345, "US"))

	u, tok, err := s.svc.Create(context.Background(), fields)
	s.Require().NoError(err)
	s.Equal(int64(1), u.ID)
	s.NotEqual("secret", fields[1].Value)
	s.NoError(bcrypt.CompareHashAndPassword([]byte(fields[1].Value.(string)), []byte("secret")))

	p, err := s.tokens.Verify(tok)
	s.Require().NoError(err)
	s.Equal(auth.Principal{ID: 1, Email: "alice@example.com", Role: auth.RoleUser}, p)
}

func (s *ServiceSuite) TestCreateRejectsBadEmail() {
	_, _, err := s.svc.Create(context.Background(), []qb.Field{{Column: "email", Value: "not-an-email"}})
	s.Require().Error(err)
	s.Equal("not-an-email is not a valid email", err.Error())
}

func (s *ServiceSuite) TestUpdateUnknownColumnIssuesNoSQL() {
	_, _, err := s.svc.Update(context.Background(), 1, []qb.Field{{Column: "nickname", Value: "al"}})
	s.Require().Error(err)
	s.Equal(http.StatusBadRequest, apperror.Status(err))
	s.Contains(err.Error(), `column "nickname" of relation "users" does not exist`)
}

func (s *ServiceSuite) TestUpdatePartialReissuesToken() {
	s.mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET email=$1 WHERE id=$2 RETURNING")).
		WithArgs("al@example.com", int64(1)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "Smith", "al@example.com", 5551234567, "1 Main St", "Springfield", 12345, "US"))

	u, tok, err := s.svc.Update(context.Background(), 1, []qb.Field{{Column: "email", Value: "al@example.com"}})
	s.Require().NoError(err)
	s.Equal("Alice", u.FirstName)
	p, err := s.tokens.Verify(tok)
	s.Require().NoError(err)
	s.Equal("al@example.com", p.Email)
}

func (s *ServiceSuite) TestAuthenticateUnknownEmail() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password FROM users WHERE email=$1")).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password"}))

	_, err := s.svc.Authenticate(context.Background(), "nobody@example.com", "x")
	s.Equal(http.StatusNotFound, apperror.Status(err))
	s.Equal("Could not find User email: nobody@example.com", err.Error())
}

func (s *ServiceSuite) TestRemoveMissing() {
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id=$1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.svc.Remove(context.Background(), 3)
	s.Equal("Could not find User id: 3", err.Error())
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}
