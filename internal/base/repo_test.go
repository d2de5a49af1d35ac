package base

import (
	"context"
	"database/sql"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/pkg/querybuilder"
)

type widget struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

var widgets = querybuilder.Table{
	Name: "widgets",
	Key:  "id",
	Columns: []querybuilder.Column{
		{Name: "id", Kind: querybuilder.KindInt, Immutable: true},
		{Name: "name", Kind: querybuilder.KindText},
		{Name: "secret", Kind: querybuilder.KindText, Sensitive: true},
	},
}

type RepoSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	raw  *sql.DB
	repo *Repo[widget]
}

func (s *RepoSuite) SetupTest() {
	raw, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.raw = raw
	s.mock = mock
	s.repo = New[widget](sqlx.NewDb(raw, "postgres"), widgets, "widget")
}

func (s *RepoSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.raw.Close()
}

func (s *RepoSuite) TestCreateReturnsPublicColumns() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO widgets (name, secret) VALUES ($1, $2) RETURNING id, name")).
		WithArgs("bolt", "hidden").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "bolt"))

	w, err := s.repo.Create(context.Background(), []querybuilder.Field{
		{Column: "name", Value: "bolt"},
		{Column: "secret", Value: "hidden"},
	})
	s.Require().NoError(err)
	s.Equal(widget{ID: 1, Name: "bolt"}, *w)
}

func (s *RepoSuite) TestCreateSurfacesStoreDetail() {
	s.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO widgets")).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key", Detail: "Key (name)=(bolt) already exists."})

	_, err := s.repo.Create(context.Background(), []querybuilder.Field{{Column: "name", Value: "bolt"}})
	s.Require().Error(err)
	s.Equal(http.StatusBadRequest, apperror.Status(err))
	s.Equal("Key (name)=(bolt) already exists.", err.Error())
	s.True(IsUniqueViolation(err))
}

func (s *RepoSuite) TestGetNotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM widgets WHERE id=$1")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := s.repo.Get(context.Background(), 42)
	s.Equal(http.StatusNotFound, apperror.Status(err))
	s.Equal("Could not find widget id: 42", err.Error())
}

func (s *RepoSuite) TestUpdateUnknownColumnRunsNoSQL() {
	_, err := s.repo.UpdateByKey(context.Background(), 1, []querybuilder.Field{{Column: "colour", Value: "red"}})
	s.Equal(http.StatusBadRequest, apperror.Status(err))
	s.Contains(err.Error(), `column "colour" of relation "widgets" does not exist`)
}

func (s *RepoSuite) TestUpdateImmutableColumn() {
	_, err := s.repo.UpdateByKey(context.Background(), 1, []querybuilder.Field{{Column: "id", Value: 2}})
	s.Equal(http.StatusBadRequest, apperror.Status(err))
}

func (s *RepoSuite) TestUpdateReturnsRefreshedRow() {
	s.mock.ExpectQuery(regexp.QuoteMeta("UPDATE widgets SET name=$1 WHERE id=$2 RETURNING id, name")).
		WithArgs("nut", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "nut"))

	w, err := s.repo.UpdateByKey(context.Background(), 1, []querybuilder.Field{{Column: "name", Value: "nut"}})
	s.Require().NoError(err)
	s.Equal("nut", w.Name)
}

func (s *RepoSuite) TestUpdateMissingRow() {
	s.mock.ExpectQuery(regexp.QuoteMeta("UPDATE widgets")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := s.repo.UpdateByKey(context.Background(), 5, []querybuilder.Field{{Column: "name", Value: "nut"}})
	s.Equal(http.StatusNotFound, apperror.Status(err))
}

func (s *RepoSuite) TestRemove() {
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM widgets WHERE id=$1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.NoError(s.repo.RemoveByKey(context.Background(), 3))
}

func (s *RepoSuite) TestRemoveMissing() {
	s.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM widgets WHERE id=$1")).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := s.repo.RemoveByKey(context.Background(), 3)
	s.Equal(http.StatusNotFound, apperror.Status(err))
}

func (s *RepoSuite) TestSelectEmptyIsNotAnError() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM widgets")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	rows, err := s.repo.Select(context.Background(), "SELECT id, name FROM widgets")
	s.Require().NoError(err)
	s.NotNil(rows)
	s.Empty(rows)
}

func (s *RepoSuite) TestIDs() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM widgets WHERE name=$1")).
		WithArgs("bolt").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(4))

	ids, err := s.repo.IDs(context.Background(), "SELECT id FROM widgets WHERE name=$1", "bolt")
	s.Require().NoError(err)
	s.Equal([]int64{1, 4}, ids)
}

func TestRepoSuite(t *testing.T) {
	suite.Run(t, new(RepoSuite))
}

func TestIsUniqueViolationIgnoresOtherErrors(t *testing.T) {
	assert.False(t, IsUniqueViolation(sql.ErrNoRows))
	require.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
}
