package review

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay099/work-order-backend/internal/apperror"
	projectentity "github.com/clay099/work-order-backend/internal/project/entity"
	reviewrepo "github.com/clay099/work-order-backend/internal/review/repo"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

type projectsStub map[int64]*projectentity.Project

func (s projectsStub) Get(_ context.Context, id int64) (*projectentity.Project, error) {
	if p, ok := s[id]; ok {
		return p, nil
	}
	return nil, apperror.NotFound("Could not find Project id: %d", id)
}

type ratingsSpy struct{ refreshed []int64 }

func (r *ratingsSpy) RefreshRating(_ context.Context, id int64) error {
	r.refreshed = append(r.refreshed, id)
	return nil
}

var reviewColumns = []string{"project_id", "user_id", "tradesmen_id", "review_comment", "review_rating"}

func newService(t *testing.T) (*Service, *ratingsSpy, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		raw.Close()
	})
	tid := int64(9)
	price := 200.0
	projects := projectsStub{
		4: {ID: 4, UserID: 1, Status: projectentity.StatusCompleted, TradesmenID: &tid, Price: &price},
		5: {ID: 5, UserID: 1, Status: projectentity.StatusInProgress, TradesmenID: &tid, Price: &price},
	}
	spy := &ratingsSpy{}
	return NewService(reviewrepo.NewReviewRepo(sqlx.NewDb(raw, "postgres")), projects, spy), spy, mock
}

func TestCreateReviewsAssignedTradesman(t *testing.T) {
	svc, spy, mock := newService(t)
	mock.ExpectQuery(`SELECT .+ FROM reviews WHERE project_id=\$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(reviewColumns))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reviews (project_id, review_rating, user_id, tradesmen_id) VALUES ($1, $2, $3, $4)")).
		WithArgs(int64(4), int64(5), int64(1), int64(9)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(4, 1, 9, nil, 5))

	rv, err := svc.Create(context.Background(), 1, []qb.Field{
		{Column: "project_id", Value: int64(4)},
		{Column: "review_rating", Value: int64(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), rv.TradesmenID)
	assert.Nil(t, rv.ReviewComment)
	assert.Equal(t, []int64{9}, spy.refreshed)
}

func TestCreateRequiresCompletedProject(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Create(context.Background(), 1, []qb.Field{{Column: "project_id", Value: int64(5)}})
	require.Error(t, err)
	assert.Equal(t, "Project id: 5 must be completed before it can be reviewed", err.Error())

	_, err = svc.Create(context.Background(), 1, []qb.Field{{Column: "project_id", Value: int64(50)}})
	assert.Equal(t, http.StatusNotFound, apperror.Status(err))
}

func TestCreateDuplicate(t *testing.T) {
	svc, spy, mock := newService(t)
	mock.ExpectQuery(`SELECT .+ FROM reviews WHERE project_id=\$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(4, 1, 9, "great", 5))

	_, err := svc.Create(context.Background(), 1, []qb.Field{{Column: "project_id", Value: int64(4)}})
	require.Error(t, err)
	assert.Equal(t, "review already created for project id '4'", err.Error())
	assert.Empty(t, spy.refreshed)
}

func TestRemoveRefreshesRating(t *testing.T) {
	svc, spy, mock := newService(t)
	mock.ExpectQuery(`SELECT .+ FROM reviews WHERE project_id=\$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(4, 1, 9, nil, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE project_id=$1")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Remove(context.Background(), 4))
	assert.Equal(t, []int64{9}, spy.refreshed)
}

func TestGetMissing(t *testing.T) {
	svc, _, mock := newService(t)
	mock.ExpectQuery(`SELECT .+ FROM reviews WHERE project_id=\$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(reviewColumns))

	_, err := svc.Get(context.Background(), 7)
	require.Error(t, err)
	assert.Equal(t, "Could not find review for project id: 7", err.Error())
}
