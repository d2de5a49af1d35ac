package bid

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay099/work-order-backend/internal/apperror"
	"github.com/clay099/work-order-backend/internal/bid/entity"
	bidrepo "github.com/clay099/work-order-backend/internal/bid/repo"
	projectentity "github.com/clay099/work-order-backend/internal/project/entity"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

type fakeProjects struct {
	byID     map[int64]*projectentity.Project
	accepted []float64
}

func (f *fakeProjects) Get(_ context.Context, id int64) (*projectentity.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("Could not find Project id: %d", id)
	}
	return p, nil
}

func (f *fakeProjects) Accept(_ context.Context, id, tradesmanID int64, price float64) (*projectentity.Project, error) {
	f.accepted = append(f.accepted, price)
	p := *f.byID[id]
	p.TradesmenID = &tradesmanID
	p.Price = &price
	p.Status = projectentity.StatusAccepted
	return &p, nil
}

func newService(t *testing.T) (*Service, *fakeProjects, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		raw.Close()
	})
	tid := int64(3)
	price := 100.0
	projects := &fakeProjects{byID: map[int64]*projectentity.Project{
		4: {ID: 4, UserID: 1, Status: projectentity.StatusAuction},
		5: {ID: 5, UserID: 1, Status: projectentity.StatusAccepted, TradesmenID: &tid, Price: &price},
	}}
	return NewService(bidrepo.NewBidRepo(sqlx.NewDb(raw, "postgres")), projects), projects, mock
}

var bidColumns = []string{"id", "project_id", "tradesmen_id", "bid"}

func TestPlace(t *testing.T) {
	svc, _, mock := newService(t)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bids (project_id, bid, tradesmen_id) VALUES ($1, $2, $3) RETURNING id, project_id, tradesmen_id, bid")).
		WithArgs(int64(4), 180.5, int64(9)).
		WillReturnRows(sqlmock.NewRows(bidColumns).AddRow(1, 4, 9, 180.5))

	b, err := svc.Place(context.Background(), 9, []qb.Field{
		{Column: "project_id", Value: int64(4)},
		{Column: "bid", Value: 180.5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), b.TradesmenID)
}

func TestPlaceRules(t *testing.T) {
	svc, _, mock := newService(t)

	_, err := svc.Place(context.Background(), 9, []qb.Field{{Column: "project_id", Value: int64(40)}, {Column: "bid", Value: 1.0}})
	assert.Equal(t, http.StatusNotFound, apperror.Status(err))

	_, err = svc.Place(context.Background(), 9, []qb.Field{{Column: "project_id", Value: int64(5)}, {Column: "bid", Value: 1.0}})
	require.Error(t, err)
	assert.Equal(t, "Project id: 5 is not open for bidding", err.Error())

	mock.ExpectQuery(`INSERT INTO bids`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key", Detail: "Key (project_id, tradesmen_id)=(4, 9) already exists."})
	_, err = svc.Place(context.Background(), 9, []qb.Field{{Column: "project_id", Value: int64(4)}, {Column: "bid", Value: 1.0}})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))
	assert.Equal(t, "bid already placed on project id '4'", err.Error())
}

func TestForProjectMayBeEmpty(t *testing.T) {
	svc, _, mock := newService(t)
	mock.ExpectQuery(`SELECT b.id, b.project_id, b.tradesmen_id, b.bid, t.first_name, t.last_name`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(append(bidColumns, "first_name", "last_name")))

	bids, err := svc.ForProject(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, bids)
	assert.Empty(t, bids)
}

func TestUpdateClosedProject(t *testing.T) {
	svc, _, mock := newService(t)
	mock.ExpectQuery(`SELECT .+ FROM bids WHERE id=\$1`).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows(bidColumns).AddRow(2, 5, 9, 150.0))

	_, err := svc.Update(context.Background(), 2, []qb.Field{{Column: "bid", Value: 120.0}})
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))
}

func TestAcceptUsesBidTerms(t *testing.T) {
	svc, projects, _ := newService(t)
	p, err := svc.Accept(context.Background(), &entity.Bid{ID: 1, ProjectID: 4, TradesmenID: 9, Bid: 180.5})
	require.NoError(t, err)
	assert.Equal(t, int64(9), *p.TradesmenID)
	assert.Equal(t, []float64{180.5}, projects.accepted)
}
