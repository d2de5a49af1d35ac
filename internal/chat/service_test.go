package chat

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay099/work-order-backend/internal/auth"
	chatrepo "github.com/clay099/work-order-backend/internal/chat/repo"
	qb "github.com/clay099/work-order-backend/pkg/querybuilder"
)

var (
	chatColumns = []string{"id", "project_id", "user_id", "tradesmen_id", "comment", "sent_at"}
	sentAt      = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

func newService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		raw.Close()
	})
	return NewService(chatrepo.NewChatRepo(sqlx.NewDb(raw, "postgres")), nil), mock
}

func TestPostSetsExactlyOneAuthor(t *testing.T) {
	svc, mock := newService(t)
	fields := func() []qb.Field {
		return []qb.Field{{Column: "project_id", Value: int64(4)}, {Column: "comment", Value: "when can you start?"}}
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat (project_id, comment, user_id) VALUES ($1, $2, $3)")).
		WithArgs(int64(4), "when can you start?", int64(1)).
		WillReturnRows(sqlmock.NewRows(chatColumns).AddRow(1, 4, 1, nil, "when can you start?", sentAt))
	c, err := svc.Post(context.Background(), auth.Principal{ID: 1, Role: auth.RoleUser}, fields())
	require.NoError(t, err)
	require.NotNil(t, c.UserID)
	assert.Nil(t, c.TradesmenID)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO chat (project_id, comment, tradesmen_id) VALUES ($1, $2, $3)")).
		WithArgs(int64(4), "when can you start?", int64(9)).
		WillReturnRows(sqlmock.NewRows(chatColumns).AddRow(2, 4, nil, 9, "when can you start?", sentAt))
	c, err = svc.Post(context.Background(), auth.Principal{ID: 9, Role: auth.RoleTradesman}, fields())
	require.NoError(t, err)
	assert.Nil(t, c.UserID)
	assert.Equal(t, int64(9), *c.TradesmenID)
}

func TestUpdateRejectsAuthorChange(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.Update(context.Background(), 1, []qb.Field{{Column: "user_id", Value: int64(2)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}
