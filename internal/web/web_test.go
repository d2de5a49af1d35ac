package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/clay099/work-order-backend/internal/apperror"
)

func TestReadPayloadKeepsBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"project_id": 4, "comment": "hi", "_token": "t"}`))
	p, err := ReadPayload(req)
	require.NoError(t, err)

	id, ok := p.Int("project_id")
	assert.True(t, ok)
	assert.Equal(t, int64(4), id)
	assert.Equal(t, "hi", p.String("comment"))
	assert.True(t, p.Has("_token"))

	again, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, p.Raw, again)
}

func TestReadPayloadEmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	p, err := ReadPayload(req)
	require.NoError(t, err)
	assert.Empty(t, p.Values)
}

func TestReadPayloadRejectsArray(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`[1,2]`))
	_, err := ReadPayload(req)
	assert.Equal(t, http.StatusBadRequest, apperror.Status(err))
}

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	Error(rec, req, zap.NewNop().Sugar(), apperror.Unauthorized())

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body["error"]["message"])
	assert.EqualValues(t, 401, body["error"]["status"])
}

func TestErrorHidesInternalFailures(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	Error(rec, req, zap.NewNop().Sugar(), errors.New("dial tcp: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "refused")
}

func TestPathID(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/projects/12", nil), map[string]string{"id": "12"})
	id, err := PathID(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	_, err = PathID(req, "projectId")
	assert.Equal(t, http.StatusNotFound, apperror.Status(err))
}
