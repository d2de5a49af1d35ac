package validation

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clay099/work-order-backend/internal/apperror"
)

func TestEverySchemaCompiles(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	for _, name := range []string{
		User, UserUpdate, Tradesman, TradesmanUpdate, Login, Project, ProjectUpdate,
		Bid, BidUpdate, Chat, ChatUpdate, Photo, PhotoUpdate, Review, ReviewUpdate,
	} {
		assert.Contains(t, v.schemas, name)
	}
}

func TestValidPayloadPasses(t *testing.T) {
	v := MustNew()
	err := v.Validate(context.Background(), Chat, []byte(`{"project_id": 1, "comment": "on my way", "_token": "x"}`))
	assert.NoError(t, err)
}

func TestMissingFieldsListEveryFailure(t *testing.T) {
	v := MustNew()
	err := v.Validate(context.Background(), Photo, []byte(`{"project_id": "one"}`))
	require.Error(t, err)

	var ae *apperror.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.IsType(t, []string{}, ae.Message())
	assert.NotEmpty(t, ae.Messages)
}

func TestUnknownSchema(t *testing.T) {
	err := MustNew().Validate(context.Background(), "nope", []byte(`{}`))
	assert.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apperror.Status(err))
}

func TestEmail(t *testing.T) {
	v := MustNew()
	assert.NoError(t, v.Email("ann@example.com"))
	err := v.Email("not-an-email")
	require.Error(t, err)
	assert.Equal(t, "not-an-email is not a valid email", err.Error())
}
