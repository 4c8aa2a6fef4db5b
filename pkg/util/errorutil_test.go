package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-stack/grievance-service/internal/domain"
)

func TestToDomainErrorPassesThrough(t *testing.T) {
	original := NewConflict("already assigned", map[string]any{"ticket_id": "t-1"})
	mapped := ToDomainError(original)
	assert.Equal(t, "CONFLICT", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
}

func TestToDomainErrorWrapsTransition(t *testing.T) {
	te := &domain.TransitionError{
		From:   domain.TicketStatusClosed,
		To:     domain.TicketStatusClosed,
		Role:   domain.RoleAdmin,
		Reason: "no such transition",
	}
	mapped := ToDomainError(te)
	assert.Equal(t, "TRANSITION_INVALID", mapped.Code)
	assert.Equal(t, http.StatusConflict, mapped.HTTPStatus)
	assert.Equal(t, domain.TicketStatusClosed, mapped.Details["from"])
	assert.Equal(t, "no such transition", mapped.Details["reason"])

	var unwrapped *domain.TransitionError
	require.ErrorAs(t, mapped, &unwrapped, "the original transition error stays reachable")
}

func TestToDomainErrorNoRows(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainErrorUnknownIsBackendFailure(t *testing.T) {
	mapped := ToDomainError(errors.New("connection refused"))
	assert.Equal(t, "BACKEND_ERROR", mapped.Code)
	assert.Equal(t, http.StatusBadGateway, mapped.HTTPStatus)
}

func TestMapErrorNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}
