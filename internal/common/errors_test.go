package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestWithCode(t *testing.T) {
	err := WithCode(fmt.Errorf("workshop not found: %w", ErrNotFound), "WORKSHOP_NOT_FOUND")

	assert.Equal(t, "WORKSHOP_NOT_FOUND", CodeFromError(err))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "workshop not found: requested resource not found", err.Error())
}

func TestWithCode_SurvivesWrapping(t *testing.T) {
	err := WithCode(fmt.Errorf("already joined: %w", ErrConflict), "ALREADY_JOINED")
	wrapped := fmt.Errorf("joining workshop: %w", err)

	assert.Equal(t, "ALREADY_JOINED", CodeFromError(wrapped))
	assert.Equal(t, http.StatusConflict, HTTPStatusFromError(wrapped))
}

func TestCodeFromError_Defaults(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{ErrNotFound, "NOT_FOUND"},
		{ErrUnauthorized, "UNAUTHORIZED"},
		{ErrForbidden, "FORBIDDEN"},
		{ErrValidation, "VALIDATION_ERROR"},
		{ErrBadRequest, "VALIDATION_ERROR"},
		{ErrConflict, "CONFLICT"},
		{errors.New("boom"), "SERVER_ERROR"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, CodeFromError(tc.err), tc.err)
	}
}

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("x: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", ErrUnauthorized), http.StatusUnauthorized},
		{fmt.Errorf("x: %w", ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("x: %w", ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("x: %w", ErrConflict), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatusFromError(tc.err), tc.err)
	}
}

func TestUniqueViolationMapsToConflict(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	err := fmt.Errorf("pgUserRepository.Create: %w", pgErr)

	assert.Equal(t, http.StatusConflict, HTTPStatusFromError(err))
	assert.Equal(t, "CONFLICT", CodeFromError(err))
}
