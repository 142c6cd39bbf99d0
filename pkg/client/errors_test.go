package client

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status int
		want   error
	}{
		{"unauthorized", http.MethodGet, http.StatusUnauthorized, ErrAuthRequired},
		{"forbidden", http.MethodPatch, http.StatusForbidden, ErrAuthorization},
		{"not found", http.MethodGet, http.StatusNotFound, ErrNotFound},
		{"conflict", http.MethodPatch, http.StatusConflict, ErrConflict},
		{"confirmation", http.MethodDelete, http.StatusPreconditionRequired, ErrConfirmationRequired},
		{"rate limited", http.MethodPost, http.StatusTooManyRequests, ErrRateLimited},
		{"read failure", http.MethodGet, http.StatusInternalServerError, ErrRemoteRead},
		{"write failure", http.MethodPost, http.StatusInternalServerError, ErrRemoteWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newAPIError(tt.method, tt.status, "boom")
			assert.ErrorIs(t, err, tt.want)

			var apiErr *APIError
			assert.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
		})
	}
}

func TestNewAPIError_BadRequestIsValidation(t *testing.T) {
	err := newAPIError(http.MethodPost, http.StatusBadRequest, "goal_amount: must be greater than zero")

	assert.True(t, IsValidation(err))
	assert.Contains(t, err.Error(), "goal_amount")
}
