package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/stretchr/testify/assert"
)

func TestRespondError_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &services.ValidationError{Field: "title", Message: "is required"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("create: %w", &services.ValidationError{Field: "x", Message: "y"}), http.StatusBadRequest},
		{"transition", services.ErrInvalidTransition, http.StatusBadRequest},
		{"storage rejection", storage.ErrTooLarge, http.StatusBadRequest},
		{"auth required", services.ErrAuthRequired, http.StatusUnauthorized},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"authorization", services.ErrAuthorization, http.StatusForbidden},
		{"not found", fmt.Errorf("campaign: %w", services.ErrNotFound), http.StatusNotFound},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"username taken", services.ErrUsernameTaken, http.StatusConflict},
		{"confirmation", services.ErrConfirmationRequired, http.StatusPreconditionRequired},
		{"remote write", fmt.Errorf("%w: timeout", services.ErrRemoteWrite), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := drift.New()
			app.Get("/x", func(c *drift.Context) {
				respondError(c, tt.err, "failed")
			})

			rec := serve(t, app, http.MethodGet, "/x", nil, "")

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}
