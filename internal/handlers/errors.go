package handlers

import (
	"errors"
	"net/http"

	"github.com/dimitrije/crowdfund-api/internal/services"
	"github.com/dimitrije/crowdfund-api/internal/storage"
	"github.com/dimitrije/crowdfund-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
	"github.com/rs/zerolog"
)

// respondError translates a service error into an HTTP response. Anything
// outside the known taxonomy is logged and answered with fallback.
func respondError(c *drift.Context, err error, fallback string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.BadRequest(verr.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		c.BadRequest(err.Error())
	case storage.IsRejected(err):
		c.BadRequest(err.Error())
	case errors.Is(err, services.ErrAuthRequired),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAuth):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrAuthorization):
		c.Forbidden(err.Error())
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(err.Error())
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrUsernameTaken):
		_ = c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrConfirmationRequired):
		_ = c.JSON(http.StatusPreconditionRequired, dto.ErrorResponse{Error: err.Error()})
	default:
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.Request.URL.Path).Msg(fallback)
		c.InternalServerError(fallback)
	}
}
