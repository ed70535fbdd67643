package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	apierrors "github.com/yukikurage/task-marketplace-api/internal/errors"
	"github.com/yukikurage/task-marketplace-api/internal/services"
)

// statusClientClosedRequest is the nginx convention for a caller that
// disconnected before the response was written.
const statusClientClosedRequest = 499

// respondError maps a service error onto the API error envelope. Store
// failures and unknown errors never leak their detail.
func respondError(c *gin.Context, err error) {
	var domainErr *services.DomainError

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.Unauthorized(c, err.Error())
	case errors.As(err, &domainErr):
		switch {
		case errors.Is(domainErr.Kind, services.ErrNotFound):
			apierrors.NotFound(c, domainErr.Msg)
		case errors.Is(domainErr.Kind, services.ErrUnauthorized):
			apierrors.Forbidden(c, domainErr.Msg)
		case errors.Is(domainErr.Kind, services.ErrConflict):
			apierrors.Conflict(c, domainErr.Msg)
		case errors.Is(domainErr.Kind, services.ErrValidation):
			apierrors.BadRequest(c, domainErr.Msg)
		default:
			apierrors.InternalError(c, "")
		}
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, err.Error())
	case errors.Is(err, services.ErrAINoTasksGenerated), errors.Is(err, services.ErrAINoValidTasks):
		apierrors.BadGateway(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		apierrors.ServiceUnavailable(c, "Request timed out")
	case errors.Is(err, context.Canceled):
		// The client is gone; nobody reads the response.
		log.Debug().Str("path", c.FullPath()).Msg("client closed request")
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		apierrors.InternalError(c, "")
	}
}
