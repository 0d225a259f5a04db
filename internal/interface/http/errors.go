package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realestate-api/internal/application"
	"github.com/oksasatya/realestate-api/internal/domain/entity"
	"github.com/oksasatya/realestate-api/pkg/response"
)

// principalFrom builds the request principal from whatever the auth
// middleware resolved; the zero value is anonymous.
func principalFrom(c *gin.Context) entity.Principal {
	return entity.Principal{UserID: c.GetString("userID")}
}

// writeServiceError maps application error kinds onto HTTP statuses and the
// uniform envelope.
func writeServiceError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "you do not own this listing", nil)
	case errors.Is(err, application.ErrUnauthenticated):
		response.Error[any](c, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, application.ErrNotConfigured):
		response.Error[any](c, http.StatusNotImplemented, "upload provider not configured", nil)
	case errors.Is(err, application.ErrEmailTaken):
		response.Error[any](c, http.StatusConflict, "email already registered", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	default:
		if logger != nil {
			logger.WithError(err).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
