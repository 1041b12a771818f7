package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/domain/repository"
	"github.com/oksasatya/projecthub/pkg/response"
)

// writeError maps application errors onto HTTP statuses. Anything
// unrecognised is a 500 and gets logged with the request id.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, app.ErrAuthenticationFailed):
		status, msg = http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, app.ErrInvalidOrExpiredConfirmation):
		status, msg = http.StatusBadRequest, "invalid or expired confirmation code"
	case errors.Is(err, app.ErrForbidden):
		status, msg = http.StatusForbidden, "forbidden"
	case errors.Is(err, app.ErrUserNotFound):
		status, msg = http.StatusNotFound, "user not found"
	case errors.Is(err, app.ErrProjectNotFound):
		status, msg = http.StatusNotFound, "project not found"
	case errors.Is(err, app.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, repository.ErrSerialization):
		status, msg = http.StatusConflict, "concurrent update, retry the request"
	case errors.Is(err, app.ErrInvalidProjectName), errors.Is(err, app.ErrInvalidRole), errors.Is(err, app.ErrInvalidPassword):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrStorageUnavailable):
		status, msg = http.StatusServiceUnavailable, "avatar storage unavailable"
	case errors.Is(err, app.ErrReconciliationFailed):
		msg = "account creation failed"
	}

	if status >= http.StatusInternalServerError && logger != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("request failed")
	}
	response.Error[any](c, status, msg, nil)
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validationDetails(err))
}
