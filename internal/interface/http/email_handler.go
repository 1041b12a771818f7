package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/interface/middleware"
	"github.com/oksasatya/projecthub/pkg/response"
)

type EmailHandler struct {
	Users  *app.UserService
	Logger *logrus.Logger
}

func NewEmailHandler(users *app.UserService, logger *logrus.Logger) *EmailHandler {
	return &EmailHandler{Users: users, Logger: logger}
}

// ResendConfirmation POST /api/auth/confirm/resend (auth required)
func (h *EmailHandler) ResendConfirmation(c *gin.Context) {
	sent, err := h.Users.ResendConfirmation(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	switch {
	case errors.Is(err, app.ErrMailDisabled):
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": false, "disabled": true}, "email sending disabled", nil)
	case err != nil:
		writeError(c, h.Logger, err)
	case !sent:
		response.Success[any](c, http.StatusOK, gin.H{"already_confirmed": true}, "already confirmed", nil)
	default:
		response.Success[any](c, http.StatusAccepted, gin.H{"enqueued": true}, "confirmation email enqueued", nil)
	}
}
