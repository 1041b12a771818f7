package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/pkg/response"
)

// RequireProjectRole authorizes op against the project named by the route
// parameter param. It must run after Auth. On success the caller's role is
// stored under projectRole.
func RequireProjectRole(guard *application.Guard, op application.Operation, param string, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param(param)
		role, err := guard.Authorize(c.Request.Context(), op, c.GetString(CtxUserIDKey), projectID)
		if err != nil {
			if errors.Is(err, application.ErrForbidden) {
				response.Abort(c, http.StatusForbidden, "forbidden", nil)
				return
			}
			if logger != nil {
				logger.WithError(err).WithFields(logrus.Fields{
					"op":         string(op),
					"project_id": projectID,
					"request_id": c.GetString("request_id"),
				}).Error("authorization lookup failed")
			}
			response.Abort(c, http.StatusInternalServerError, "authorization unavailable", nil)
			return
		}
		c.Set(CtxProjectRoleKey, role)
		c.Next()
	}
}
