package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/container"
	handlers "github.com/oksasatya/projecthub/internal/interface/http"
	"github.com/oksasatya/projecthub/internal/interface/middleware"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

// ProjectModule wires project routes. Everything under
// /projects/:projectID passes the guard for its operation first.
type ProjectModule struct {
	Handler *handlers.ProjectHandler
	Guard   *app.Guard
	JWT     *helpers.JWTManager
	Logger  *logrus.Logger
}

func NewProjectModule(h *handlers.ProjectHandler, guard *app.Guard, jwt *helpers.JWTManager, logger *logrus.Logger) *ProjectModule {
	return &ProjectModule{Handler: h, Guard: guard, JWT: jwt, Logger: logger}
}

func (m *ProjectModule) role(op app.Operation) gin.HandlerFunc {
	return middleware.RequireProjectRole(m.Guard, op, handlers.ProjectIDParam, m.Logger)
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()

	auth := rg.Group("/projects")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	auth.POST("", m.Handler.Create)

	p := auth.Group("/:" + handlers.ProjectIDParam)
	{
		p.GET("", m.role(app.OpProjectRead), m.Handler.Get)
		p.PATCH("", m.role(app.OpProjectUpdate), m.Handler.Update)
		p.DELETE("", m.role(app.OpProjectDelete), m.Handler.Delete)
		p.POST("/invites", m.role(app.OpProjectInvite), middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByUserID(), nil), m.Handler.Invite)
		p.GET("/invites", m.role(app.OpProjectListInvites), m.Handler.ListInvites)
	}
}
