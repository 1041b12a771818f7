package router

import (
	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/internal/container"
	handlers "github.com/oksasatya/projecthub/internal/interface/http"
	"github.com/oksasatya/projecthub/internal/router/modules"
)

type Deps struct {
	Users    *app.UserService
	Auth     *app.AuthService
	Projects *app.ProjectService
	Guard    *app.Guard
}

// BuildDeps constructs the services from what cmd/main put in the container.
func BuildDeps() Deps {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	store := container.GetStore()

	users := app.NewUserService(store, container.GetHasher(), container.GetJWT(), cfg.ConfirmURL, logger)
	users.ConfirmTTL = cfg.ConfirmTTL
	users.Mailer = container.GetMailer()
	users.Avatars = container.GetAvatarStorage()
	users.Directory = container.GetUserDirectory()

	return Deps{
		Users:    users,
		Auth:     app.NewAuthService(store, container.GetJWT(), container.GetHasher(), cfg.SignInTTL, logger),
		Projects: app.NewProjectService(store, logger),
		Guard:    app.NewGuard(store.Roles(), app.DefaultPolicy()),
	}
}

// InitModules initializes all application modules and registers them with the router registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	jwt := container.GetJWT()
	d := BuildDeps()

	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(d.Auth, logger, cfg.CookieDomain, cfg.CookieSecure),
		handlers.NewEmailHandler(d.Users, logger),
		jwt,
	))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(d.Users, logger), jwt))
	r.Add(modules.NewProjectModule(handlers.NewProjectHandler(d.Projects, logger), d.Guard, jwt, logger))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
