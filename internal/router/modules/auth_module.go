package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/projecthub/internal/container"
	handlers "github.com/oksasatya/projecthub/internal/interface/http"
	"github.com/oksasatya/projecthub/internal/interface/middleware"
	"github.com/oksasatya/projecthub/pkg/helpers"
)

// AuthModule: public sign-in and confirmation; sign-out and confirmation
// resend need a sign-in token.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Email   *handlers.EmailHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, email *handlers.EmailHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, Email: email, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	signInLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil)
	confirmLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	resendLimiter := middleware.RateLimit(rdb, 5, time.Minute, middleware.KeyByUserID(), nil)

	rg.POST("/auth/signin", signInLimiter, m.Handler.SignIn)
	rg.POST("/auth/confirm", confirmLimiter, m.Handler.Confirm)
	rg.GET("/auth/confirm", confirmLimiter, m.Handler.ConfirmLink)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.POST("/auth/signout", m.Handler.SignOut)
		auth.POST("/auth/confirm/resend", resendLimiter, m.Email.ResendConfirmation)
	}
}
