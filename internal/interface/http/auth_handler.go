package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/oksasatya/projecthub/internal/application"
	"github.com/oksasatya/projecthub/pkg/helpers"
	"github.com/oksasatya/projecthub/pkg/response"
	"github.com/oksasatya/projecthub/pkg/validation"
)

type AuthHandler struct {
	Svc     *app.AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *app.AuthService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,max=72"`
}

type confirmRequest struct {
	Code string `json:"code" binding:"required"`
}

// SignIn POST /api/auth/signin {email, password}
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetToken(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, res, "signed in", nil)
}

// Confirm POST /api/auth/confirm {code}
func (h *AuthHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	h.confirm(c, req.Code)
}

// ConfirmLink GET /api/auth/confirm?code=
func (h *AuthHandler) ConfirmLink(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"code": "is required"})
		return
	}
	h.confirm(c, code)
}

func (h *AuthHandler) confirm(c *gin.Context, code string) {
	if err := h.Svc.Confirm(c.Request.Context(), code); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"confirmed": true}, "email confirmed", nil)
}

// SignOut POST /api/auth/signout. Tokens stay valid until they expire.
func (h *AuthHandler) SignOut(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"signed_out": true}, "signed out", nil)
}

func validationDetails(err error) map[string]string {
	return validation.ToDetails(err)
}
