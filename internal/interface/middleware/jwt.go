package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/projecthub/pkg/helpers"
)

const (
	CtxUserIDKey      = "userID"
	CtxProjectRoleKey = "projectRole"
)

// tokenFromRequest reads a bearer token from the Authorization header and
// falls back to the access_token cookie.
func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}
