package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/projecthub/pkg/helpers"
	"github.com/oksasatya/projecthub/pkg/response"
)

// Auth validates the sign-in token and sets userID in the Gin context.
// Tokens minted for another purpose, such as email confirmation, are refused.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing access token", nil)
			return
		}
		claims, err := jwt.Verify(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, helpers.ErrExpiredToken) {
				msg = "access token expired"
			}
			response.Abort(c, http.StatusUnauthorized, msg, nil)
			return
		}
		if claims.Purpose != "" {
			response.Abort(c, http.StatusUnauthorized, "invalid access token", nil)
			return
		}

		c.Set(CtxUserIDKey, claims.Subject)
		c.Next()
	}
}
