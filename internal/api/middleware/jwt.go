package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/utils"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

type apiError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

type TokenParser interface {
	Parse(raw string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token and stores the
// caller's user id and role in the gin context.
func JWTAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "missing bearer token",
			})
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Code:    utils.CodeUnauthorized,
				Message: "invalid token",
			})
			return
		}

		role := claims.Role
		if role == "" {
			role = "user"
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxRole, role)
		c.Next()
	}
}
