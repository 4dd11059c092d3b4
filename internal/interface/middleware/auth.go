package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/pkg/helpers"
	"github.com/oksasatya/chessup-server/pkg/response"
)

type TokenVerifier interface {
	VerifyToken(token string) (*helpers.Claims, error)
}

// Auth requires "Authorization: Bearer <token>" and stores the token's user id
// under CtxUserIDKey. Both failures answer 400, which existing clients expect.
func Auth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, http.StatusBadRequest, application.MsgMissingAuthHeader)
			return
		}
		claims, err := tokens.VerifyToken(token)
		if err != nil {
			response.Error(c, http.StatusBadRequest, application.MsgInvalidToken)
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Next()
	}
}
