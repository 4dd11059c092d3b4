package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chessup-server/internal/interface/http"
)

// AuthModule holds the only public routes: health, signup and login.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Handler.Health)
	rg.POST("/signup", m.Handler.Signup)
	rg.POST("/login", m.Handler.Login)
}
