package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chessup-server/internal/interface/http"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
)

// UserModule wires profile, preference and search routes.
// Protected: GET/POST /user, POST /setLanguage, POST /setSetting/:setting_name, GET /users/search
type UserModule struct {
	Handler *handlers.UserHandler
	Tokens  middleware.TokenVerifier
}

func NewUserModule(h *handlers.UserHandler, tokens middleware.TokenVerifier) *UserModule {
	return &UserModule{Handler: h, Tokens: tokens}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.GET("/user", m.Handler.GetProfile)
		auth.POST("/user", m.Handler.UpdateProfile)
		auth.POST("/setLanguage", m.Handler.SetLanguage)
		auth.POST("/setSetting/:setting_name", m.Handler.SetSetting)
		auth.GET("/users/search", m.Handler.Search)
	}
}
