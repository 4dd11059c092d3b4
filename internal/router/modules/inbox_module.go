package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chessup-server/internal/interface/http"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
)

type InboxModule struct {
	Handler *handlers.InboxHandler
	Tokens  middleware.TokenVerifier
}

func NewInboxModule(h *handlers.InboxHandler, tokens middleware.TokenVerifier) *InboxModule {
	return &InboxModule{Handler: h, Tokens: tokens}
}

func (m *InboxModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.POST("/sendOpening", m.Handler.SendOpening)
		auth.POST("/deleteMail/:mail_index", m.Handler.DeleteMail)
	}
}
