package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/chessup-server/internal/interface/http"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
)

type OpeningModule struct {
	Handler *handlers.OpeningHandler
	Tokens  middleware.TokenVerifier
}

func NewOpeningModule(h *handlers.OpeningHandler, tokens middleware.TokenVerifier) *OpeningModule {
	return &OpeningModule{Handler: h, Tokens: tokens}
}

func (m *OpeningModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Tokens))
	{
		auth.POST("/addOpening", m.Handler.AddOpening)
		auth.POST("/deleteOpening/:op_index", m.Handler.DeleteOpening)
		auth.POST("/renameOpening/:op_index", m.Handler.RenameOpening)
		auth.POST("/setOpeningArchived/:op_index", m.Handler.SetOpeningArchived)
		auth.POST("/renameVariations/:op_index", m.Handler.RenameVariationGroup)
		auth.POST("/uploadPdf/:op_index", m.Handler.UploadPDF)

		auth.POST("/addVariation/:op_index", m.Handler.AddVariation)
		auth.POST("/setVariationArchived/:op_index/:vari_index", m.Handler.SetVariationArchived)
		auth.POST("/renameVariation/:op_index/:vari_index", m.Handler.RenameVariation)
		auth.POST("/setVariationSubname/:op_index/:vari_index", m.Handler.SetVariationSubname)
		// lowercase path is what shipped clients call
		auth.POST("/deletevariation/:op_index/:vari_index", m.Handler.DeleteVariation)
		auth.POST("/deleteVariation/:op_index/:vari_index", m.Handler.DeleteVariation)

		auth.POST("/editComment/:op_index/:comment_name", m.Handler.EditComment)
		auth.POST("/setDrawBoardPDF/:op_index/:move_name", m.Handler.SetDrawBoard)
	}
}
