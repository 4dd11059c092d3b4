package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
	"github.com/oksasatya/chessup-server/pkg/response"
)

type OpeningHandler struct {
	Svc            *application.Service
	Logger         *logrus.Logger
	MaxUploadBytes int64
}

func NewOpeningHandler(svc *application.Service, logger *logrus.Logger, maxUploadBytes int64) *OpeningHandler {
	return &OpeningHandler{Svc: svc, Logger: logger, MaxUploadBytes: maxUploadBytes}
}

// Only the name is checked; the full body is stored as the opening.
type namedRequest struct {
	Name string `json:"name" binding:"required"`
}

type renameRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

type archivedRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

type subnameRequest struct {
	NewSubname *string `json:"new_subname" binding:"required"`
}

type commentRequest struct {
	Text *string `json:"text" binding:"required"`
}

type drawBoardRequest struct {
	Value any `json:"value"`
}

type renameGroupRequest struct {
	OldName string `json:"old_name" binding:"required"`
	NewName string `json:"new_name" binding:"required"`
}

func (h *OpeningHandler) AddOpening(c *gin.Context) {
	var req namedRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}
	var op entity.Opening
	if err := c.ShouldBindBodyWith(&op, binding.JSON); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.AddOpening(c.Request.Context(), middleware.UserID(c), &op); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) DeleteOpening(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	if err := h.Svc.DeleteOpening(c.Request.Context(), middleware.UserID(c), i); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) RenameOpening(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.RenameOpening(c.Request.Context(), middleware.UserID(c), i, req.NewName); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) SetOpeningArchived(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	var req archivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.SetOpeningArchived(c.Request.Context(), middleware.UserID(c), i, *req.Archived); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) AddVariation(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	var req namedRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		bindError(c, err)
		return
	}
	var v entity.Variation
	if err := c.ShouldBindBodyWith(&v, binding.JSON); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.AddVariation(c.Request.Context(), middleware.UserID(c), i, &v); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) SetVariationArchived(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	j, ok := indexParam(c, "vari_index")
	if !ok {
		return
	}
	var req archivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.SetVariationArchived(c.Request.Context(), middleware.UserID(c), i, j, *req.Archived); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) RenameVariation(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	j, ok := indexParam(c, "vari_index")
	if !ok {
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.RenameVariation(c.Request.Context(), middleware.UserID(c), i, j, req.NewName); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) SetVariationSubname(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	j, ok := indexParam(c, "vari_index")
	if !ok {
		return
	}
	var req subnameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.SetVariationSubname(c.Request.Context(), middleware.UserID(c), i, j, *req.NewSubname); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) DeleteVariation(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	j, ok := indexParam(c, "vari_index")
	if !ok {
		return
	}
	if err := h.Svc.DeleteVariation(c.Request.Context(), middleware.UserID(c), i, j); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) EditComment(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	move, ok := labelParam(c, "comment_name")
	if !ok {
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.EditComment(c.Request.Context(), middleware.UserID(c), i, move, *req.Text); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) SetDrawBoard(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	move, ok := labelParam(c, "move_name")
	if !ok {
		return
	}
	var req drawBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Value == nil {
		response.Error(c, 0, "Invalid request body: value is required")
		return
	}
	if err := h.Svc.SetDrawBoard(c.Request.Context(), middleware.UserID(c), i, move, req.Value); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *OpeningHandler) RenameVariationGroup(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	var req renameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.RenameVariationGroup(c.Request.Context(), middleware.UserID(c), i, req.OldName, req.NewName); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

// UploadPDF stores the multipart "file" part and answers with its public URL.
func (h *OpeningHandler) UploadPDF(c *gin.Context) {
	i, ok := indexParam(c, "op_index")
	if !ok {
		return
	}
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		response.Error(c, 0, "Invalid request body: file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}
	url, err := h.Svc.UploadOpeningPDF(c.Request.Context(), middleware.UserID(c), i, fh.Filename, contentType, f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, gin.H{"pdfUrl": url})
}
