package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
	"github.com/oksasatya/chessup-server/pkg/response"
)

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type setLanguageRequest struct {
	Language any `json:"language"`
}

type setSettingRequest struct {
	Value any `json:"value"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, p)
}

// UpdateProfile merges an arbitrary JSON object into the user document.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), fields); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *UserHandler) SetLanguage(c *gin.Context) {
	var req setLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Language == nil {
		response.Error(c, 0, "Invalid request body: language is required")
		return
	}
	if err := h.Svc.SetLanguage(c.Request.Context(), middleware.UserID(c), req.Language); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

func (h *UserHandler) SetSetting(c *gin.Context) {
	name, ok := labelParam(c, "setting_name")
	if !ok {
		return
	}
	var req setSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Value == nil {
		response.Error(c, 0, "Invalid request body: value is required")
		return
	}
	if err := h.Svc.SetSetting(c.Request.Context(), middleware.UserID(c), name, req.Value); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}

// Search lists emails matching ?q=, for picking share recipients.
func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	emails, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.JSON(c, gin.H{"emails": emails})
}
