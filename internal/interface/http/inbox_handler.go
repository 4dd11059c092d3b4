package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/internal/domain/entity"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
	"github.com/oksasatya/chessup-server/pkg/response"
)

type InboxHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewInboxHandler(svc *application.Service, logger *logrus.Logger) *InboxHandler {
	return &InboxHandler{Svc: svc, Logger: logger}
}

type sendOpeningRequest struct {
	Emails  []string        `json:"emails" binding:"required,min=1"`
	Opening *entity.Opening `json:"opening" binding:"required"`
}

// SendOpening answers Ok even when some recipients were skipped.
func (h *InboxHandler) SendOpening(c *gin.Context) {
	var req sendOpeningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	uid := middleware.UserID(c)
	n, err := h.Svc.SendOpening(c.Request.Context(), uid, req.Emails, req.Opening)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Logger.WithFields(logrus.Fields{
		"user_id":    uid,
		"recipients": len(req.Emails),
		"delivered":  n,
	}).Debug("opening shared")
	response.Ok(c)
}

func (h *InboxHandler) DeleteMail(c *gin.Context) {
	k, ok := indexParam(c, "mail_index")
	if !ok {
		return
	}
	if err := h.Svc.DeleteInboxMail(c.Request.Context(), middleware.UserID(c), k); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Ok(c)
}
