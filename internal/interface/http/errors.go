package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/chessup-server/internal/application"
	"github.com/oksasatya/chessup-server/internal/domain/docpath"
	"github.com/oksasatya/chessup-server/internal/interface/middleware"
	"github.com/oksasatya/chessup-server/pkg/helpers"
	"github.com/oksasatya/chessup-server/pkg/response"
	"github.com/oksasatya/chessup-server/pkg/validation"
)

const (
	msgInternal        = "Internal server error"
	msgFeatureDisabled = "This feature is not configured on the server"
)

// writeError maps service errors to status codes. Client errors carry their
// own message; anything else is logged and hidden behind a 500.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	switch {
	case application.IsClientError(err):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrFeatureDisabled):
		response.Error(c, http.StatusServiceUnavailable, msgFeatureDisabled)
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
			"user_id":    middleware.UserID(c),
		})
		response.Error(c, http.StatusInternalServerError, msgInternal)
	}
}

func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, validation.Message(err))
}

func indexParam(c *gin.Context, name string) (docpath.Index, bool) {
	i, err := docpath.ParseIndex(c.Param(name))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid "+name+": must be a non-negative integer")
		return 0, false
	}
	return i, true
}

func labelParam(c *gin.Context, name string) (docpath.Label, bool) {
	l, err := docpath.ParseLabel(c.Param(name))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid "+name+": must not be empty, contain '.', or start with '$'")
		return "", false
	}
	return l, true
}
