package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responses are plain text except for reads, which are JSON. Existing
// clients compare bodies verbatim, so no envelope is added.

const OkBody = "Ok"

// HeaderRequestID echoes the id assigned by the request-id middleware.
const HeaderRequestID = "X-Request-ID"

func Text(ctx *gin.Context, status int, body string) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.String(status, body)
}

// Ok acknowledges a mutation.
func Ok(ctx *gin.Context) {
	Text(ctx, http.StatusOK, OkBody)
}

func JSON(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, data)
}

// Error writes message as plain text and stops the handler chain.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.Abort()
	ctx.String(status, message)
}
