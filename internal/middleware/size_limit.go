package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/utilities"
)

// headroom for multipart boundaries and form field names
const multipartOverhead = 8 << 10

// LimitBodySize rejects requests whose body exceeds maxBytes (plus a small
// multipart overhead). Abort happens when the handler reads past the cap.
func LimitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > maxBytes+multipartOverhead {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
				Error: "Request body too large",
			})
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes+multipartOverhead)
		ctx.Next()
	}
}
