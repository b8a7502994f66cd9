package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var failureMessages = map[string]string{
	"/api/analysis":        "분석 중 오류가 발생했습니다",
	"/api/consulting":      "컨설팅 중 오류가 발생했습니다",
	"/api/consulting/chat": "채팅 중 오류가 발생했습니다",
}

const defaultFailureMessage = "서버 오류가 발생했습니다"

// Recovery turns a panic into the standard 500 envelope with a message
// matching the route.
func Recovery(l zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			l.Error().
				Str("request_id", requestID(c)).
				Str("path", c.Request.URL.Path).
				Interface("panic", rec).
				Msg("handler panic")
			msg, ok := failureMessages[c.FullPath()]
			if !ok {
				msg = defaultFailureMessage
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": msg,
				},
			})
		}()
		c.Next()
	}
}
