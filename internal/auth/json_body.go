package auth

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONBodyMiddleware refuses state-changing requests whose body is not
// declared as application/json. Browsers send text/plain and form bodies
// cross-site without a preflight; a JSON body always needs one. Requests
// without a body pass.
func JSONBodyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || mediaType != "application/json" {
			c.AbortWithStatusJSON(http.StatusUnsupportedMediaType, gin.H{
				"error": "request body must be application/json",
				"code":  "unsupported_media_type",
			})
			return
		}
		c.Next()
	}
}
