package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/pipeline/api/dto"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("[Recovery] panic recovered: %v\n%s", err, debug.Stack())

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
					http.StatusInternalServerError,
					"Internal Server Error",
				))
			}
		}()
		c.Next()
	}
}
