package middleware

import (
	"log"

	"github.com/gin-gonic/gin"

	"main/utils"
)

func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Recovered from panic: %v", err)
				utils.TrackError("http", "panic")
				c.AbortWithStatus(500)
			}
		}()
		c.Next()
	}
}
