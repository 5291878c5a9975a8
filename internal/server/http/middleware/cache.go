package middleware

import "github.com/gin-gonic/gin"

// NoStore marks responses as uncacheable so polling clients see current state.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
