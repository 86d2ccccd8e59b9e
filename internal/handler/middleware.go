package handler

import (
	"github.com/gin-gonic/gin"
)

// NoStore keeps browsers and proxies from holding on to λF responses. The
// server-side record cache is the only cache that should apply.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
