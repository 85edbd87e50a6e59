package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// registerStatusRoutes exposes the legacy status and stats endpoints: store
// liveness booleans and collection counts.
func registerStatusRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/status", func(c *gin.Context) {
		ctx := c.Request.Context()
		c.JSON(http.StatusOK, gin.H{
			"redis": deps.Redis.Ping(ctx).Err() == nil,
			"db":    deps.DB.Ping(ctx) == nil,
		})
	})

	router.GET("/stats", func(c *gin.Context) {
		ctx := c.Request.Context()

		users, err := deps.AuthRepo.CountUsers(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count users"})
			return
		}

		files, err := deps.FileRepo.Count(ctx)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count files"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": users, "files": files})
	})
}
