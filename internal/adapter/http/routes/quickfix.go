package routes

import (
	"net/http"
	"os"

	"quickfix/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathAuth     = "/auth"
	PathRequests = "/requests"
)

func addPingRoutes(rg *gin.RouterGroup) {
	rg.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func addAuthRoutes(rg *gin.RouterGroup, authHandler *handlers.AuthHandler, sessionRequired, customerRequired gin.HandlerFunc) {
	authGroup := rg.Group(PathAuth)
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", sessionRequired, authHandler.Logout)
	}

	// Profile resolution runs the full identity pipeline, including the
	// forced logout on a missing profile.
	rg.GET("/me", sessionRequired, customerRequired, authHandler.Me)
}

func addRequestRoutes(rg *gin.RouterGroup, requestHandler *handlers.RequestHandler, sessionRequired, customerRequired gin.HandlerFunc) {
	requests := rg.Group(PathRequests, sessionRequired, customerRequired)
	{
		requests.POST("", requestHandler.Create)
		requests.GET("", requestHandler.List)
		requests.GET("/watch", requestHandler.Watch)
		requests.GET("/:id", requestHandler.Get)
		requests.PATCH("/:id/confirm", requestHandler.Confirm)
		requests.PATCH("/:id/reject", requestHandler.Reject)
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
