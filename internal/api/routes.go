package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/lessons", handler.CreateLesson)
		v1.GET("/lessons/:number/status", handler.GetLessonStatus)

		v1.POST("/cleanup/permissions", handler.CleanupPermissions)
		v1.POST("/cleanup/filenames", handler.CleanupFilenames)

		v1.POST("/registry/refresh", handler.RefreshRegistry)
	}
}
