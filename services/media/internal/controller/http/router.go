package http

import (
	"estate-market/pkg/guard"
	"estate-market/pkg/middleware"
	"estate-market/pkg/models"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Uploads *UploadHandler
	Media   *MediaHandler
	Videos  *VideoHandler
}

// RegisterRoutes mounts the media API on r. limiter guards /api/v1, keyed by
// caller when a valid token is present, and may be nil.
func RegisterRoutes(r *gin.Engine, g *guard.Guard, h Handlers, limiter gin.HandlerFunc) {
	r.GET("/media/:kind/:filename", h.Media.Serve)

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalIdentity(g))
	if limiter != nil {
		api.Use(limiter)
	}

	admin := middleware.RequireRoles(g, models.AdminRoles...)
	authenticated := middleware.RequireRoles(g)

	uploads := api.Group("/media")
	{
		uploads.POST("/videos/chunks", admin, h.Uploads.UploadVideoChunk)
		uploads.POST("/videos/finalize", admin, h.Uploads.FinalizeVideo)
		uploads.POST("/images/chunks", authenticated, h.Uploads.UploadImageChunk)
		uploads.POST("/images/finalize", authenticated, h.Uploads.FinalizeImage)
		uploads.GET("/uploads/:uploadId", authenticated, h.Uploads.Status)
		uploads.DELETE("/uploads/:uploadId", authenticated, h.Uploads.Cancel)
	}

	videos := api.Group("/videos")
	{
		videos.GET("", h.Videos.ListVideos)
		videos.GET("/:id", h.Videos.GetVideo)
		videos.PUT("/:id", admin, h.Videos.UpdateVideo)
		videos.DELETE("/:id", admin, h.Videos.DeleteVideo)
	}
}
