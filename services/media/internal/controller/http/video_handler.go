package http

import (
	"errors"
	"net/http"
	"strconv"

	"estate-market/pkg/logger"
	"estate-market/pkg/response"
	"estate-market/services/media/internal/usecase"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 50

type VideoHandler struct {
	videos usecase.VideoUseCase
	logger *logger.Logger
}

func NewVideoHandler(videos usecase.VideoUseCase, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{videos: videos, logger: logger}
}

type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Alt         *string `json:"alt"`
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}
	return page, limit
}

// ListVideos godoc
// @Summary      List videos
// @Tags         videos
// @Produce      json
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size (max 50)"
// @Success      200  {object}  map[string]interface{}
// @Router       /videos [get]
func (h *VideoHandler) ListVideos(c *gin.Context) {
	page, limit := pagination(c)

	videos, total, err := h.videos.List(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		response.ServerError(c, h.logger, "[VIDEO] list", err)
		return
	}

	response.OK(c, http.StatusOK, response.MsgOK, gin.H{
		"videos": videos,
		"total":  total,
		"page":   page,
		"limit":  limit,
	})
}

// GetVideo godoc
// @Summary      Get video by ID
// @Tags         videos
// @Produce      json
// @Param        id path string true "Video ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /videos/{id} [get]
func (h *VideoHandler) GetVideo(c *gin.Context) {
	video, err := h.videos.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "[VIDEO] get", err)
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"video": video})
}

// UpdateVideo godoc
// @Summary      Update video metadata
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Video ID"
// @Param        request body UpdateVideoRequest true "Fields to change"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /videos/{id} [put]
func (h *VideoHandler) UpdateVideo(c *gin.Context) {
	var req UpdateVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	video, err := h.videos.Update(c.Request.Context(), c.Param("id"), usecase.VideoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Alt:         req.Alt,
	})
	if err != nil {
		h.fail(c, "[VIDEO] update", err)
		return
	}
	response.OK(c, http.StatusOK, response.MsgUpdated, gin.H{"video": video})
}

// DeleteVideo godoc
// @Summary      Delete a video and its file
// @Tags         videos
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Video ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /videos/{id} [delete]
func (h *VideoHandler) DeleteVideo(c *gin.Context) {
	if err := h.videos.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "[VIDEO] delete", err)
		return
	}
	response.OK(c, http.StatusOK, response.MsgDeleted, nil)
}

func (h *VideoHandler) fail(c *gin.Context, context string, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
	case errors.Is(err, usecase.ErrValidation):
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
	default:
		response.ServerError(c, h.logger, context, err)
	}
}
