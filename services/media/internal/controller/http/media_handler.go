package http

import (
	"errors"
	"io/fs"
	"net/http"

	"estate-market/pkg/logger"
	"estate-market/pkg/models"
	"estate-market/pkg/pathsafe"
	"estate-market/pkg/response"
	"estate-market/services/media/internal/storage"
	"estate-market/services/media/internal/usecase"

	"github.com/gin-gonic/gin"
)

const immutableCacheControl = "public, max-age=31536000, immutable"

type MediaHandler struct {
	media  *storage.MediaStore
	logger *logger.Logger
}

func NewMediaHandler(media *storage.MediaStore, logger *logger.Logger) *MediaHandler {
	return &MediaHandler{media: media, logger: logger}
}

// Serve godoc
// @Summary      Serve a committed media file
// @Description  Committed filenames never change, so responses are cacheable forever.
// @Tags         media
// @Produce      octet-stream
// @Param        kind path string true "videos or images"
// @Param        filename path string true "Committed filename"
// @Success      200
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /media/{kind}/{filename} [get]
func (h *MediaHandler) Serve(c *gin.Context) {
	kind, ok := models.MediaKindFromDir(c.Param("kind"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
		return
	}

	filename := c.Param("filename")
	path, _, err := h.media.Stat(kind, filename)
	if err != nil {
		switch {
		case errors.Is(err, pathsafe.ErrInvalidSegment), errors.Is(err, pathsafe.ErrOutsideBase):
			response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		case errors.Is(err, fs.ErrNotExist):
			response.Fail(c, http.StatusNotFound, response.MsgNotFound)
		default:
			response.ServerError(c, h.logger, "[MEDIA] stat", err)
		}
		return
	}

	c.Header("Cache-Control", immutableCacheControl)
	c.Header("Content-Type", usecase.ContentType(filename))
	c.File(path)
}
