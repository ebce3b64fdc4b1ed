package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	"estate-market/pkg/models"
	"estate-market/pkg/response"
	"estate-market/services/media/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgChunkReceived   = "قطعه با موفقیت دریافت شد"
	msgUploadCompleted = "فایل با موفقیت آپلود شد"
	msgUploadCancelled = "آپلود لغو شد"
	msgMissingChunk    = "قطعه شماره %d دریافت نشده است"
	msgChunkTooLarge   = "حجم قطعه بیش از حد مجاز است"
	msgUploadConflict  = "وضعیت آپلود اجازه این عملیات را نمی‌دهد"
)

// multipart framing allowance on top of the chunk itself
const formOverhead = 1 << 20

type UploadHandler struct {
	uploads       usecase.UploadUseCase
	maxChunkBytes int64
	logger        *logger.Logger
}

func NewUploadHandler(uploads usecase.UploadUseCase, maxChunkBytes int64, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{
		uploads:       uploads,
		maxChunkBytes: maxChunkBytes,
		logger:        logger,
	}
}

type FinalizeRequest struct {
	UploadID         string `json:"uploadId" binding:"required"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"originalFilename"`
	TotalChunks      int    `json:"totalChunks"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Alt              string `json:"alt"`
}

// UploadVideoChunk godoc
// @Summary      Upload one video chunk
// @Description  Stores chunk `chunkIndex` of `totalChunks` for `uploadId`. Admin and superadmin only.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     TokenAuth
// @Param        chunk formData file true "Chunk bytes"
// @Param        chunkIndex formData int true "Zero-based chunk index"
// @Param        totalChunks formData int true "Number of chunks"
// @Param        uploadId formData string true "Client-chosen upload id ([A-Za-z0-9._-])"
// @Param        filename formData string false "Original filename"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /media/videos/chunks [post]
func (h *UploadHandler) UploadVideoChunk(c *gin.Context) {
	h.uploadChunk(c, models.MediaVideo)
}

// UploadImageChunk godoc
// @Summary      Upload one image chunk
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     TokenAuth
// @Param        chunk formData file true "Chunk bytes"
// @Param        chunkIndex formData int true "Zero-based chunk index"
// @Param        totalChunks formData int true "Number of chunks"
// @Param        uploadId formData string true "Client-chosen upload id"
// @Param        filename formData string false "Original filename"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /media/images/chunks [post]
func (h *UploadHandler) UploadImageChunk(c *gin.Context) {
	h.uploadChunk(c, models.MediaImage)
}

func (h *UploadHandler) uploadChunk(c *gin.Context, kind models.MediaKind) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxChunkBytes+formOverhead)
	// parse up front, gin's PostForm swallows the read error
	if err := c.Request.ParseMultipartForm(h.maxChunkBytes); err != nil {
		h.failForm(c, err)
		return
	}

	index, err := strconv.Atoi(c.PostForm("chunkIndex"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}
	total, err := strconv.Atoi(c.PostForm("totalChunks"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	fileHeader, err := c.FormFile("chunk")
	if err != nil {
		h.failForm(c, err)
		return
	}
	if fileHeader.Size > h.maxChunkBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, msgChunkTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.ServerError(c, h.logger, "[UPLOAD] open chunk", err)
		return
	}
	defer file.Close()

	result, err := h.uploads.UploadChunk(c.Request.Context(), middleware.IdentityFrom(c), kind, usecase.ChunkInput{
		UploadID: c.PostForm("uploadId"),
		Index:    index,
		Total:    total,
		Filename: c.PostForm("filename"),
		Body:     file,
	})
	if err != nil {
		h.fail(c, "[UPLOAD] chunk", err)
		return
	}

	response.OK(c, http.StatusOK, msgChunkReceived, gin.H{
		"uploadId":    result.UploadID,
		"chunkIndex":  result.ChunkIndex,
		"totalChunks": result.TotalChunks,
		"received":    result.Received,
	})
}

// FinalizeVideo godoc
// @Summary      Assemble an uploaded video
// @Description  Concatenates all chunks in index order, commits the file and stores the video record.
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body FinalizeRequest true "Finalize request"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /media/videos/finalize [post]
func (h *UploadHandler) FinalizeVideo(c *gin.Context) {
	h.finalize(c, models.MediaVideo)
}

// FinalizeImage godoc
// @Summary      Assemble an uploaded image
// @Tags         uploads
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body FinalizeRequest true "Finalize request"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /media/images/finalize [post]
func (h *UploadHandler) FinalizeImage(c *gin.Context) {
	h.finalize(c, models.MediaImage)
}

func (h *UploadHandler) finalize(c *gin.Context, kind models.MediaKind) {
	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	filename := req.Filename
	if filename == "" {
		filename = req.OriginalFilename
	}

	result, err := h.uploads.Finalize(c.Request.Context(), middleware.IdentityFrom(c), kind, usecase.FinalizeInput{
		UploadID:    req.UploadID,
		TotalChunks: req.TotalChunks,
		Filename:    filename,
		Title:       req.Title,
		Description: req.Description,
		Alt:         req.Alt,
	})
	if err != nil {
		h.fail(c, "[UPLOAD] finalize", err)
		return
	}

	payload := gin.H{
		"uploadId": result.UploadID,
		"filename": result.Filename,
		"url":      result.URL,
		"size":     result.Size,
	}
	if result.Video != nil {
		payload["video"] = result.Video
	}
	response.OK(c, http.StatusCreated, msgUploadCompleted, payload)
}

// Status godoc
// @Summary      Upload session status
// @Tags         uploads
// @Produce      json
// @Security     TokenAuth
// @Param        uploadId path string true "Upload id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /media/uploads/{uploadId} [get]
func (h *UploadHandler) Status(c *gin.Context) {
	status, err := h.uploads.Status(c.Request.Context(), middleware.IdentityFrom(c), c.Param("uploadId"))
	if err != nil {
		h.fail(c, "[UPLOAD] status", err)
		return
	}

	response.OK(c, http.StatusOK, response.MsgOK, gin.H{
		"uploadId":    status.Session.ID,
		"kind":        status.Session.Kind,
		"state":       status.Session.State,
		"totalChunks": status.Session.TotalChunks,
		"received":    status.Received,
		"filename":    status.Session.FinalFilename,
	})
}

// Cancel godoc
// @Summary      Cancel an upload
// @Tags         uploads
// @Produce      json
// @Security     TokenAuth
// @Param        uploadId path string true "Upload id"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /media/uploads/{uploadId} [delete]
func (h *UploadHandler) Cancel(c *gin.Context) {
	if err := h.uploads.Cancel(c.Request.Context(), middleware.IdentityFrom(c), c.Param("uploadId")); err != nil {
		h.fail(c, "[UPLOAD] cancel", err)
		return
	}
	response.OK(c, http.StatusOK, msgUploadCancelled, nil)
}

func (h *UploadHandler) failForm(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.Fail(c, http.StatusRequestEntityTooLarge, msgChunkTooLarge)
		return
	}
	response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
}

func (h *UploadHandler) fail(c *gin.Context, context string, err error) {
	var missing *usecase.MissingChunkError
	switch {
	case errors.As(err, &missing):
		response.FailWith(c, http.StatusBadRequest, fmt.Sprintf(msgMissingChunk, missing.Index), gin.H{"missingChunk": missing.Index})
	case errors.Is(err, usecase.ErrValidation):
		h.logger.Debug("%s: %v", context, err)
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
	case errors.Is(err, usecase.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.MsgForbidden)
	case errors.Is(err, usecase.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
	case errors.Is(err, usecase.ErrConflict):
		response.Fail(c, http.StatusConflict, msgUploadConflict)
	default:
		response.ServerError(c, h.logger, context, err)
	}
}
