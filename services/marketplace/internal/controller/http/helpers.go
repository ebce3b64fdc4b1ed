package http

import (
	"errors"
	"net/http"
	"strconv"

	"estate-market/pkg/logger"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// fail maps usecase errors onto the response envelope. conflictMsg is used for 409s.
func fail(c *gin.Context, log *logger.Logger, context string, err error, conflictMsg string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		log.Debug("%s: %v", context, err)
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
	case errors.Is(err, usecase.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, usecase.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.MsgForbidden)
	case errors.Is(err, usecase.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.MsgNotFound)
	case errors.Is(err, usecase.ErrConflict):
		if conflictMsg == "" {
			conflictMsg = response.MsgConflict
		}
		response.Fail(c, http.StatusConflict, conflictMsg)
	default:
		response.ServerError(c, log, context, err)
	}
}
