package http

import (
	"net/http"

	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgFavoriteAdded   = "به علاقه‌مندی‌ها اضافه شد"
	msgFavoriteRemoved = "از علاقه‌مندی‌ها حذف شد"
)

type FavoriteHandler struct {
	favorites usecase.FavoriteUseCase
	logger    *logger.Logger
}

func NewFavoriteHandler(favorites usecase.FavoriteUseCase, logger *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, logger: logger}
}

// ListFavorites godoc
// @Summary      Favorite posters of the current user
// @Tags         favorites
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /favorites [get]
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	posters, err := h.favorites.List(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		fail(c, h.logger, "[FAVORITE] list", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"posters": posters})
}

// AddFavorite godoc
// @Summary      Add a poster to favorites
// @Tags         favorites
// @Produce      json
// @Security     TokenAuth
// @Param        posterId path string true "Poster ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /favorites/{posterId} [post]
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	if err := h.favorites.Add(c.Request.Context(), middleware.IdentityFrom(c), c.Param("posterId")); err != nil {
		fail(c, h.logger, "[FAVORITE] add", err, "")
		return
	}
	response.OK(c, http.StatusOK, msgFavoriteAdded, nil)
}

// RemoveFavorite godoc
// @Summary      Remove a poster from favorites
// @Tags         favorites
// @Produce      json
// @Security     TokenAuth
// @Param        posterId path string true "Poster ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /favorites/{posterId} [delete]
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), middleware.IdentityFrom(c), c.Param("posterId")); err != nil {
		fail(c, h.logger, "[FAVORITE] remove", err, "")
		return
	}
	response.OK(c, http.StatusOK, msgFavoriteRemoved, nil)
}
