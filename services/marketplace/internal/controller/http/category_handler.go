package http

import (
	"net/http"

	"estate-market/pkg/logger"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const msgCategoryInUse = "این دسته‌بندی دارای زیرمجموعه یا آگهی است"

type CategoryHandler struct {
	categories usecase.CategoryUseCase
	logger     *logger.Logger
}

func NewCategoryHandler(categories usecase.CategoryUseCase, logger *logger.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

type CategoryRequest struct {
	Name     string `json:"name" binding:"required"`
	ParentID string `json:"parentId"`
	Order    int    `json:"order"`
}

// ListCategories godoc
// @Summary      List categories
// @Description  Flat list ordered by `order`. `parentId` narrows to children; an empty value lists roots.
// @Tags         categories
// @Produce      json
// @Param        parentId query string false "Parent category ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var parentID *string
	if v, ok := c.GetQuery("parentId"); ok {
		parentID = &v
	}

	categories, err := h.categories.List(c.Request.Context(), parentID)
	if err != nil {
		fail(c, h.logger, "[CATEGORY] list", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"categories": categories})
}

// CategoryTree godoc
// @Summary      Category tree
// @Tags         categories
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /categories/tree [get]
func (h *CategoryHandler) CategoryTree(c *gin.Context) {
	tree, err := h.categories.Tree(c.Request.Context())
	if err != nil {
		fail(c, h.logger, "[CATEGORY] tree", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"categories": tree})
}

// GetCategory godoc
// @Summary      Get category by ID
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /categories/{id} [get]
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, "[CATEGORY] get", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"category": category})
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body CategoryRequest true "Category"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	category, err := h.categories.Create(c.Request.Context(), usecase.CategoryInput(req))
	if err != nil {
		fail(c, h.logger, "[CATEGORY] create", err, "")
		return
	}
	response.OK(c, http.StatusCreated, response.MsgCreated, gin.H{"category": category})
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Category ID"
// @Param        request body CategoryRequest true "Category"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /categories/{id} [put]
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	category, err := h.categories.Update(c.Request.Context(), c.Param("id"), usecase.CategoryInput(req))
	if err != nil {
		fail(c, h.logger, "[CATEGORY] update", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgUpdated, gin.H{"category": category})
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Category ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, "[CATEGORY] delete", err, msgCategoryInUse)
		return
	}
	response.OK(c, http.StatusOK, response.MsgDeleted, nil)
}
