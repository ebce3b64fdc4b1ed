package http

import (
	"net/http"
	"strconv"

	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/entity"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgPosterCreated = "آگهی ثبت شد و پس از تایید منتشر می‌شود"
	msgStatusChanged = "وضعیت آگهی تغییر کرد"
)

type PosterHandler struct {
	posters usecase.PosterUseCase
	logger  *logger.Logger
}

func NewPosterHandler(posters usecase.PosterUseCase, logger *logger.Logger) *PosterHandler {
	return &PosterHandler{posters: posters, logger: logger}
}

type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PosterRequest struct {
	Title         string          `json:"title" binding:"required"`
	Description   string          `json:"description"`
	Images        []string        `json:"images"`
	Area          float64         `json:"area"`
	Rooms         int             `json:"rooms"`
	BuildingDate  int             `json:"buildingDate"`
	TotalPrice    int64           `json:"totalPrice"`
	PricePerMeter int64           `json:"pricePerMeter"`
	Deposit       int64           `json:"deposit"`
	Rent          int64           `json:"rent"`
	ParentType    string          `json:"parentType" binding:"required"`
	TradeType     string          `json:"tradeType" binding:"required"`
	CategoryID    string          `json:"categoryId"`
	Address       string          `json:"address"`
	Location      LocationRequest `json:"location"`
}

func (r PosterRequest) input() usecase.PosterInput {
	return usecase.PosterInput{
		Title:        r.Title,
		Description:  r.Description,
		Images:       r.Images,
		Area:         r.Area,
		Rooms:        r.Rooms,
		BuildingDate: r.BuildingDate,
		TotalPrice:   r.TotalPrice,
		PricePerM2:   r.PricePerMeter,
		Deposit:      r.Deposit,
		Rent:         r.Rent,
		ParentType:   entity.ParentType(r.ParentType),
		TradeType:    entity.TradeType(r.TradeType),
		CategoryID:   r.CategoryID,
		Address:      r.Address,
		Location:     entity.Location{Latitude: r.Location.Latitude, Longitude: r.Location.Longitude},
	}
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func queryInt64(c *gin.Context, key string) int64 {
	v, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return v
}

func queryFloat(c *gin.Context, key string) float64 {
	v, _ := strconv.ParseFloat(c.Query(key), 64)
	return v
}

// ListPosters godoc
// @Summary      List posters
// @Description  Public listing of published posters. Admins may filter by status.
// @Tags         posters
// @Produce      json
// @Param        tradeType query string false "sale|rent|mortgage|presale"
// @Param        parentType query string false "residential|commercial|land|industrial"
// @Param        categoryId query string false "Category ID"
// @Param        status query string false "pending|published|rejected (admin only)"
// @Param        minPrice query int false "Minimum total price"
// @Param        maxPrice query int false "Maximum total price"
// @Param        minArea query number false "Minimum area"
// @Param        maxArea query number false "Maximum area"
// @Param        rooms query int false "Rooms"
// @Param        q query string false "Search text"
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size (max 50)"
// @Success      200  {object}  map[string]interface{}
// @Router       /posters [get]
func (h *PosterHandler) ListPosters(c *gin.Context) {
	page, limit := pagination(c)
	rooms, _ := strconv.Atoi(c.Query("rooms"))

	posters, total, err := h.posters.List(c.Request.Context(), middleware.IdentityFrom(c), entity.PosterFilter{
		TradeType:  entity.TradeType(c.Query("tradeType")),
		ParentType: entity.ParentType(c.Query("parentType")),
		CategoryID: c.Query("categoryId"),
		Status:     entity.PosterStatus(c.Query("status")),
		MinPrice:   queryInt64(c, "minPrice"),
		MaxPrice:   queryInt64(c, "maxPrice"),
		MinArea:    queryFloat(c, "minArea"),
		MaxArea:    queryFloat(c, "maxArea"),
		Rooms:      rooms,
		Query:      c.Query("q"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		fail(c, h.logger, "[POSTER] list", err, "")
		return
	}

	response.OK(c, http.StatusOK, response.MsgOK, gin.H{
		"posters": posters,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// MyPosters godoc
// @Summary      Posters of the current user
// @Tags         posters
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /posters/mine [get]
func (h *PosterHandler) MyPosters(c *gin.Context) {
	page, limit := pagination(c)
	posters, total, err := h.posters.Mine(c.Request.Context(), middleware.IdentityFrom(c), limit, (page-1)*limit)
	if err != nil {
		fail(c, h.logger, "[POSTER] mine", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{
		"posters": posters,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

// GetPoster godoc
// @Summary      Get poster by ID
// @Description  Counts one view per viewer per day
// @Tags         posters
// @Produce      json
// @Param        id path string true "Poster ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /posters/{id} [get]
func (h *PosterHandler) GetPoster(c *gin.Context) {
	caller := middleware.IdentityFrom(c)
	viewer := c.ClientIP()
	if caller != nil {
		viewer = caller.UserID
	}

	poster, err := h.posters.Get(c.Request.Context(), caller, c.Param("id"), viewer)
	if err != nil {
		fail(c, h.logger, "[POSTER] get", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"poster": poster})
}

// CreatePoster godoc
// @Summary      Create a poster
// @Tags         posters
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body PosterRequest true "Poster"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /posters [post]
func (h *PosterHandler) CreatePoster(c *gin.Context) {
	var req PosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	poster, err := h.posters.Create(c.Request.Context(), middleware.IdentityFrom(c), req.input())
	if err != nil {
		fail(c, h.logger, "[POSTER] create", err, "")
		return
	}
	response.OK(c, http.StatusCreated, msgPosterCreated, gin.H{"poster": poster})
}

// UpdatePoster godoc
// @Summary      Update a poster
// @Tags         posters
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Poster ID"
// @Param        request body PosterRequest true "Poster"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /posters/{id} [put]
func (h *PosterHandler) UpdatePoster(c *gin.Context) {
	var req PosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	poster, err := h.posters.Update(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.input())
	if err != nil {
		fail(c, h.logger, "[POSTER] update", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgUpdated, gin.H{"poster": poster})
}

// SetPosterStatus godoc
// @Summary      Moderate a poster
// @Tags         posters
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Poster ID"
// @Param        request body StatusRequest true "pending|published|rejected"
// @Success      200  {object}  map[string]interface{}
// @Router       /posters/{id}/status [put]
func (h *PosterHandler) SetPosterStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	poster, err := h.posters.SetStatus(c.Request.Context(), c.Param("id"), entity.PosterStatus(req.Status))
	if err != nil {
		fail(c, h.logger, "[POSTER] status", err, "")
		return
	}
	response.OK(c, http.StatusOK, msgStatusChanged, gin.H{"poster": poster})
}

// DeletePoster godoc
// @Summary      Delete a poster
// @Tags         posters
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Poster ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /posters/{id} [delete]
func (h *PosterHandler) DeletePoster(c *gin.Context) {
	if err := h.posters.Delete(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		fail(c, h.logger, "[POSTER] delete", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgDeleted, nil)
}
