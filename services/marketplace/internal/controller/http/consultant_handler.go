package http

import (
	"net/http"
	"strconv"

	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgConsultantPhoneTaken = "مشاوری با این شماره تلفن وجود دارد"
	msgRankTaken            = "این مشاور در رتبه دیگری ثبت شده است"
)

type ConsultantHandler struct {
	consultants usecase.ConsultantUseCase
	logger      *logger.Logger
}

func NewConsultantHandler(consultants usecase.ConsultantUseCase, logger *logger.Logger) *ConsultantHandler {
	return &ConsultantHandler{consultants: consultants, logger: logger}
}

type ConsultantRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone" binding:"required"`
	Avatar     string `json:"avatar"`
	Bio        string `json:"bio"`
	Experience int    `json:"experience"`
	IsActive   *bool  `json:"isActive"`
}

func (r ConsultantRequest) input() usecase.ConsultantInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return usecase.ConsultantInput{
		Name:       r.Name,
		Phone:      r.Phone,
		Avatar:     r.Avatar,
		Bio:        r.Bio,
		Experience: r.Experience,
		IsActive:   active,
	}
}

type TopConsultantRequest struct {
	ConsultantID string `json:"consultantId" binding:"required"`
	IsActive     *bool  `json:"isActive"`
}

// ListConsultants godoc
// @Summary      List consultants
// @Description  Active consultants. Admins may pass all=true to include inactive ones.
// @Tags         consultants
// @Produce      json
// @Param        all query bool false "Include inactive (admin)"
// @Success      200  {object}  map[string]interface{}
// @Router       /consultants [get]
func (h *ConsultantHandler) ListConsultants(c *gin.Context) {
	all := c.Query("all") == "true" && middleware.IdentityFrom(c).IsAdmin()

	consultants, err := h.consultants.List(c.Request.Context(), all)
	if err != nil {
		fail(c, h.logger, "[CONSULTANT] list", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"consultants": consultants})
}

// GetConsultant godoc
// @Summary      Get consultant by ID
// @Tags         consultants
// @Produce      json
// @Param        id path string true "Consultant ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /consultants/{id} [get]
func (h *ConsultantHandler) GetConsultant(c *gin.Context) {
	consultant, err := h.consultants.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, "[CONSULTANT] get", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"consultant": consultant})
}

// CreateConsultant godoc
// @Summary      Create a consultant
// @Tags         consultants
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body ConsultantRequest true "Consultant"
// @Success      201  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /consultants [post]
func (h *ConsultantHandler) CreateConsultant(c *gin.Context) {
	var req ConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	consultant, err := h.consultants.Create(c.Request.Context(), req.input())
	if err != nil {
		fail(c, h.logger, "[CONSULTANT] create", err, msgConsultantPhoneTaken)
		return
	}
	response.OK(c, http.StatusCreated, response.MsgCreated, gin.H{"consultant": consultant})
}

// UpdateConsultant godoc
// @Summary      Update a consultant
// @Tags         consultants
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Consultant ID"
// @Param        request body ConsultantRequest true "Consultant"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /consultants/{id} [put]
func (h *ConsultantHandler) UpdateConsultant(c *gin.Context) {
	var req ConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	consultant, err := h.consultants.Update(c.Request.Context(), c.Param("id"), req.input())
	if err != nil {
		fail(c, h.logger, "[CONSULTANT] update", err, msgConsultantPhoneTaken)
		return
	}
	response.OK(c, http.StatusOK, response.MsgUpdated, gin.H{"consultant": consultant})
}

// DeleteConsultant godoc
// @Summary      Delete a consultant
// @Tags         consultants
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Consultant ID"
// @Success      200  {object}  map[string]interface{}
// @Router       /consultants/{id} [delete]
func (h *ConsultantHandler) DeleteConsultant(c *gin.Context) {
	if err := h.consultants.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, h.logger, "[CONSULTANT] delete", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgDeleted, nil)
}

// ListTopConsultants godoc
// @Summary      Top consultants
// @Tags         top-consultants
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /top-consultants [get]
func (h *ConsultantHandler) ListTopConsultants(c *gin.Context) {
	tops, err := h.consultants.TopConsultants(c.Request.Context())
	if err != nil {
		fail(c, h.logger, "[CONSULTANT] top list", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"topConsultants": tops})
}

// SetTopConsultant godoc
// @Summary      Assign a rank
// @Tags         top-consultants
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        rank path int true "Rank (1-3)"
// @Param        request body TopConsultantRequest true "Consultant"
// @Success      200  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /top-consultants/{rank} [put]
func (h *ConsultantHandler) SetTopConsultant(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}
	var req TopConsultantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}
	active := req.IsActive == nil || *req.IsActive

	top, err := h.consultants.SetTop(c.Request.Context(), rank, req.ConsultantID, active)
	if err != nil {
		fail(c, h.logger, "[CONSULTANT] set top", err, msgRankTaken)
		return
	}
	response.OK(c, http.StatusOK, response.MsgUpdated, gin.H{"topConsultant": top})
}

// RemoveTopConsultant godoc
// @Summary      Clear a rank
// @Tags         top-consultants
// @Produce      json
// @Security     TokenAuth
// @Param        rank path int true "Rank (1-3)"
// @Success      200  {object}  map[string]interface{}
// @Router       /top-consultants/{rank} [delete]
func (h *ConsultantHandler) RemoveTopConsultant(c *gin.Context) {
	rank, err := strconv.Atoi(c.Param("rank"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}
	if err := h.consultants.RemoveTop(c.Request.Context(), rank); err != nil {
		fail(c, h.logger, "[CONSULTANT] remove top", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgDeleted, nil)
}
