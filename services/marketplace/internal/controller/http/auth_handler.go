package http

import (
	"net/http"

	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	"estate-market/pkg/models"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	msgRegistered         = "ثبت نام با موفقیت انجام شد"
	msgLoggedIn           = "ورود با موفقیت انجام شد"
	msgInvalidCredentials = "شماره تلفن یا رمز عبور اشتباه است"
	msgPhoneTaken         = "این شماره تلفن قبلا ثبت شده است"
	msgRoleChanged        = "نقش کاربر تغییر کرد"
)

type AuthHandler struct {
	auth   usecase.AuthUseCase
	logger *logger.Logger
}

func NewAuthHandler(auth usecase.AuthUseCase, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user with role "user" and returns a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      409  {object}  map[string]interface{}
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	user, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Phone, req.Password)
	if err != nil {
		fail(c, h.logger, "[AUTH] register", err, msgPhoneTaken)
		return
	}

	response.OK(c, http.StatusCreated, msgRegistered, gin.H{"token": token, "user": user})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		fail(c, h.logger, "[AUTH] login", err, "")
		return
	}

	response.OK(c, http.StatusOK, msgLoggedIn, gin.H{"token": token, "user": user})
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]interface{}
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		fail(c, h.logger, "[AUTH] me", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"user": user})
}

// ListUsers godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     TokenAuth
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size (max 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, limit := pagination(c)
	users, total, err := h.auth.ListUsers(c.Request.Context(), limit, (page-1)*limit)
	if err != nil {
		fail(c, h.logger, "[AUTH] list users", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{
		"users": users,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// ChangeRole godoc
// @Summary      Change a user's role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /users/{id}/role [put]
func (h *AuthHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	user, err := h.auth.ChangeRole(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), models.UserRole(req.Role))
	if err != nil {
		fail(c, h.logger, "[AUTH] change role", err, "")
		return
	}
	response.OK(c, http.StatusOK, msgRoleChanged, gin.H{"user": user})
}

// DeleteUser godoc
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /users/{id} [delete]
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	if err := h.auth.DeleteUser(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		fail(c, h.logger, "[AUTH] delete user", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgDeleted, nil)
}
