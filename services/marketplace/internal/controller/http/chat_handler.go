package http

import (
	"net/http"

	"estate-market/pkg/logger"
	"estate-market/pkg/middleware"
	"estate-market/pkg/response"
	"estate-market/services/marketplace/internal/usecase"

	"github.com/gin-gonic/gin"
)

const msgMessageSent = "پیام ارسال شد"

type ChatHandler struct {
	chats  usecase.ChatUseCase
	logger *logger.Logger
}

func NewChatHandler(chats usecase.ChatUseCase, logger *logger.Logger) *ChatHandler {
	return &ChatHandler{chats: chats, logger: logger}
}

type OpenChatRequest struct {
	ParticipantID string `json:"participantId" binding:"required"`
}

type MessageRequest struct {
	Text string `json:"text" binding:"required"`
}

// OpenChatRoom godoc
// @Summary      Find or create the room with another user
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        request body OpenChatRequest true "Other participant"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /chat-rooms [post]
func (h *ChatHandler) OpenChatRoom(c *gin.Context) {
	var req OpenChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	room, err := h.chats.Open(c.Request.Context(), middleware.IdentityFrom(c), req.ParticipantID)
	if err != nil {
		fail(c, h.logger, "[CHAT] open", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"chatRoom": room})
}

// ListChatRooms godoc
// @Summary      Rooms of the current user
// @Tags         chat
// @Produce      json
// @Security     TokenAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /chat-rooms [get]
func (h *ChatHandler) ListChatRooms(c *gin.Context) {
	rooms, err := h.chats.List(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		fail(c, h.logger, "[CHAT] list", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"chatRooms": rooms})
}

// GetChatRoom godoc
// @Summary      Room with messages
// @Tags         chat
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Room ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /chat-rooms/{id} [get]
func (h *ChatHandler) GetChatRoom(c *gin.Context) {
	room, err := h.chats.Get(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"))
	if err != nil {
		fail(c, h.logger, "[CHAT] get", err, "")
		return
	}
	response.OK(c, http.StatusOK, response.MsgOK, gin.H{"chatRoom": room})
}

// SendMessage godoc
// @Summary      Send a message
// @Tags         chat
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id path string true "Room ID"
// @Param        request body MessageRequest true "Message"
// @Success      201  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]interface{}
// @Router       /chat-rooms/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, response.MsgBadRequest)
		return
	}

	msg, err := h.chats.Send(c.Request.Context(), middleware.IdentityFrom(c), c.Param("id"), req.Text)
	if err != nil {
		fail(c, h.logger, "[CHAT] send", err, "")
		return
	}
	response.OK(c, http.StatusCreated, msgMessageSent, gin.H{"message": msg})
}
