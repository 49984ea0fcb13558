package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medichat/internal/app"
	"medichat/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) ProcessMessage(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	outcome, err := h.chatService.ProcessMessage(c.Request.Context(), userID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrMessageEmpty):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, app.ErrMessageEnqueue):
			response.Error(c, http.StatusServiceUnavailable, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "process message failed")
		}
		return
	}

	response.OK(c, outcome)
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	messages, err := h.chatService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "fetch history failed")
		return
	}

	response.OK(c, messages)
}

func (h *ChatHandler) GetAllHistory(c *gin.Context) {
	messages, err := h.chatService.GetAllHistory(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "fetch all history failed")
		return
	}

	response.OK(c, messages)
}
