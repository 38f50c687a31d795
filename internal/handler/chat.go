package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"

	"medhaven/internal/domain"
	"medhaven/internal/middleware"
	"medhaven/internal/service"
	apperrors "medhaven/pkg/errors"
	"medhaven/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

type SendMessageRequest struct {
	ChatRoomID string   `json:"chatRoomId" conform:"trim"`
	SenderID   string   `json:"senderId" conform:"trim"`
	ReceiverID string   `json:"receiverId" conform:"trim"`
	Text       string   `json:"text"`
	ImageURLs  []string `json:"imageUrls"`
	FileURLs   []string `json:"fileUrls"`
	IsBot      bool     `json:"isBot"`
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Validation("invalid request body"))
		return
	}
	if err := conform.Strings(&req); err != nil {
		_ = c.Error(apperrors.Validation("invalid request body"))
		return
	}

	chat, err := h.chatService.SendMessage(c.Request.Context(), middleware.CurrentUserID(c), service.SendMessageInput{
		ChatRoomID: req.ChatRoomID,
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Text:       req.Text,
		ImageURLs:  req.ImageURLs,
		FileURLs:   req.FileURLs,
		IsBot:      req.IsBot,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"chat": chat})
}

// EditMessageRequest uses pointers so an absent field is left untouched and
// an explicit empty value is applied.
type EditMessageRequest struct {
	Text      *string   `json:"text"`
	ImageURLs *[]string `json:"imageUrls"`
	FileURLs  *[]string `json:"fileUrls"`
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}

	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Validation("invalid request body"))
		return
	}

	chat, err := h.chatService.EditMessage(c.Request.Context(), messageID, middleware.CurrentUserID(c), domain.MessagePatch{
		Text:      req.Text,
		ImageURLs: req.ImageURLs,
		FileURLs:  req.FileURLs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chat": chat})
}

func (h *ChatHandler) GetRoomMessages(c *gin.Context) {
	chats, err := h.chatService.GetRoomMessages(c.Request.Context(), c.Param("chatRoomId"), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	messageID, ok := messageIDParam(c)
	if !ok {
		return
	}

	if err := h.chatService.MarkRead(c.Request.Context(), messageID, middleware.CurrentUserID(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ChatHandler) GetUnread(c *gin.Context) {
	chats, err := h.chatService.GetUnread(c.Request.Context(), c.Param("userId"), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// GetPatients lists the patients the calling doctor has exchanged messages with.
func (h *ChatHandler) GetPatients(c *gin.Context) {
	patients, err := h.chatService.GetContacts(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

type CreateRoomRequest struct {
	ParticipantID string `json:"participantId" conform:"trim"`
}

func (h *ChatHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(apperrors.Validation("invalid request body"))
		return
	}
	if err := conform.Strings(&req); err != nil {
		_ = c.Error(apperrors.Validation("invalid request body"))
		return
	}

	roomID, err := h.chatService.CreateRoom(c.Request.Context(), middleware.CurrentUserID(c), req.ParticipantID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "chatRoomId": roomID})
}

func messageIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperrors.Validation("invalid message id"))
		return 0, false
	}
	return id, true
}
