package controller

import (
	"net/http"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/service"
	apperrors "github.com/chitram/chitram-backend/internal/errors"
	"github.com/chitram/chitram-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type MessageController struct {
	messageService service.MessageService
}

func NewMessageController(messageService service.MessageService) *MessageController {
	return &MessageController{
		messageService: messageService,
	}
}

type ContactRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

type UpdateMessageStatusRequest struct {
	Status model.MessageStatus `json:"status" binding:"required"`
}

// Submit stores a contact form message
// POST /api/v1/contact
func (ctrl *MessageController) Submit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid contact request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid message data")
		return
	}

	message, err := ctrl.messageService.Submit(c.Request.Context(), service.MessageInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Subject:  req.Subject,
		Message:  req.Message,
	})
	if err != nil {
		respondError(c, err, "submit contact message")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Message sent",
		"message_id": message.ID,
	})
}

// Inbox lists unread and read messages
// GET /api/v1/admin/messages
func (ctrl *MessageController) Inbox(c *gin.Context) {
	result, err := ctrl.messageService.Inbox(pageParam(c))
	if err != nil {
		respondError(c, err, "list inbox")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Archive lists archived messages
// GET /api/v1/admin/messages/archive
func (ctrl *MessageController) Archive(c *gin.Context) {
	result, err := ctrl.messageService.Archive(pageParam(c))
	if err != nil {
		respondError(c, err, "list archive")
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get returns a message without marking it read
// GET /api/v1/admin/messages/:id
func (ctrl *MessageController) Get(c *gin.Context) {
	message, err := ctrl.messageService.Get(c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Open returns a message and marks it read if it was unread
// POST /api/v1/admin/messages/:id/open
func (ctrl *MessageController) Open(c *gin.Context) {
	result, err := ctrl.messageService.Open(c.Param("id"))
	if err != nil {
		respondError(c, err, "open message")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     result.Message,
		"marked_read": result.MarkedRead,
	})
}

// UpdateStatus moves a message between unread, read and archived
// PATCH /api/v1/admin/messages/:id/status
func (ctrl *MessageController) UpdateStatus(c *gin.Context) {
	var req UpdateMessageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "status is required")
		return
	}
	message, err := ctrl.messageService.UpdateStatus(c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "update message status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Delete removes a message
// DELETE /api/v1/admin/messages/:id
func (ctrl *MessageController) Delete(c *gin.Context) {
	if err := ctrl.messageService.Delete(c.Param("id")); err != nil {
		respondError(c, err, "delete message")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
