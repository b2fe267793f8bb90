package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/chitram/chitram-backend/internal/app/model"
	"github.com/chitram/chitram-backend/internal/app/repository"
	"github.com/chitram/chitram-backend/internal/events"
	"github.com/chitram/chitram-backend/pkg/logger"
	"github.com/chitram/chitram-backend/pkg/util"
	"gorm.io/gorm"
)

type MessageInput struct {
	FullName string
	Email    string
	Phone    string
	Subject  string
	Message  string
}

// OpenResult is the outcome of fetch-and-acknowledge.
type OpenResult struct {
	Message *model.ContactMessage `json:"message"`
	// MarkedRead is true when this call moved the message from unread to read.
	MarkedRead bool `json:"marked_read"`
}

type MessageService interface {
	Submit(ctx context.Context, input MessageInput) (*model.ContactMessage, error)
	Inbox(page int) (*Paginated[model.ContactMessage], error)
	Archive(page int) (*Paginated[model.ContactMessage], error)
	Get(id string) (*model.ContactMessage, error)
	Open(id string) (*OpenResult, error)
	UpdateStatus(id string, status model.MessageStatus) (*model.ContactMessage, error)
	Delete(id string) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	publisher   events.Publisher
	now         func() time.Time
}

func NewMessageService(messageRepo repository.MessageRepository, publisher events.Publisher) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *messageService) Submit(ctx context.Context, input MessageInput) (*model.ContactMessage, error) {
	input.FullName = util.SanitizeText(input.FullName)
	input.Email = util.NormalizeEmail(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Subject = util.SanitizeText(input.Subject)
	input.Message = util.SanitizeText(input.Message)

	if err := requireFields(
		"full_name", input.FullName,
		"email", input.Email,
		"subject", input.Subject,
		"message", input.Message,
	); err != nil {
		return nil, err
	}
	if !util.IsValidEmail(input.Email) {
		return nil, validationError("email is not a valid address")
	}

	message := &model.ContactMessage{
		FullName: input.FullName,
		Email:    input.Email,
		Phone:    input.Phone,
		Subject:  input.Subject,
		Message:  input.Message,
		Status:   model.MessageStatusUnread,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, err
	}

	logger.Info("Contact message received", map[string]interface{}{
		"message_id": message.ID,
	})
	events.Emit(ctx, s.publisher, events.MessageReceived, map[string]string{
		"message_id": message.ID,
		"full_name":  message.FullName,
		"subject":    message.Subject,
	})
	return message, nil
}

func (s *messageService) list(statuses []model.MessageStatus, page int) (*Paginated[model.ContactMessage], error) {
	p := repository.NewPage(page)
	messages, total, err := s.messageRepo.List(statuses, p)
	if err != nil {
		return nil, err
	}
	return newPaginated(messages, total, p), nil
}

// Inbox lists unread and read messages, newest first.
func (s *messageService) Inbox(page int) (*Paginated[model.ContactMessage], error) {
	return s.list([]model.MessageStatus{model.MessageStatusUnread, model.MessageStatusRead}, page)
}

func (s *messageService) Archive(page int) (*Paginated[model.ContactMessage], error) {
	return s.list([]model.MessageStatus{model.MessageStatusArchived}, page)
}

// Get never changes the message.
func (s *messageService) Get(id string) (*model.ContactMessage, error) {
	message, err := s.messageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return message, nil
}

// Open fetches a message for viewing and acknowledges it: an unread message
// becomes read with read_at stamped. Read and archived messages are returned
// unchanged.
func (s *messageService) Open(id string) (*OpenResult, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	marked, err := s.messageRepo.MarkRead(id, s.now())
	if err != nil {
		return nil, err
	}

	message, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if marked {
		logger.Debug("Contact message marked read", map[string]interface{}{
			"message_id": id,
		})
	}
	return &OpenResult{Message: message, MarkedRead: marked}, nil
}

func (s *messageService) UpdateStatus(id string, status model.MessageStatus) (*model.ContactMessage, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	if status == model.MessageStatusRead {
		// stamps read_at when the message was still unread
		if _, err := s.messageRepo.MarkRead(id, s.now()); err != nil {
			return nil, err
		}
	}

	if err := s.messageRepo.UpdateStatus(id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	logger.Info("Contact message status updated", map[string]interface{}{
		"message_id": id,
		"status":     status,
	})
	return s.Get(id)
}

func (s *messageService) Delete(id string) error {
	if err := s.messageRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	return nil
}
