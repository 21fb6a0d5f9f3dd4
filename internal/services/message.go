package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ridesafe-backend/internal/apperrors"
	"ridesafe-backend/internal/models"

	"github.com/google/uuid"
)

// MessageStore is the message persistence surface the service depends on.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id string) (*models.Message, error)
	ListByRide(ctx context.Context, rideID string) ([]*models.Message, error)
	MarkRead(ctx context.Context, messageID string) (bool, error)
}

// MessageNotifier pushes new messages to connected receivers.
type MessageNotifier interface {
	NewMessage(userID string, msg *models.Message)
}

// MessageService handles in-ride messaging between rider and driver
type MessageService struct {
	messageRepo MessageStore
	rideRepo    RideReader
	notifier    MessageNotifier
}

// NewMessageService creates a new message service
func NewMessageService(messageRepo MessageStore, rideRepo RideReader, notifier MessageNotifier) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		rideRepo:    rideRepo,
		notifier:    notifier,
	}
}

// SendMessage sends a message from a ride participant to the counterpart
func (s *MessageService) SendMessage(ctx context.Context, rideID, senderID, content, msgType string) (*models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("content", "message content is required")
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(senderID) {
		return nil, apperrors.NotFound("ride")
	}

	receiverID := ride.CounterpartOf(senderID)
	if receiverID == "" {
		return nil, apperrors.Conflict("ride has no counterpart to message")
	}

	if msgType == "" {
		msgType = "text"
	}

	msg := &models.Message{
		ID:         uuid.New().String(),
		RideID:     rideID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		Type:       msgType,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("failed to send message: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NewMessage(receiverID, msg)
	}
	return msg, nil
}

// ListMessages retrieves a ride's messages in chronological order,
// restricted to participants.
func (s *MessageService) ListMessages(ctx context.Context, rideID, userID string) ([]*models.Message, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.IsParticipant(userID) {
		return nil, apperrors.NotFound("ride")
	}

	return s.messageRepo.ListByRide(ctx, rideID)
}

// MarkRead sets the read flag and read timestamp once. Marking an
// already-read message is a no-op.
func (s *MessageService) MarkRead(ctx context.Context, messageID, userID string) (*models.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg.ReceiverID != userID {
		return nil, apperrors.NotFound("message")
	}

	if !msg.Read {
		if _, err := s.messageRepo.MarkRead(ctx, messageID); err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
		msg, err = s.messageRepo.GetByID(ctx, messageID)
		if err != nil {
			return nil, err
		}
	}
	return msg, nil
}
