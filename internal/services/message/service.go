// Package message implements the conversation thread between a need owner
// and a provider.
package message

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

var ErrNotParty = apperrors.NewUnauthorized("you are not a party to this conversation")

// SendRequest carries a new message. Either ConversationID or NeedID must be
// set; sending by NeedID opens the conversation if it does not exist yet.
type SendRequest struct {
	ConversationID uint   `json:"conversation_id"`
	NeedID         uint   `json:"need_id"`
	Body           string `json:"body"`
}

// Service defines messaging operations.
type Service interface {
	Send(ctx context.Context, senderID uint, req SendRequest) (*models.Message, error)
	ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error)
	ListMessages(ctx context.Context, userID, conversationID uint, offset, limit int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, userID, conversationID uint) error
}

type service struct {
	conversations repositories.ConversationRepository
	needs         repositories.NeedRepository
	notifier      notification.Notifier
	now           func() time.Time
}

// NewService creates the message service.
func NewService(conversations repositories.ConversationRepository, needs repositories.NeedRepository, notifier notification.Notifier) Service {
	if conversations == nil {
		panic("conversation repository is required")
	}
	if needs == nil {
		panic("need repository is required")
	}

	return &service{
		conversations: conversations,
		needs:         needs,
		notifier:      notifier,
		now:           time.Now,
	}
}

func (s *service) Send(ctx context.Context, senderID uint, req SendRequest) (*models.Message, error) {
	if req.Body == "" {
		return nil, apperrors.NewValidation("body", "must not be empty")
	}
	if len(req.Body) > validation.MaxMessageLength {
		return nil, apperrors.NewValidation("body", "message is too long")
	}

	conv, err := s.resolveConversation(ctx, senderID, req)
	if err != nil {
		return nil, err
	}
	if !conv.InvolvesUser(senderID) {
		return nil, ErrNotParty
	}

	message := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Body:           req.Body,
		CreatedAt:      s.now(),
	}
	if err := s.conversations.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	recipientID := conv.BuyerID
	if senderID == conv.BuyerID {
		recipientID = conv.ProviderID
	}
	if s.notifier != nil {
		s.notifier.Notify(recipientID, models.NotificationNewMessage,
			"New message",
			truncate(req.Body, 120),
			models.JSON{"conversation_id": conv.ID})
	}

	return message, nil
}

func (s *service) ListConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return s.conversations.ListForUser(ctx, userID)
}

func (s *service) ListMessages(ctx context.Context, userID, conversationID uint, offset, limit int) ([]models.Message, int64, error) {
	conv, err := s.loadConversation(ctx, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if !conv.InvolvesUser(userID) {
		return nil, 0, ErrNotParty
	}
	return s.conversations.ListMessages(ctx, conversationID, offset, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, conversationID uint) error {
	conv, err := s.loadConversation(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.InvolvesUser(userID) {
		return ErrNotParty
	}
	return s.conversations.MarkRead(ctx, conversationID, userID, s.now())
}

// resolveConversation finds the thread for the request. A NeedID opens a new
// conversation between the sender and the need owner; the need owner cannot
// open a thread with themselves.
func (s *service) resolveConversation(ctx context.Context, senderID uint, req SendRequest) (*models.Conversation, error) {
	if req.ConversationID != 0 {
		return s.loadConversation(ctx, req.ConversationID)
	}
	if req.NeedID == 0 {
		return nil, apperrors.NewValidation("conversation_id", "conversation_id or need_id is required")
	}

	need, err := s.needs.GetByID(ctx, req.NeedID)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.NewNotFound("need", req.NeedID)
		}
		return nil, err
	}
	if need.UserID == senderID {
		return nil, apperrors.NewValidation("need_id", "you cannot message your own need")
	}
	return s.conversations.GetOrCreate(ctx, need.ID, need.UserID, senderID)
}

func (s *service) loadConversation(ctx context.Context, id uint) (*models.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrConversationNotFound) {
			return nil, apperrors.NewNotFound("conversation", id)
		}
		return nil, err
	}
	return conv, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
