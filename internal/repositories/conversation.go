package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// ConversationRepository defines messaging persistence operations.
type ConversationRepository interface {
	GetOrCreate(ctx context.Context, needID, buyerID, providerID uint) (*models.Conversation, error)
	GetByID(ctx context.Context, id uint) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID uint, offset, limit int) ([]models.Message, int64, error)
	MarkRead(ctx context.Context, conversationID, readerID uint, at time.Time) error
}

type conversationRepository struct {
	db *gorm.DB
}

func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) GetOrCreate(ctx context.Context, needID, buyerID, providerID uint) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.db.WithContext(ctx).
		Where("need_id = ? AND provider_id = ?", needID, providerID).
		First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{
		NeedID:        needID,
		BuyerID:       buyerID,
		ProviderID:    providerID,
		LastMessageAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) GetByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR provider_id = ?", userID, userID).
		Order("last_message_at DESC").
		Find(&convs).Error
	return convs, err
}

func (r *conversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("last_message_at", message.CreatedAt).Error
	})
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID uint, offset, limit int) ([]models.Message, int64, error) {
	var messages []models.Message
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ?", conversationID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	return messages, total, err
}

// MarkRead stamps every unread message not sent by the reader.
func (r *conversationRepository) MarkRead(ctx context.Context, conversationID, readerID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", at).Error
}
