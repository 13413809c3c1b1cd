package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, notificationID, userID uint, at time.Time) error
	MarkAllRead(ctx context.Context, userID uint, at time.Time) error
	CountUnread(ctx context.Context, userID uint) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, notificationID, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("read_at", at).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
