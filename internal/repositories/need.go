package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var ErrNeedNotFound = errors.New("need not found")

// NeedRepository defines need persistence operations.
type NeedRepository interface {
	Create(ctx context.Context, need *models.Need) error
	GetByID(ctx context.Context, id uint) (*models.Need, error)
	Update(ctx context.Context, need *models.Need) error
	UpdateStatus(ctx context.Context, needID uint, status models.NeedStatus) error
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Need, int64, error)
	ListActive(ctx context.Context, categoryID uint) ([]models.Need, error)
	IncrementViewCount(ctx context.Context, needID uint) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}

type needRepository struct {
	db *gorm.DB
}

func NewNeedRepository(db *gorm.DB) NeedRepository {
	return &needRepository{db: db}
}

func (r *needRepository) Create(ctx context.Context, need *models.Need) error {
	// Images are created in the same insert so SortOrder survives round-trips.
	return r.db.WithContext(ctx).Create(need).Error
}

func (r *needRepository) GetByID(ctx context.Context, id uint) (*models.Need, error) {
	var need models.Need
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("need_images.sort_order ASC")
		}).
		First(&need, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNeedNotFound
		}
		return nil, err
	}
	return &need, nil
}

func (r *needRepository) Update(ctx context.Context, need *models.Need) error {
	return r.db.WithContext(ctx).Save(need).Error
}

func (r *needRepository) UpdateStatus(ctx context.Context, needID uint, status models.NeedStatus) error {
	return r.db.WithContext(ctx).Model(&models.Need{}).
		Where("id = ?", needID).
		Update("status", status).Error
}

func (r *needRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Need, int64, error) {
	var needs []models.Need
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Need{}).Where("user_id = ?", userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("need_images.sort_order ASC")
	}).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&needs).Error
	return needs, total, err
}

// ListActive loads the active needs with offers and category for scoring.
// categoryID of zero means all categories.
func (r *needRepository) ListActive(ctx context.Context, categoryID uint) ([]models.Need, error) {
	var needs []models.Need
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Offers").
		Where("status = ?", models.NeedStatusActive)
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	err := q.Find(&needs).Error
	return needs, err
}

func (r *needRepository) IncrementViewCount(ctx context.Context, needID uint) error {
	return r.db.WithContext(ctx).Model(&models.Need{}).
		Where("id = ?", needID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// ExpireOverdue marks active needs past their deadline as expired.
func (r *needRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Need{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.NeedStatusActive, now).
		Update("status", models.NeedStatusExpired)
	return res.RowsAffected, res.Error
}
