package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var ErrReviewNotFound = errors.New("review not found")

// RatingAggregate is the visible-review rollup for a user.
type RatingAggregate struct {
	Average float64
	Count   int
}

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	ExistsForTriple(ctx context.Context, reviewerID, revieweeID, offerID uint) (bool, error)
	ListVisibleForUser(ctx context.Context, revieweeID uint, offset, limit int) ([]models.Review, int64, error)
	AggregateForUser(ctx context.Context, revieweeID uint) (RatingAggregate, error)
	SetVisibility(ctx context.Context, reviewID uint, visible bool) error
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ExistsForTriple(ctx context.Context, reviewerID, revieweeID, offerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewer_id = ? AND reviewee_id = ? AND offer_id = ?", reviewerID, revieweeID, offerID).
		Count(&count).Error
	return count > 0, err
}

func (r *reviewRepository) ListVisibleForUser(ctx context.Context, revieweeID uint, offset, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("reviewee_id = ? AND is_visible = ?", revieweeID, true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *reviewRepository) AggregateForUser(ctx context.Context, revieweeID uint) (RatingAggregate, error) {
	var agg struct {
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("reviewee_id = ? AND is_visible = ?", revieweeID, true).
		Scan(&agg).Error
	return RatingAggregate{Average: agg.Average, Count: int(agg.Count)}, err
}

func (r *reviewRepository) SetVisibility(ctx context.Context, reviewID uint, visible bool) error {
	res := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("is_visible", visible)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrReviewNotFound
	}
	return nil
}
