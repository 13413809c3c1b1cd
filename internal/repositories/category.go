package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	ListActive(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Upsert(ctx context.Context, category *models.Category) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Upsert creates the category or leaves an existing slug untouched.
// Used by the seed command.
func (r *categoryRepository) Upsert(ctx context.Context, category *models.Category) error {
	existing, err := r.GetBySlug(ctx, category.Slug)
	if err == nil {
		category.ID = existing.ID
		return nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return err
	}
	return r.db.WithContext(ctx).Create(category).Error
}
