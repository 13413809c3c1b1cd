// Package need implements buyer-side need management.
package need

import (
	"context"
	"errors"
	"log"
	"time"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories/cache"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

// Service defines need operations.
type Service interface {
	Create(ctx context.Context, userID uint, input *validation.NeedInput) (*models.Need, error)
	Get(ctx context.Context, id uint) (*models.Need, error)
	Update(ctx context.Context, userID, id uint, input *validation.NeedInput) (*models.Need, error)
	Cancel(ctx context.Context, userID, id uint) error
	ListMine(ctx context.Context, userID uint, offset, limit int) ([]models.Need, int64, error)
	ExpireOverdue(ctx context.Context) (int64, error)
}

type service struct {
	needs      repositories.NeedRepository
	categories repositories.CategoryRepository
	cache      *cache.CacheService
	now        func() time.Time
}

// NewService creates the need service. The cache may be nil in tests.
func NewService(needs repositories.NeedRepository, categories repositories.CategoryRepository, cacheSvc *cache.CacheService) Service {
	if needs == nil {
		panic("need repository is required")
	}
	if categories == nil {
		panic("category repository is required")
	}

	return &service{
		needs:      needs,
		categories: categories,
		cache:      cacheSvc,
		now:        time.Now,
	}
}

func (s *service) Create(ctx context.Context, userID uint, input *validation.NeedInput) (*models.Need, error) {
	v := validation.New()
	v.Need(input)
	if !v.Valid() {
		return nil, apperrors.NewValidationFields(v.Errors)
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrBadCategory
		}
		return nil, err
	}

	need := &models.Need{
		Title:       input.Title,
		Description: input.Description,
		CategoryID:  input.CategoryID,
		MinBudget:   input.MinBudget,
		MaxBudget:   input.MaxBudget,
		Currency:    input.Currency,
		Location:    input.Location,
		Urgency:     input.Urgency,
		Status:      models.NeedStatusActive,
		UserID:      userID,
		Images:      buildImages(input.ImageURLs),
	}
	if need.Currency == "" {
		need.Currency = "TRY"
	}
	if need.Urgency == "" {
		need.Urgency = models.UrgencyNormal
	}
	if input.ExpiresAt != "" {
		at, err := time.Parse(time.RFC3339, input.ExpiresAt)
		if err != nil {
			return nil, apperrors.NewValidation("expires_at", "must be an RFC 3339 timestamp")
		}
		if !at.After(s.now()) {
			return nil, apperrors.NewValidation("expires_at", "must be in the future")
		}
		need.ExpiresAt = &at
	}

	if err := s.needs.Create(ctx, need); err != nil {
		return nil, err
	}
	return need, nil
}

// Get returns a need by id and bumps its view counter. Reads go through the
// redis cache; the view counter is bumped against the database regardless.
func (s *service) Get(ctx context.Context, id uint) (*models.Need, error) {
	if err := s.needs.IncrementViewCount(ctx, id); err != nil {
		log.Printf("failed to bump view count for need %d: %v", id, err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetNeed(ctx, id); ok {
			cached.ViewCount++
			return cached, nil
		}
	}

	need, err := s.needs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.NewNotFound("need", id)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.CacheNeed(ctx, need); err != nil {
			log.Printf("failed to cache need %d: %v", id, err)
		}
	}
	return need, nil
}

func (s *service) Update(ctx context.Context, userID, id uint, input *validation.NeedInput) (*models.Need, error) {
	need, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if need.UserID != userID {
		return nil, ErrNotOwner
	}
	if need.Status != models.NeedStatusActive {
		return nil, ErrNotEditable
	}

	v := validation.New()
	v.Need(input)
	if !v.Valid() {
		return nil, apperrors.NewValidationFields(v.Errors)
	}

	need.Title = input.Title
	need.Description = input.Description
	need.MinBudget = input.MinBudget
	need.MaxBudget = input.MaxBudget
	need.Location = input.Location
	if input.Urgency != "" {
		need.Urgency = input.Urgency
	}
	if input.CategoryID != 0 && input.CategoryID != need.CategoryID {
		if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrCategoryNotFound) {
				return nil, ErrBadCategory
			}
			return nil, err
		}
		need.CategoryID = input.CategoryID
		need.Category = nil
	}

	if err := s.needs.Update(ctx, need); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return need, nil
}

// Cancel withdraws an active need from the marketplace. Needs that already
// have an accepted offer are settled through the payment flow instead.
func (s *service) Cancel(ctx context.Context, userID, id uint) error {
	need, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if need.UserID != userID {
		return ErrNotOwner
	}
	if need.Status != models.NeedStatusActive {
		return ErrNotEditable
	}

	if err := s.needs.UpdateStatus(ctx, id, models.NeedStatusCancelled); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *service) ListMine(ctx context.Context, userID uint, offset, limit int) ([]models.Need, int64, error) {
	return s.needs.ListByUser(ctx, userID, offset, limit)
}

// ExpireOverdue marks active needs past their deadline as expired. Invoked
// by the daily sweeper in main.
func (s *service) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.needs.ExpireOverdue(ctx, s.now())
}

func (s *service) load(ctx context.Context, id uint) (*models.Need, error) {
	need, err := s.needs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.NewNotFound("need", id)
		}
		return nil, err
	}
	return need, nil
}

func (s *service) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateNeed(ctx, id); err != nil {
		log.Printf("failed to invalidate need %d cache: %v", id, err)
	}
}

func buildImages(urls []string) []models.NeedImage {
	images := make([]models.NeedImage, 0, len(urls))
	for i, url := range urls {
		if url == "" {
			continue
		}
		images = append(images, models.NeedImage{URL: url, SortOrder: i})
	}
	return images
}
