// Package review implements reviews between the parties of an accepted
// offer, with visible-review aggregates rolled up onto the user profile.
package review

import (
	"context"
	"errors"
	"log"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

// Service defines review operations.
type Service interface {
	Create(ctx context.Context, reviewerID uint, input *validation.ReviewInput) (*models.Review, error)
	ListForUser(ctx context.Context, revieweeID uint, offset, limit int) ([]models.Review, int64, error)
	SetVisibility(ctx context.Context, reviewID uint, visible bool) error
}

type service struct {
	reviews  repositories.ReviewRepository
	offers   repositories.OfferRepository
	users    repositories.UserRepository
	notifier notification.Notifier
}

// NewService creates the review service.
func NewService(reviews repositories.ReviewRepository, offers repositories.OfferRepository, users repositories.UserRepository, notifier notification.Notifier) Service {
	if reviews == nil {
		panic("review repository is required")
	}
	if offers == nil {
		panic("offer repository is required")
	}
	if users == nil {
		panic("user repository is required")
	}

	return &service{
		reviews:  reviews,
		offers:   offers,
		users:    users,
		notifier: notifier,
	}
}

// Create records a review from one party of an accepted offer about the
// other. The (reviewer, reviewee, offer) triple is unique.
func (s *service) Create(ctx context.Context, reviewerID uint, input *validation.ReviewInput) (*models.Review, error) {
	v := validation.New()
	v.Review(input)
	if !v.Valid() {
		return nil, apperrors.NewValidationFields(v.Errors)
	}

	offer, err := s.offers.GetByID(ctx, input.OfferID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.NewNotFound("offer", input.OfferID)
		}
		return nil, err
	}
	if offer.Status != models.OfferStatusAccepted {
		return nil, ErrOfferNotAccepted
	}
	if !offer.InvolvesUser(reviewerID) {
		return nil, ErrNotParty
	}

	revieweeID := offer.ProviderID
	if reviewerID == offer.ProviderID {
		revieweeID = offer.Need.UserID
	}
	if revieweeID == reviewerID {
		return nil, ErrSelfReview
	}

	exists, err := s.reviews.ExistsForTriple(ctx, reviewerID, revieweeID, offer.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		RevieweeID: revieweeID,
		OfferID:    offer.ID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		IsVisible:  true,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.refreshRating(ctx, revieweeID)

	if s.notifier != nil {
		s.notifier.Notify(revieweeID, models.NotificationNewReview,
			"New review",
			"You received a new review",
			models.JSON{"review_id": review.ID, "rating": review.Rating})
	}

	return review, nil
}

func (s *service) ListForUser(ctx context.Context, revieweeID uint, offset, limit int) ([]models.Review, int64, error) {
	return s.reviews.ListVisibleForUser(ctx, revieweeID, offset, limit)
}

// SetVisibility toggles a review for moderation and recomputes the
// reviewee's rating from the remaining visible reviews.
func (s *service) SetVisibility(ctx context.Context, reviewID uint, visible bool) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repositories.ErrReviewNotFound) {
			return apperrors.NewNotFound("review", reviewID)
		}
		return err
	}

	if err := s.reviews.SetVisibility(ctx, reviewID, visible); err != nil {
		return err
	}
	s.refreshRating(ctx, review.RevieweeID)
	return nil
}

func (s *service) refreshRating(ctx context.Context, revieweeID uint) {
	agg, err := s.reviews.AggregateForUser(ctx, revieweeID)
	if err != nil {
		log.Printf("failed to aggregate rating for user %d: %v", revieweeID, err)
		return
	}
	if err := s.users.UpdateRating(revieweeID, agg.Average, agg.Count); err != nil {
		log.Printf("failed to update rating for user %d: %v", revieweeID, err)
	}
}
