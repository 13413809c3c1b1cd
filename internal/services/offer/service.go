// Package offer implements the offer lifecycle: pending offers move to
// exactly one of accepted, rejected or withdrawn, and accepting an offer
// batch-rejects every other pending offer on the same need.
package offer

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

// Service defines the offer lifecycle operations.
type Service interface {
	Create(ctx context.Context, providerID uint, input *validation.OfferInput) (*models.Offer, error)
	Get(ctx context.Context, callerID, offerID uint) (*models.Offer, error)
	ListForNeed(ctx context.Context, callerID, needID uint) ([]models.Offer, error)
	ListMine(ctx context.Context, providerID uint, offset, limit int) ([]models.Offer, int64, error)
	Accept(ctx context.Context, callerID, offerID uint) (*models.Offer, error)
	Reject(ctx context.Context, callerID, offerID uint, reason string) error
	Withdraw(ctx context.Context, callerID, offerID uint) error
	Delete(ctx context.Context, callerID, offerID uint) error
}

type service struct {
	offers   repositories.OfferRepository
	needs    repositories.NeedRepository
	notifier notification.Notifier
	now      func() time.Time
}

// NewService creates the offer service.
func NewService(offers repositories.OfferRepository, needs repositories.NeedRepository, notifier notification.Notifier) Service {
	if offers == nil {
		panic("offer repository is required")
	}
	if needs == nil {
		panic("need repository is required")
	}

	return &service{
		offers:   offers,
		needs:    needs,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *service) Create(ctx context.Context, providerID uint, input *validation.OfferInput) (*models.Offer, error) {
	v := validation.New()
	v.Offer(input)
	if !v.Valid() {
		return nil, apperrors.NewValidationFields(v.Errors)
	}

	need, err := s.needs.GetByID(ctx, input.NeedID)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.NewNotFound("need", input.NeedID)
		}
		return nil, err
	}

	if need.UserID == providerID {
		return nil, ErrOwnNeed
	}
	if !need.AcceptsOffers(s.now()) {
		return nil, ErrNeedNotActive
	}

	if need.Currency != "" && input.Currency != "" && input.Currency != need.Currency {
		return nil, ErrCurrencyMismatch
	}
	if need.MinBudget != nil && input.Price < *need.MinBudget {
		return nil, apperrors.NewValidation("price",
			fmt.Sprintf("price is below the need's minimum budget of %.2f", *need.MinBudget))
	}
	if need.MaxBudget != nil && input.Price > *need.MaxBudget {
		return nil, apperrors.NewValidation("price",
			fmt.Sprintf("price is above the need's maximum budget of %.2f", *need.MaxBudget))
	}

	exists, err := s.offers.HasPendingForProvider(ctx, need.ID, providerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicatePending
	}

	currency := input.Currency
	if currency == "" {
		currency = need.Currency
	}

	offer := &models.Offer{
		NeedID:       need.ID,
		ProviderID:   providerID,
		Price:        input.Price,
		Currency:     currency,
		DeliveryDays: input.DeliveryDays,
		Message:      input.Message,
		Status:       models.OfferStatusPending,
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}

	s.notify(need.UserID, models.NotificationOfferReceived,
		"New offer received",
		fmt.Sprintf("You received an offer of %.2f %s on %q", offer.Price, offer.Currency, need.Title),
		models.JSON{"offer_id": offer.ID, "need_id": need.ID})

	return offer, nil
}

func (s *service) Get(ctx context.Context, callerID, offerID uint) (*models.Offer, error) {
	offer, err := s.load(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if !offer.InvolvesUser(callerID) {
		return nil, ErrNotParty
	}
	return offer, nil
}

func (s *service) ListForNeed(ctx context.Context, callerID, needID uint) ([]models.Offer, error) {
	need, err := s.needs.GetByID(ctx, needID)
	if err != nil {
		if errors.Is(err, repositories.ErrNeedNotFound) {
			return nil, apperrors.NewNotFound("need", needID)
		}
		return nil, err
	}
	if need.UserID != callerID {
		return nil, ErrNotNeedOwner
	}
	return s.offers.ListByNeed(ctx, needID)
}

func (s *service) ListMine(ctx context.Context, providerID uint, offset, limit int) ([]models.Offer, int64, error) {
	return s.offers.ListByProvider(ctx, providerID, offset, limit)
}

// Accept moves the offer to accepted, the need to in_progress, and rejects
// every other pending offer on the need. The repository performs the whole
// transition atomically; concurrent accepts lose with a conflict error.
func (s *service) Accept(ctx context.Context, callerID, offerID uint) (*models.Offer, error) {
	offer, err := s.load(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Need == nil || offer.Need.UserID != callerID {
		return nil, ErrNotNeedOwner
	}
	if offer.Status != models.OfferStatusPending {
		return nil, ErrNotPending
	}
	if offer.Need.Status != models.NeedStatusActive {
		return nil, ErrNeedNotActive
	}

	result, err := s.offers.Accept(ctx, offerID)
	if err != nil {
		return nil, err
	}

	needTitle := result.Offer.Need.Title
	s.notify(result.Offer.ProviderID, models.NotificationOfferAccepted,
		"Your offer was accepted",
		fmt.Sprintf("Your offer on %q was accepted", needTitle),
		models.JSON{"offer_id": result.Offer.ID, "need_id": result.Offer.NeedID})

	for _, rejected := range result.Rejected {
		s.notify(rejected.ProviderID, models.NotificationOfferRejected,
			"Your offer was not selected",
			fmt.Sprintf("Another offer on %q was accepted", needTitle),
			models.JSON{"offer_id": rejected.ID, "need_id": rejected.NeedID})
	}

	return result.Offer, nil
}

func (s *service) Reject(ctx context.Context, callerID, offerID uint, reason string) error {
	offer, err := s.load(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.Need == nil || offer.Need.UserID != callerID {
		return ErrNotNeedOwner
	}
	if offer.IsTerminal() {
		return ErrNotPending
	}

	if err := s.offers.Transition(ctx, offerID, models.OfferStatusPending, models.OfferStatusRejected, reason); err != nil {
		return err
	}

	body := fmt.Sprintf("Your offer on %q was declined", offer.Need.Title)
	if reason != "" {
		body = fmt.Sprintf("%s: %s", body, reason)
	}
	s.notify(offer.ProviderID, models.NotificationOfferRejected,
		"Offer declined", body,
		models.JSON{"offer_id": offer.ID, "need_id": offer.NeedID})

	return nil
}

func (s *service) Withdraw(ctx context.Context, callerID, offerID uint) error {
	offer, err := s.load(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.ProviderID != callerID {
		return ErrNotProvider
	}
	if offer.IsTerminal() {
		return ErrNotPending
	}

	if err := s.offers.Transition(ctx, offerID, models.OfferStatusPending, models.OfferStatusWithdrawn, ""); err != nil {
		return err
	}

	if offer.Need != nil {
		s.notify(offer.Need.UserID, models.NotificationOfferWithdrawn,
			"Offer withdrawn",
			fmt.Sprintf("An offer on %q was withdrawn", offer.Need.Title),
			models.JSON{"offer_id": offer.ID, "need_id": offer.NeedID})
	}

	return nil
}

func (s *service) Delete(ctx context.Context, callerID, offerID uint) error {
	offer, err := s.load(ctx, offerID)
	if err != nil {
		return err
	}
	if offer.ProviderID != callerID {
		return ErrNotProvider
	}
	if offer.Status == models.OfferStatusAccepted {
		return ErrAcceptedDelete
	}
	return s.offers.Delete(ctx, offerID)
}

func (s *service) load(ctx context.Context, offerID uint) (*models.Offer, error) {
	offer, err := s.offers.GetByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.NewNotFound("offer", offerID)
		}
		return nil, err
	}
	return offer, nil
}

func (s *service) notify(userID uint, notifType, title, body string, data models.JSON) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, notifType, title, body, data)
}
