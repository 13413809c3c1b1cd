package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var ErrOfferNotFound = errors.New("offer not found")

// AcceptResult carries the accepted offer and the sibling offers that were
// batch-rejected in the same database transaction.
type AcceptResult struct {
	Offer    *models.Offer
	Rejected []models.Offer
}

// OfferRepository defines offer persistence operations. State transitions are
// implemented as atomic check-and-set statements so concurrent requests on
// the same offer resolve to exactly one winner.
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uint) (*models.Offer, error)
	HasPendingForProvider(ctx context.Context, needID, providerID uint) (bool, error)
	ListByNeed(ctx context.Context, needID uint) ([]models.Offer, error)
	ListByProvider(ctx context.Context, providerID uint, offset, limit int) ([]models.Offer, int64, error)
	Accept(ctx context.Context, offerID uint) (*AcceptResult, error)
	Transition(ctx context.Context, offerID uint, from, to models.OfferStatus, reason string) error
	Delete(ctx context.Context, offerID uint) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *offerRepository) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).Preload("Need").First(&offer, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) HasPendingForProvider(ctx context.Context, needID, providerID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("need_id = ? AND provider_id = ? AND status = ?", needID, providerID, models.OfferStatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *offerRepository) ListByNeed(ctx context.Context, needID uint) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("need_id = ?", needID).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListByProvider(ctx context.Context, providerID uint, offset, limit int) ([]models.Offer, int64, error) {
	var offers []models.Offer
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Offer{}).Where("provider_id = ?", providerID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Need").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&offers).Error
	return offers, total, err
}

// Accept performs the full acceptance transition in one database transaction
// with row locks: offer -> accepted, need -> in_progress, every other pending
// offer on the need -> rejected. A concurrent accept loses with a conflict.
func (r *offerRepository) Accept(ctx context.Context, offerID uint) (*AcceptResult, error) {
	result := &AcceptResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.Offer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, offerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return err
		}
		if offer.Status != models.OfferStatusPending {
			return apperrors.NewConflict("offer is no longer pending")
		}

		var need models.Need
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&need, offer.NeedID).Error; err != nil {
			return err
		}
		if need.Status != models.NeedStatusActive {
			return apperrors.NewConflict("need is no longer active")
		}

		var siblings []models.Offer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("need_id = ? AND id <> ? AND status = ?", offer.NeedID, offer.ID, models.OfferStatusPending).
			Find(&siblings).Error; err != nil {
			return err
		}

		if err := tx.Model(&offer).Update("status", models.OfferStatusAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&need).Update("status", models.NeedStatusInProgress).Error; err != nil {
			return err
		}
		if len(siblings) > 0 {
			ids := make([]uint, len(siblings))
			for i, s := range siblings {
				ids[i] = s.ID
			}
			if err := tx.Model(&models.Offer{}).
				Where("id IN ?", ids).
				Updates(map[string]interface{}{
					"status":        models.OfferStatusRejected,
					"reject_reason": "another offer was accepted",
				}).Error; err != nil {
				return err
			}
			for i := range siblings {
				siblings[i].Status = models.OfferStatusRejected
			}
		}

		offer.Status = models.OfferStatusAccepted
		offer.Need = &need
		result.Offer = &offer
		result.Rejected = siblings
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Transition moves an offer between statuses with a guarded update. Zero rows
// affected means another request changed the offer first.
func (r *offerRepository) Transition(ctx context.Context, offerID uint, from, to models.OfferStatus, reason string) error {
	updates := map[string]interface{}{"status": to}
	if reason != "" {
		updates["reject_reason"] = reason
	}

	res := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ? AND status = ?", offerID, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflict("offer state changed concurrently")
	}
	return nil
}

func (r *offerRepository) Delete(ctx context.Context, offerID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Offer{}, offerID).Error
}
