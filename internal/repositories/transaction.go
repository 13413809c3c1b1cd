package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLiveTransaction     = errors.New("offer already has an active transaction")
)

// TransactionRepository defines escrow transaction persistence. Transitions
// are append-only status changes; rows are never deleted.
type TransactionRepository interface {
	CreateForOffer(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uint) (*models.Transaction, error)
	GetByConversationID(ctx context.Context, conversationID string) (*models.Transaction, error)
	MarkProcessing(ctx context.Context, id uint, gatewayRef, paymentHTML string) error
	MarkCompleted(ctx context.Context, id uint, at time.Time) error
	MarkFailed(ctx context.Context, id uint, reason string) error
	Release(ctx context.Context, id uint, at time.Time) (*models.Transaction, error)
	Refund(ctx context.Context, id uint, reason string, at time.Time) (*models.Transaction, error)
	ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// CreateForOffer inserts a new escrow transaction after verifying that the
// offer has no live transaction. The offer row is locked first so two
// concurrent initializations serialize even when no transaction rows exist
// yet to lock; the check and the insert commit together.
func (r *transactionRepository) CreateForOffer(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var offer models.Offer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&offer, transaction.OfferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOfferNotFound
			}
			return err
		}

		var existing []models.Transaction
		if err := tx.Where("offer_id = ?", transaction.OfferID).
			Find(&existing).Error; err != nil {
			return err
		}
		for i := range existing {
			if existing[i].IsLive() {
				return ErrLiveTransaction
			}
		}
		return tx.Create(transaction).Error
	})
}

func (r *transactionRepository) GetByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).Preload("Offer").First(&transaction, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) GetByConversationID(ctx context.Context, conversationID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepository) MarkProcessing(ctx context.Context, id uint, gatewayRef, paymentHTML string) error {
	return r.transition(ctx, id, models.TransactionStatusPending, map[string]interface{}{
		"status":       models.TransactionStatusProcessing,
		"gateway_ref":  gatewayRef,
		"payment_html": paymentHTML,
	})
}

func (r *transactionRepository) MarkCompleted(ctx context.Context, id uint, at time.Time) error {
	return r.transition(ctx, id, models.TransactionStatusProcessing, map[string]interface{}{
		"status":       models.TransactionStatusCompleted,
		"completed_at": at,
	})
}

// MarkFailed flags a transaction as failed from pending or processing.
func (r *transactionRepository) MarkFailed(ctx context.Context, id uint, reason string) error {
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status IN ?", id, []models.TransactionStatus{
			models.TransactionStatusPending,
			models.TransactionStatusProcessing,
		}).
		Updates(map[string]interface{}{
			"status":         models.TransactionStatusFailed,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflict("transaction state changed concurrently")
	}
	return nil
}

// Release hands the escrowed funds to the provider: transaction -> released,
// need -> completed, provider wallet credited, all in one database
// transaction.
func (r *transactionRepository) Release(ctx context.Context, id uint, at time.Time) (*models.Transaction, error) {
	var result *models.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := r.lockCompleted(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Model(transaction).Updates(map[string]interface{}{
			"status":      models.TransactionStatusReleased,
			"released_at": at,
		}).Error; err != nil {
			return err
		}

		if err := r.updateNeedStatus(tx, transaction.OfferID, models.NeedStatusCompleted); err != nil {
			return err
		}

		if err := r.creditWallet(tx, transaction.ProviderID, transaction.Amount, transaction.Currency); err != nil {
			return err
		}

		transaction.Status = models.TransactionStatusReleased
		transaction.ReleasedAt = &at
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	if CacheService != nil {
		// Cached balance is stale once the credit commits
		_ = CacheService.InvalidateWallet(ctx, result.ProviderID)
	}
	return result, nil
}

// Refund returns the escrowed funds to the buyer: transaction -> refunded,
// need -> cancelled. No gateway reversal is issued here; reconciliation with
// the gateway is a manual back-office step.
func (r *transactionRepository) Refund(ctx context.Context, id uint, reason string, at time.Time) (*models.Transaction, error) {
	var result *models.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		transaction, err := r.lockCompleted(tx, id)
		if err != nil {
			return err
		}

		if err := tx.Model(transaction).Updates(map[string]interface{}{
			"status":        models.TransactionStatusRefunded,
			"refunded_at":   at,
			"refund_reason": reason,
		}).Error; err != nil {
			return err
		}

		if err := r.updateNeedStatus(tx, transaction.OfferID, models.NeedStatusCancelled); err != nil {
			return err
		}

		transaction.Status = models.TransactionStatusRefunded
		transaction.RefundedAt = &at
		transaction.RefundReason = reason
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Transaction, int64, error) {
	var transactions []models.Transaction
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("buyer_id = ? OR provider_id = ?", userID, userID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&transactions).Error
	return transactions, total, err
}

func (r *transactionRepository) lockCompleted(tx *gorm.DB, id uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&transaction, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.Status != models.TransactionStatusCompleted {
		return nil, apperrors.NewConflict("transaction is not completed")
	}
	return &transaction, nil
}

func (r *transactionRepository) updateNeedStatus(tx *gorm.DB, offerID uint, status models.NeedStatus) error {
	var offer models.Offer
	if err := tx.First(&offer, offerID).Error; err != nil {
		return err
	}
	return tx.Model(&models.Need{}).
		Where("id = ?", offer.NeedID).
		Update("status", status).Error
}

func (r *transactionRepository) creditWallet(tx *gorm.DB, userID uint, amount float64, currency string) error {
	var wallet models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wallet = models.Wallet{UserID: userID, Currency: currency}
		if err := tx.Create(&wallet).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return tx.Model(&wallet).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
}

// Guarded single-status transition; zero rows affected means a concurrent
// writer moved the transaction first.
func (r *transactionRepository) transition(ctx context.Context, id uint, from models.TransactionStatus, updates map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&models.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NewConflict("transaction state changed concurrently")
	}
	return nil
}
