// Package payment implements the escrow lifecycle: pending -> processing ->
// completed or failed, then completed -> released or refunded. Transactions
// are append-only; at most one live transaction exists per offer.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/services/notification"
)

// Service defines the escrow payment operations.
type Service interface {
	Initialize(ctx context.Context, buyerID uint, req InitializeRequest) (*InitializeResponse, error)
	HandleCallback(ctx context.Context, conversationID string) (*models.Transaction, error)
	Release(ctx context.Context, callerID, transactionID uint) (*models.Transaction, error)
	Refund(ctx context.Context, callerID, transactionID uint, reason string) (*models.Transaction, error)
	Get(ctx context.Context, callerID, transactionID uint) (*models.Transaction, error)
	ListMine(ctx context.Context, callerID uint, offset, limit int) ([]models.Transaction, int64, error)
}

type service struct {
	transactions repositories.TransactionRepository
	offers       repositories.OfferRepository
	gateway      Gateway
	notifier     notification.Notifier
	returnURL    string
	now          func() time.Time
}

// NewService creates the payment service.
func NewService(transactions repositories.TransactionRepository, offers repositories.OfferRepository, gateway Gateway, notifier notification.Notifier, returnURL string) Service {
	if transactions == nil {
		panic("transaction repository is required")
	}
	if offers == nil {
		panic("offer repository is required")
	}
	if gateway == nil {
		panic("gateway is required")
	}

	return &service{
		transactions: transactions,
		offers:       offers,
		gateway:      gateway,
		notifier:     notifier,
		returnURL:    returnURL,
		now:          time.Now,
	}
}

func (s *service) Initialize(ctx context.Context, buyerID uint, req InitializeRequest) (*InitializeResponse, error) {
	offer, err := s.offers.GetByID(ctx, req.OfferID)
	if err != nil {
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.NewNotFound("offer", req.OfferID)
		}
		return nil, err
	}
	if offer.Need == nil || offer.Need.UserID != buyerID {
		return nil, ErrNotBuyer
	}
	if offer.Status != models.OfferStatusAccepted {
		return nil, ErrOfferNotAccepted
	}

	transaction := &models.Transaction{
		OfferID:        offer.ID,
		BuyerID:        buyerID,
		ProviderID:     offer.ProviderID,
		Amount:         offer.Price,
		Currency:       offer.Currency,
		Status:         models.TransactionStatusPending,
		PaymentGateway: "stripe",
		ConversationID: uuid.NewString(),
	}
	if err := s.transactions.CreateForOffer(ctx, transaction); err != nil {
		if errors.Is(err, repositories.ErrLiveTransaction) {
			return nil, ErrLiveTransaction
		}
		if errors.Is(err, repositories.ErrOfferNotFound) {
			return nil, apperrors.NewNotFound("offer", req.OfferID)
		}
		return nil, err
	}

	result, err := s.gateway.InitiatePayment(ctx, InitiateRequest{
		Amount:         transaction.Amount,
		Currency:       transaction.Currency,
		ConversationID: transaction.ConversationID,
		Card:           req.Card,
		ReturnURL:      s.returnURL,
	})
	if err != nil {
		if markErr := s.transactions.MarkFailed(ctx, transaction.ID, err.Error()); markErr != nil {
			log.Printf("failed to mark transaction %d failed: %v", transaction.ID, markErr)
		}
		return nil, &apperrors.DomainError{
			Code:    "PAYMENT_INIT_FAILED",
			Message: "payment initialization was rejected by the gateway",
		}
	}

	if err := s.transactions.MarkProcessing(ctx, transaction.ID, result.GatewayRef, result.RedirectURL); err != nil {
		return nil, err
	}

	return &InitializeResponse{
		TransactionID:  transaction.ID,
		ConversationID: transaction.ConversationID,
		Status:         string(models.TransactionStatusProcessing),
		RedirectURL:    result.RedirectURL,
	}, nil
}

// HandleCallback resolves a processing transaction after the buyer finished
// (or abandoned) issuer authentication. The gateway is re-queried for the
// authoritative status; the callback payload itself is never trusted.
// Replayed callbacks for terminal transactions are no-ops.
func (s *service) HandleCallback(ctx context.Context, conversationID string) (*models.Transaction, error) {
	transaction, err := s.transactions.GetByConversationID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.NewNotFound("transaction", conversationID)
		}
		return nil, err
	}

	if transaction.Status != models.TransactionStatusProcessing {
		return transaction, nil
	}

	state, err := s.gateway.RetrievePayment(ctx, transaction.GatewayRef)
	if err != nil {
		return nil, err
	}

	switch state {
	case GatewayStateSucceeded:
		completedAt := s.now()
		if err := s.transactions.MarkCompleted(ctx, transaction.ID, completedAt); err != nil {
			return nil, err
		}
		transaction.Status = models.TransactionStatusCompleted
		transaction.CompletedAt = &completedAt

		s.notify(transaction.BuyerID, models.NotificationPaymentDone,
			"Payment received",
			fmt.Sprintf("Your payment of %.2f %s is held in escrow", transaction.Amount, transaction.Currency),
			models.JSON{"transaction_id": transaction.ID})
		s.notify(transaction.ProviderID, models.NotificationPaymentDone,
			"Payment secured",
			fmt.Sprintf("A payment of %.2f %s is held in escrow for your offer", transaction.Amount, transaction.Currency),
			models.JSON{"transaction_id": transaction.ID})

	case GatewayStateFailed:
		if err := s.transactions.MarkFailed(ctx, transaction.ID, "payment was not completed"); err != nil {
			return nil, err
		}
		transaction.Status = models.TransactionStatusFailed
	}

	return transaction, nil
}

// Release hands the escrowed funds to the provider. Buyer only.
func (s *service) Release(ctx context.Context, callerID, transactionID uint) (*models.Transaction, error) {
	transaction, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if transaction.BuyerID != callerID {
		return nil, ErrNotBuyer
	}
	if transaction.Status != models.TransactionStatusCompleted {
		return nil, ErrNotCompleted
	}

	released, err := s.transactions.Release(ctx, transactionID, s.now())
	if err != nil {
		return nil, err
	}

	s.notify(released.ProviderID, models.NotificationPaymentOut,
		"Payment released",
		fmt.Sprintf("%.2f %s has been released to you", released.Amount, released.Currency),
		models.JSON{"transaction_id": released.ID})

	return released, nil
}

// Refund returns the escrowed funds to the buyer. Either party may request
// it. The gateway is not called; reconciliation is a manual back-office step.
func (s *service) Refund(ctx context.Context, callerID, transactionID uint, reason string) (*models.Transaction, error) {
	transaction, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !transaction.InvolvesUser(callerID) {
		return nil, ErrNotParty
	}
	if transaction.Status != models.TransactionStatusCompleted {
		return nil, ErrNotCompleted
	}

	refunded, err := s.transactions.Refund(ctx, transactionID, reason, s.now())
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("The payment of %.2f %s was refunded", refunded.Amount, refunded.Currency)
	if reason != "" {
		body = fmt.Sprintf("%s: %s", body, reason)
	}
	s.notify(refunded.BuyerID, models.NotificationPaymentBack, "Payment refunded", body,
		models.JSON{"transaction_id": refunded.ID})
	s.notify(refunded.ProviderID, models.NotificationPaymentBack, "Payment refunded", body,
		models.JSON{"transaction_id": refunded.ID})

	return refunded, nil
}

func (s *service) Get(ctx context.Context, callerID, transactionID uint) (*models.Transaction, error) {
	transaction, err := s.load(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !transaction.InvolvesUser(callerID) {
		return nil, ErrNotParty
	}
	return transaction, nil
}

func (s *service) ListMine(ctx context.Context, callerID uint, offset, limit int) ([]models.Transaction, int64, error) {
	return s.transactions.ListByUser(ctx, callerID, offset, limit)
}

func (s *service) load(ctx context.Context, transactionID uint) (*models.Transaction, error) {
	transaction, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, apperrors.NewNotFound("transaction", transactionID)
		}
		return nil, err
	}
	return transaction, nil
}

func (s *service) notify(userID uint, notifType, title, body string, data models.JSON) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(userID, notifType, title, body, data)
}
