package offer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

type MockOfferRepo struct {
	mock.Mock
}

func (m *MockOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	args := m.Called(ctx, offer)
	return args.Error(0)
}

func (m *MockOfferRepo) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}

func (m *MockOfferRepo) HasPendingForProvider(ctx context.Context, needID, providerID uint) (bool, error) {
	args := m.Called(ctx, needID, providerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOfferRepo) ListByNeed(ctx context.Context, needID uint) ([]models.Offer, error) {
	args := m.Called(ctx, needID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}

func (m *MockOfferRepo) ListByProvider(ctx context.Context, providerID uint, offset, limit int) ([]models.Offer, int64, error) {
	args := m.Called(ctx, providerID, offset, limit)
	return args.Get(0).([]models.Offer), args.Get(1).(int64), args.Error(2)
}

func (m *MockOfferRepo) Accept(ctx context.Context, offerID uint) (*repositories.AcceptResult, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repositories.AcceptResult), args.Error(1)
}

func (m *MockOfferRepo) Transition(ctx context.Context, offerID uint, from, to models.OfferStatus, reason string) error {
	args := m.Called(ctx, offerID, from, to, reason)
	return args.Error(0)
}

func (m *MockOfferRepo) Delete(ctx context.Context, offerID uint) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

type MockNeedRepo struct {
	mock.Mock
}

func (m *MockNeedRepo) Create(ctx context.Context, need *models.Need) error {
	args := m.Called(ctx, need)
	return args.Error(0)
}

func (m *MockNeedRepo) GetByID(ctx context.Context, id uint) (*models.Need, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Need), args.Error(1)
}

func (m *MockNeedRepo) Update(ctx context.Context, need *models.Need) error {
	args := m.Called(ctx, need)
	return args.Error(0)
}

func (m *MockNeedRepo) UpdateStatus(ctx context.Context, needID uint, status models.NeedStatus) error {
	args := m.Called(ctx, needID, status)
	return args.Error(0)
}

func (m *MockNeedRepo) ListByUser(ctx context.Context, userID uint, offset, limit int) ([]models.Need, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]models.Need), args.Get(1).(int64), args.Error(2)
}

func (m *MockNeedRepo) ListActive(ctx context.Context, categoryID uint) ([]models.Need, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]models.Need), args.Error(1)
}

func (m *MockNeedRepo) IncrementViewCount(ctx context.Context, needID uint) error {
	args := m.Called(ctx, needID)
	return args.Error(0)
}

func (m *MockNeedRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(userID uint, notifType, title, body string, data models.JSON) {
	m.Called(userID, notifType, title, body, data)
}

func floatPtr(f float64) *float64 { return &f }

func activeNeed() *models.Need {
	return &models.Need{
		ID:         10,
		Title:      "Kitchen repair",
		UserID:     1,
		CategoryID: 3,
		Currency:   "TRY",
		MinBudget:  floatPtr(20000),
		MaxBudget:  floatPtr(25000),
		Status:     models.NeedStatusActive,
	}
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		providerID uint
		input      *validation.OfferInput
		setup      func(*MockOfferRepo, *MockNeedRepo, *MockNotifier)
		wantErr    error
	}{
		{
			name:       "price within budget window",
			providerID: 2,
			input:      &validation.OfferInput{NeedID: 10, Price: 22000, Currency: "TRY", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				needs.On("GetByID", mock.Anything, uint(10)).Return(activeNeed(), nil)
				offers.On("HasPendingForProvider", mock.Anything, uint(10), uint(2)).Return(false, nil)
				offers.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Offer) bool {
					return o.Status == models.OfferStatusPending && o.Price == 22000
				})).Return(nil)
				notifier.On("Notify", uint(1), models.NotificationOfferReceived, mock.Anything, mock.Anything, mock.Anything).Return()
			},
		},
		{
			name:       "price above max budget is rejected",
			providerID: 2,
			input:      &validation.OfferInput{NeedID: 10, Price: 30000, Currency: "TRY", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				needs.On("GetByID", mock.Anything, uint(10)).Return(activeNeed(), nil)
			},
			wantErr: apperrors.NewValidation("price", "price is above the need's maximum budget of 25000.00"),
		},
		{
			name:       "own need",
			providerID: 1,
			input:      &validation.OfferInput{NeedID: 10, Price: 22000, Currency: "TRY", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				needs.On("GetByID", mock.Anything, uint(10)).Return(activeNeed(), nil)
			},
			wantErr: ErrOwnNeed,
		},
		{
			name:       "need not active",
			providerID: 2,
			input:      &validation.OfferInput{NeedID: 10, Price: 22000, Currency: "TRY", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				n := activeNeed()
				n.Status = models.NeedStatusInProgress
				needs.On("GetByID", mock.Anything, uint(10)).Return(n, nil)
			},
			wantErr: ErrNeedNotActive,
		},
		{
			name:       "expired need",
			providerID: 2,
			input:      &validation.OfferInput{NeedID: 10, Price: 22000, Currency: "TRY", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				n := activeNeed()
				past := time.Now().Add(-time.Hour)
				n.ExpiresAt = &past
				needs.On("GetByID", mock.Anything, uint(10)).Return(n, nil)
			},
			wantErr: ErrNeedNotActive,
		},
		{
			name:       "currency mismatch",
			providerID: 2,
			input:      &validation.OfferInput{NeedID: 10, Price: 22000, Currency: "USD", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				needs.On("GetByID", mock.Anything, uint(10)).Return(activeNeed(), nil)
			},
			wantErr: ErrCurrencyMismatch,
		},
		{
			name:       "second pending offer from same provider",
			providerID: 2,
			input:      &validation.OfferInput{NeedID: 10, Price: 22000, Currency: "TRY", DeliveryDays: 5},
			setup: func(offers *MockOfferRepo, needs *MockNeedRepo, notifier *MockNotifier) {
				needs.On("GetByID", mock.Anything, uint(10)).Return(activeNeed(), nil)
				offers.On("HasPendingForProvider", mock.Anything, uint(10), uint(2)).Return(true, nil)
			},
			wantErr: ErrDuplicatePending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offers := new(MockOfferRepo)
			needs := new(MockNeedRepo)
			notifier := new(MockNotifier)
			tt.setup(offers, needs, notifier)

			svc := NewService(offers, needs, notifier)
			created, err := svc.Create(context.Background(), tt.providerID, tt.input)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Nil(t, created)
			} else {
				require.NoError(t, err)
				assert.Equal(t, models.OfferStatusPending, created.Status)
			}
			offers.AssertExpectations(t)
			needs.AssertExpectations(t)
			notifier.AssertExpectations(t)
		})
	}

	t.Run("payload validation rejects bad offers before any lookup", func(t *testing.T) {
		cases := []struct {
			name  string
			input *validation.OfferInput
			field string
		}{
			{"non-positive price", &validation.OfferInput{NeedID: 10, Price: -5, DeliveryDays: 5}, "price"},
			{"zero delivery days", &validation.OfferInput{NeedID: 10, Price: 22000, DeliveryDays: 0}, "delivery_days"},
			{"missing need id", &validation.OfferInput{Price: 22000, DeliveryDays: 5}, "need_id"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				offers := new(MockOfferRepo)
				needs := new(MockNeedRepo)

				svc := NewService(offers, needs, nil)
				created, err := svc.Create(context.Background(), 2, tc.input)

				assert.Nil(t, created)
				var validationErr *apperrors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Fields, tc.field)
				needs.AssertNotCalled(t, "GetByID")
			})
		}
	})
}

func TestAccept(t *testing.T) {
	t.Run("accept notifies winner and losers", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)
		notifier := new(MockNotifier)

		need := activeNeed()
		pending := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusPending, Need: need}
		offers.On("GetByID", mock.Anything, uint(100)).Return(pending, nil)

		accepted := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusAccepted, Need: need}
		rejected := []models.Offer{
			{ID: 101, NeedID: 10, ProviderID: 3, Status: models.OfferStatusRejected},
			{ID: 102, NeedID: 10, ProviderID: 4, Status: models.OfferStatusRejected},
		}
		offers.On("Accept", mock.Anything, uint(100)).Return(&repositories.AcceptResult{Offer: accepted, Rejected: rejected}, nil)

		notifier.On("Notify", uint(2), models.NotificationOfferAccepted, mock.Anything, mock.Anything, mock.Anything).Return().Once()
		notifier.On("Notify", uint(3), models.NotificationOfferRejected, mock.Anything, mock.Anything, mock.Anything).Return().Once()
		notifier.On("Notify", uint(4), models.NotificationOfferRejected, mock.Anything, mock.Anything, mock.Anything).Return().Once()

		svc := NewService(offers, needs, notifier)
		result, err := svc.Accept(context.Background(), 1, 100)

		require.NoError(t, err)
		assert.Equal(t, models.OfferStatusAccepted, result.Status)
		offers.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("only the need owner may accept", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		pending := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusPending, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(pending, nil)

		svc := NewService(offers, needs, nil)
		_, err := svc.Accept(context.Background(), 99, 100)

		assert.ErrorIs(t, err, ErrNotNeedOwner)
	})

	t.Run("terminal offer cannot be accepted", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		withdrawn := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusWithdrawn, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(withdrawn, nil)

		svc := NewService(offers, needs, nil)
		_, err := svc.Accept(context.Background(), 1, 100)

		assert.ErrorIs(t, err, ErrNotPending)
	})

	t.Run("concurrent accept surfaces the repository conflict", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		pending := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusPending, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(pending, nil)
		offers.On("Accept", mock.Anything, uint(100)).Return(nil, apperrors.NewConflict("offer is no longer pending"))

		svc := NewService(offers, needs, nil)
		_, err := svc.Accept(context.Background(), 1, 100)

		var conflict *apperrors.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("provider withdraws a pending offer", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)
		notifier := new(MockNotifier)

		pending := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusPending, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(pending, nil)
		offers.On("Transition", mock.Anything, uint(100), models.OfferStatusPending, models.OfferStatusWithdrawn, "").Return(nil)
		notifier.On("Notify", uint(1), models.NotificationOfferWithdrawn, mock.Anything, mock.Anything, mock.Anything).Return()

		svc := NewService(offers, needs, notifier)
		err := svc.Withdraw(context.Background(), 2, 100)

		require.NoError(t, err)
		offers.AssertExpectations(t)
	})

	t.Run("only the provider may withdraw", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		pending := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusPending, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(pending, nil)

		svc := NewService(offers, needs, nil)
		err := svc.Withdraw(context.Background(), 1, 100)

		assert.ErrorIs(t, err, ErrNotProvider)
	})

	t.Run("accepted offer cannot be withdrawn", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		accepted := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusAccepted, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(accepted, nil)

		svc := NewService(offers, needs, nil)
		err := svc.Withdraw(context.Background(), 2, 100)

		assert.ErrorIs(t, err, ErrNotPending)
	})
}

func TestDelete(t *testing.T) {
	t.Run("accepted offers cannot be deleted", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		accepted := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusAccepted, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(accepted, nil)

		svc := NewService(offers, needs, nil)
		err := svc.Delete(context.Background(), 2, 100)

		assert.ErrorIs(t, err, ErrAcceptedDelete)
	})

	t.Run("provider deletes a withdrawn offer", func(t *testing.T) {
		offers := new(MockOfferRepo)
		needs := new(MockNeedRepo)

		withdrawn := &models.Offer{ID: 100, NeedID: 10, ProviderID: 2, Status: models.OfferStatusWithdrawn, Need: activeNeed()}
		offers.On("GetByID", mock.Anything, uint(100)).Return(withdrawn, nil)
		offers.On("Delete", mock.Anything, uint(100)).Return(nil)

		svc := NewService(offers, needs, nil)
		err := svc.Delete(context.Background(), 2, 100)

		require.NoError(t, err)
		offers.AssertExpectations(t)
	})
}
