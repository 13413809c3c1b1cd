package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

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

func fixedService(needs *MockNeedRepo, at time.Time) *service {
	return &service{needs: needs, now: func() time.Time { return at }}
}

func TestSearch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -45)

	candidates := []models.Need{
		{ID: 1, UserID: 1, Title: "Bathroom tile repair", Urgency: models.UrgencyNormal, CreatedAt: old},
		{ID: 2, UserID: 2, Title: "Piano moving", Urgency: models.UrgencyNormal, CreatedAt: old},
		{ID: 3, UserID: 3, Title: "Roof repair after storm", Urgency: models.UrgencyUrgent, CreatedAt: old},
	}

	t.Run("non-matching needs are excluded regardless of boosts", func(t *testing.T) {
		needs := new(MockNeedRepo)
		needs.On("ListActive", mock.Anything, uint(0)).Return(candidates, nil)

		results, total, err := fixedService(needs, now).Search(context.Background(), "repair", Options{})

		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, results, 2)
		// Same match weight; the urgent need wins on boost.
		assert.Equal(t, uint(3), results[0].Need.ID)
		assert.Equal(t, uint(1), results[1].Need.ID)
		assert.Greater(t, results[0].Score, results[1].Score)
	})

	t.Run("empty query returns everything, boosts only", func(t *testing.T) {
		needs := new(MockNeedRepo)
		needs.On("ListActive", mock.Anything, uint(0)).Return(candidates, nil)

		results, total, err := fixedService(needs, now).Search(context.Background(), "  ", Options{})

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Equal(t, uint(3), results[0].Need.ID)
	})

	t.Run("pagination preserves the total", func(t *testing.T) {
		needs := new(MockNeedRepo)
		needs.On("ListActive", mock.Anything, uint(0)).Return(candidates, nil)

		results, total, err := fixedService(needs, now).Search(context.Background(), "", Options{Offset: 2, Limit: 2})

		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, results, 1)
	})

	t.Run("category filter is pushed to the repository", func(t *testing.T) {
		needs := new(MockNeedRepo)
		needs.On("ListActive", mock.Anything, uint(7)).Return([]models.Need{}, nil)

		results, total, err := fixedService(needs, now).Search(context.Background(), "repair", Options{CategoryID: 7})

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, results)
		needs.AssertExpectations(t)
	})
}

func TestRecommend(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -45)

	candidates := []models.Need{
		{ID: 1, UserID: 5, Title: "My own need", ViewCount: 900, CreatedAt: old},
		{ID: 2, UserID: 2, Title: "Busy need", ViewCount: 10, Offers: make([]models.Offer, 6), CreatedAt: old},
		{ID: 3, UserID: 3, Title: "Quiet need", ViewCount: 30, CreatedAt: old},
	}

	t.Run("own needs are excluded and offers dominate views", func(t *testing.T) {
		needs := new(MockNeedRepo)
		needs.On("ListActive", mock.Anything, uint(0)).Return(candidates, nil)

		out, err := fixedService(needs, now).Recommend(context.Background(), 5, 10)

		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, uint(2), out[0].ID)
		assert.Equal(t, uint(3), out[1].ID)
	})

	t.Run("limit defaults and truncates", func(t *testing.T) {
		needs := new(MockNeedRepo)
		needs.On("ListActive", mock.Anything, uint(0)).Return(candidates, nil)

		out, err := fixedService(needs, now).Recommend(context.Background(), 5, 1)

		require.NoError(t, err)
		assert.Len(t, out, 1)
	})
}
