package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) GetByPhone(phone string) (*models.User, error) {
	args := m.Called(phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepo) List(offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateStatus(userID uint, status string) error {
	args := m.Called(userID, status)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateRating(userID uint, average float64, count int) error {
	args := m.Called(userID, average, count)
	return args.Error(0)
}

func (m *MockUserRepo) AddPushToken(userID uint, token string) error {
	args := m.Called(userID, token)
	return args.Error(0)
}

func hashedPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func fixedService(repo *MockUserRepo, at time.Time) *service {
	return &service{userRepo: repo, now: func() time.Time { return at }}
}

func TestLogin(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid credentials issue a token pair and reset failure counters", func(t *testing.T) {
		repo := new(MockUserRepo)
		user := &models.User{
			Model: gorm.Model{ID: 1}, Email: "jane@example.com", Role: "user", Status: "active",
			Password:            hashedPassword(t, "Sup3r$ecret"),
			FailedLoginAttempts: 3,
		}
		repo.On("GetByEmail", "jane@example.com").Return(user, nil)
		repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.FailedLoginAttempts == 0 && u.AccountLockoutUntil == nil &&
				!u.LastLoginAt.IsZero() && u.LastLoginIP == "203.0.113.7"
		})).Return(nil)

		got, access, refresh, err := fixedService(repo, now).Login("jane@example.com", "", "Sup3r$ecret", "203.0.113.7")

		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password increments the failure counter", func(t *testing.T) {
		repo := new(MockUserRepo)
		user := &models.User{
			Model: gorm.Model{ID: 1}, Email: "jane@example.com",
			Password: hashedPassword(t, "Sup3r$ecret"),
		}
		repo.On("GetByEmail", "jane@example.com").Return(user, nil)
		repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.FailedLoginAttempts == 1 && u.AccountLockoutUntil == nil
		})).Return(nil)

		_, _, _, err := fixedService(repo, now).Login("jane@example.com", "", "wrong", "203.0.113.7")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})

	t.Run("fifth consecutive failure locks the account", func(t *testing.T) {
		repo := new(MockUserRepo)
		user := &models.User{
			Model: gorm.Model{ID: 1}, Email: "jane@example.com",
			Password:            hashedPassword(t, "Sup3r$ecret"),
			FailedLoginAttempts: 4,
		}
		repo.On("GetByEmail", "jane@example.com").Return(user, nil)
		repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.AccountLockoutUntil != nil &&
				u.AccountLockoutUntil.Equal(now.Add(15*time.Minute)) &&
				u.FailedLoginAttempts == 0
		})).Return(nil)

		_, _, _, err := fixedService(repo, now).Login("jane@example.com", "", "wrong", "203.0.113.7")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		repo.AssertExpectations(t)
	})

	t.Run("locked account rejects even a correct password", func(t *testing.T) {
		repo := new(MockUserRepo)
		until := now.Add(10 * time.Minute)
		user := &models.User{
			Model: gorm.Model{ID: 1}, Email: "jane@example.com",
			Password:            hashedPassword(t, "Sup3r$ecret"),
			AccountLockoutUntil: &until,
		}
		repo.On("GetByEmail", "jane@example.com").Return(user, nil)

		_, _, _, err := fixedService(repo, now).Login("jane@example.com", "", "Sup3r$ecret", "203.0.113.7")

		assert.ErrorIs(t, err, ErrAccountLocked)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("expired lockout admits a correct password", func(t *testing.T) {
		repo := new(MockUserRepo)
		until := now.Add(-time.Minute)
		user := &models.User{
			Model: gorm.Model{ID: 1}, Email: "jane@example.com", Role: "user",
			Password:            hashedPassword(t, "Sup3r$ecret"),
			AccountLockoutUntil: &until,
		}
		repo.On("GetByEmail", "jane@example.com").Return(user, nil)
		repo.On("Update", mock.Anything).Return(nil)

		_, _, _, err := fixedService(repo, now).Login("jane@example.com", "", "Sup3r$ecret", "203.0.113.7")

		require.NoError(t, err)
	})

	t.Run("unknown user maps to invalid credentials", func(t *testing.T) {
		repo := new(MockUserRepo)
		repo.On("GetByEmail", "nobody@example.com").Return(nil, assert.AnError)

		_, _, _, err := fixedService(repo, now).Login("nobody@example.com", "", "whatever", "203.0.113.7")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestChangePassword(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid change bumps the token version", func(t *testing.T) {
		repo := new(MockUserRepo)
		user := &models.User{Model: gorm.Model{ID: 1}, Password: hashedPassword(t, "Old$ecret1"), TokenVersion: 2}
		repo.On("GetByID", uint(1)).Return(user, nil)
		repo.On("Update", mock.MatchedBy(func(u *models.User) bool {
			return u.TokenVersion == 3 &&
				bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("New$ecret2")) == nil
		})).Return(nil)

		err := fixedService(repo, now).ChangePassword(1, "Old$ecret1", "New$ecret2")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("wrong old password is rejected", func(t *testing.T) {
		repo := new(MockUserRepo)
		user := &models.User{Model: gorm.Model{ID: 1}, Password: hashedPassword(t, "Old$ecret1")}
		repo.On("GetByID", uint(1)).Return(user, nil)

		err := fixedService(repo, now).ChangePassword(1, "nope", "New$ecret2")

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("weak new password is rejected", func(t *testing.T) {
		repo := new(MockUserRepo)
		user := &models.User{Model: gorm.Model{ID: 1}, Password: hashedPassword(t, "Old$ecret1")}
		repo.On("GetByID", uint(1)).Return(user, nil)

		err := fixedService(repo, now).ChangePassword(1, "Old$ecret1", "short")

		assert.Error(t, err)
		repo.AssertNotCalled(t, "Update")
	})
}
