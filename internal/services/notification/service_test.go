package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

type MockNotificationRepo struct {
	mock.Mock
	mu      sync.Mutex
	created []models.Notification
}

func (m *MockNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.created = append(m.created, *notification)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockNotificationRepo) ListForUser(ctx context.Context, userID uint, offset, limit int) ([]models.Notification, int64, error) {
	args := m.Called(ctx, userID, offset, limit)
	return args.Get(0).([]models.Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepo) MarkRead(ctx context.Context, notificationID, userID uint, at time.Time) error {
	args := m.Called(ctx, notificationID, userID, at)
	return args.Error(0)
}

func (m *MockNotificationRepo) MarkAllRead(ctx context.Context, userID uint, at time.Time) error {
	args := m.Called(ctx, userID, at)
	return args.Error(0)
}

func (m *MockNotificationRepo) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepo) createdForUser(userID uint) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *models.User) error { return m.Called(user).Error(0) }

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

func (m *MockUserRepo) Update(user *models.User) error { return m.Called(user).Error(0) }

func (m *MockUserRepo) IncrementTokenVersion(userID uint) error {
	return m.Called(userID).Error(0)
}

func (m *MockUserRepo) List(offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	return m.Called(userID, hashedPassword).Error(0)
}

func (m *MockUserRepo) UpdateStatus(userID uint, status string) error {
	return m.Called(userID, status).Error(0)
}

func (m *MockUserRepo) UpdateRating(userID uint, average float64, count int) error {
	return m.Called(userID, average, count).Error(0)
}

func (m *MockUserRepo) AddPushToken(userID uint, token string) error {
	return m.Called(userID, token).Error(0)
}

type recordingPushSender struct {
	mu     sync.Mutex
	tokens []string
	err    error
}

func (r *recordingPushSender) Send(ctx context.Context, token, title, body string, data models.JSON) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *recordingPushSender) sentTo() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.tokens...)
}

func TestNotifyDeliversInBackground(t *testing.T) {
	repo := new(MockNotificationRepo)
	users := new(MockUserRepo)
	push := &recordingPushSender{}

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("GetByID", uint(1)).Return(&models.User{
		Model: gorm.Model{ID: 1}, AllowsNotifications: true,
		PushTokens: models.StringSlice{"ExponentPushToken[abc]", "ExponentPushToken[def]"},
	}, nil)

	svc := NewService(repo, users, push)
	svc.Notify(1, models.NotificationNewMessage, "New message", "You have a new message", models.JSON{"conversation_id": 7})
	svc.Close()

	require.Len(t, repo.createdForUser(1), 1)
	assert.Equal(t, models.NotificationNewMessage, repo.createdForUser(1)[0].Type)
	assert.ElementsMatch(t, []string{"ExponentPushToken[abc]", "ExponentPushToken[def]"}, push.sentTo())

	sent, failed := svc.Stats()
	assert.Equal(t, int64(1), sent)
	assert.Equal(t, int64(0), failed)
}

func TestNotifySkipsPushWhenDisabled(t *testing.T) {
	repo := new(MockNotificationRepo)
	users := new(MockUserRepo)
	push := &recordingPushSender{}

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("GetByID", uint(1)).Return(&models.User{
		Model: gorm.Model{ID: 1}, AllowsNotifications: false,
		PushTokens: models.StringSlice{"ExponentPushToken[abc]"},
	}, nil)

	svc := NewService(repo, users, push)
	svc.Notify(1, models.NotificationNewReview, "New review", "", nil)
	svc.Close()

	// Persisted for the in-app list, but never pushed.
	require.Len(t, repo.createdForUser(1), 1)
	assert.Empty(t, push.sentTo())
}

func TestNotifyCountsPersistFailures(t *testing.T) {
	repo := new(MockNotificationRepo)
	users := new(MockUserRepo)

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	svc := NewService(repo, users, nil)
	svc.Notify(1, models.NotificationNewMessage, "New message", "", nil)
	svc.Close()

	sent, failed := svc.Stats()
	assert.Equal(t, int64(0), sent)
	assert.Equal(t, int64(1), failed)
}

func TestCloseDrainsQueue(t *testing.T) {
	repo := new(MockNotificationRepo)
	users := new(MockUserRepo)

	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewService(repo, users, nil)
	for i := 0; i < 50; i++ {
		svc.Notify(1, models.NotificationNewMessage, "New message", "", nil)
	}
	svc.Close()

	assert.Len(t, repo.createdForUser(1), 50)
	sent, failed := svc.Stats()
	assert.Equal(t, int64(50), sent)
	assert.Equal(t, int64(0), failed)
}

func TestCloseIsIdempotent(t *testing.T) {
	repo := new(MockNotificationRepo)
	users := new(MockUserRepo)

	svc := NewService(repo, users, nil)
	svc.Close()
	svc.Close()
}
