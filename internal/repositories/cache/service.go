package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

// CacheService wraps Redis with JSON marshalling and entity helpers.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}

	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	}
	if user.Phone != "" {
		keys = append(keys, s.GenerateKey("user", "phone", user.Phone))
	}

	for _, key := range keys {
		if err := s.Set(ctx, key, user); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, key, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("user not found in cache")
	}
	return &user, nil
}

// InvalidateUser drops every cached lookup key for the user.
func (s *CacheService) InvalidateUser(ctx context.Context, user *models.User) error {
	keys := []string{s.GenerateKey("user", "id", user.ID)}
	if user.Email != "" {
		keys = append(keys, s.GenerateKey("user", "email", user.Email))
	}
	if user.Phone != "" {
		keys = append(keys, s.GenerateKey("user", "phone", user.Phone))
	}
	return s.Delete(ctx, keys...)
}

// Need caching
func (s *CacheService) CacheNeed(ctx context.Context, need *models.Need) error {
	if need == nil {
		return errors.New("cannot cache nil need")
	}
	return s.SetWithTTL(ctx, s.GenerateKey("need", "id", need.ID), need, 5*time.Minute)
}

func (s *CacheService) GetNeed(ctx context.Context, needID uint) (*models.Need, bool) {
	var need models.Need
	found, err := s.Get(ctx, s.GenerateKey("need", "id", needID), &need)
	if err != nil || !found {
		return nil, false
	}
	return &need, true
}

func (s *CacheService) InvalidateNeed(ctx context.Context, needID uint) error {
	return s.Delete(ctx, s.GenerateKey("need", "id", needID))
}

// Wallet caching
func (s *CacheService) CacheWallet(ctx context.Context, wallet *models.Wallet) error {
	return s.Set(ctx, s.GenerateKey("wallet", "user", wallet.UserID), wallet)
}

func (s *CacheService) GetWallet(ctx context.Context, userID uint) (*models.Wallet, bool) {
	var wallet models.Wallet
	found, err := s.Get(ctx, s.GenerateKey("wallet", "user", userID), &wallet)
	if err != nil || !found {
		return nil, false
	}
	return &wallet, true
}

func (s *CacheService) InvalidateWallet(ctx context.Context, userID uint) error {
	return s.Delete(ctx, s.GenerateKey("wallet", "user", userID))
}

// FlushAll clears the whole cache. Called once at startup.
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the underlying Redis connection.
func (s *CacheService) Close() error {
	return s.client.Close()
}
