package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories/cache"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmailTaken        = errors.New("email already taken")
	ErrPhoneTaken        = errors.New("phone number already taken")
	ErrDatabaseOperation = errors.New("database operation failed")
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(userID uint) error
	List(offset, limit int) ([]*models.User, int64, error)
	UpdatePassword(userID uint, hashedPassword string) error
	UpdateStatus(userID uint, status string) error
	UpdateRating(userID uint, average float64, count int) error
	AddPushToken(userID uint, token string) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a user repository backed by GORM with a
// Redis read-through cache for point lookups.
func NewUserRepository(db *gorm.DB, cacheSvc *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheSvc}
}

func (r *userRepository) Create(user *models.User) error {
	var count int64
	r.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count)
	if count > 0 {
		return ErrEmailTaken
	}
	r.db.Model(&models.User{}).Where("phone = ?", user.Phone).Count(&count)
	if count > 0 {
		return ErrPhoneTaken
	}
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUser(context.Background(), r.cache.GenerateKey("user", "id", id)); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(context.Background(), &user); err != nil {
			// Cache failures never block reads
			_ = err
		}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return err
	}
	return r.invalidate(user)
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
	if err != nil {
		return err
	}
	return r.invalidateByID(userID)
}

func (r *userRepository) List(offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.Order("id").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *userRepository) UpdatePassword(userID uint, hashedPassword string) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
	if err != nil {
		return err
	}
	return r.invalidateByID(userID)
}

func (r *userRepository) UpdateStatus(userID uint, status string) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("status", status).Error
	if err != nil {
		return err
	}
	return r.invalidateByID(userID)
}

func (r *userRepository) UpdateRating(userID uint, average float64, count int) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"rating_average": average,
			"rating_count":   count,
		}).Error
	if err != nil {
		return err
	}
	return r.invalidateByID(userID)
}

func (r *userRepository) AddPushToken(userID uint, token string) error {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	for _, existing := range user.PushTokens {
		if existing == token {
			return nil
		}
	}
	user.PushTokens = append(user.PushTokens, token)
	return r.Update(&user)
}

func (r *userRepository) invalidateByID(userID uint) error {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return nil
	}
	return r.invalidate(&user)
}

func (r *userRepository) invalidate(user *models.User) error {
	if r.cache == nil {
		return nil
	}
	return r.cache.InvalidateUser(context.Background(), user)
}
