package user

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

// ProfileUpdate carries the user-editable profile fields.
type ProfileUpdate struct {
	Name                string `json:"name"`
	About               string `json:"about"`
	Location            string `json:"location"`
	AvatarURL           string `json:"avatar_url"`
	AllowsNotifications *bool  `json:"allows_notifications"`
}

type Service interface {
	GetByID(id uint) (*models.User, error)
	Register(input *models.CreateUserInput) (*models.User, error)
	UpdateProfile(userID uint, update *ProfileUpdate) (*models.User, error)
	RegisterPushToken(userID uint, token string) error
	List(offset, limit int) ([]*models.User, int64, error)
	UpdateStatus(userID uint, status string) error
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFound("user", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *service) Register(input *models.CreateUserInput) (*models.User, error) {
	v := validation.New()
	v.UserRegistration(input)
	if !v.Valid() {
		return nil, apperrors.NewValidationFields(v.Errors)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     "user",
		Status:   "active",
	}

	if err := s.repo.Create(user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.NewValidation("email", "email already registered")
		case errors.Is(err, repositories.ErrPhoneTaken):
			return nil, apperrors.NewValidation("phone", "phone number already registered")
		}
		return nil, err
	}

	return user, nil
}

func (s *service) UpdateProfile(userID uint, update *ProfileUpdate) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if update.Name != "" {
		user.Name = update.Name
	}
	user.About = update.About
	user.Location = update.Location
	if update.AvatarURL != "" {
		user.AvatarURL = update.AvatarURL
	}
	if update.AllowsNotifications != nil {
		user.AllowsNotifications = *update.AllowsNotifications
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) RegisterPushToken(userID uint, token string) error {
	if token == "" {
		return apperrors.NewValidation("token", "must not be empty")
	}
	return s.repo.AddPushToken(userID, token)
}

func (s *service) List(offset, limit int) ([]*models.User, int64, error) {
	return s.repo.List(offset, limit)
}

func (s *service) UpdateStatus(userID uint, status string) error {
	if status != "active" && status != "suspended" {
		return apperrors.NewValidation("status", "must be active or suspended")
	}
	return s.repo.UpdateStatus(userID, status)
}
