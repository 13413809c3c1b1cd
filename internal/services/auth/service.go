// Package auth implements credential checks, token issuance and the
// failed-login lockout policy.
package auth

import (
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/sabridemirel/arayanibul-sub001/internal/errors"
	"github.com/sabridemirel/arayanibul-sub001/internal/models"
	"github.com/sabridemirel/arayanibul-sub001/internal/repositories"
	"github.com/sabridemirel/arayanibul-sub001/internal/utils"
	"github.com/sabridemirel/arayanibul-sub001/internal/validation"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
)

var (
	ErrInvalidCredentials = apperrors.NewValidation("credentials", "invalid credentials")
	ErrAccountLocked      = apperrors.NewValidation("credentials", "account is temporarily locked, try again later")
)

type Service interface {
	Login(email, phone, password, ip string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
}

type service struct {
	userRepo repositories.UserRepository
	now      func() time.Time
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *service) Login(email, phone, password, ip string) (*models.User, string, string, error) {
	user, err := s.getUserByIdentifier(email, phone)
	if err != nil {
		log.Printf("login failed for %s: user not found", email+phone)
		return nil, "", "", ErrInvalidCredentials
	}

	if user.AccountLockoutUntil != nil && s.now().Before(*user.AccountLockoutUntil) {
		return nil, "", "", ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.recordFailedAttempt(user)
		return nil, "", "", ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.AccountLockoutUntil != nil {
		user.FailedLoginAttempts = 0
		user.AccountLockoutUntil = nil
	}
	user.LastLoginAt = s.now()
	user.LastLoginIP = ip
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("failed to record login for user %d: %v", user.ID, err)
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
	if err != nil {
		log.Println("error generating tokens:", err)
		return nil, "", "", errors.New("error generating tokens")
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	// A bumped token version retires every previously issued refresh token.
	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	})
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperrors.NewValidation("old_password", "invalid old password")
	}

	if len(newPassword) < validation.MinPasswordLength || !validation.HasSpecialChar(newPassword) {
		return apperrors.NewValidation("new_password", "password must be at least 8 characters and contain special characters")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	user.Password = string(hashedPassword)
	user.TokenVersion++ // Invalidate existing tokens

	if err := s.userRepo.Update(user); err != nil {
		return errors.New("failed to update password")
	}

	return nil
}

func (s *service) recordFailedAttempt(user *models.User) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= maxFailedAttempts {
		until := s.now().Add(lockoutDuration)
		user.AccountLockoutUntil = &until
		user.FailedLoginAttempts = 0
		log.Printf("account %d locked until %s after repeated failed logins", user.ID, until.Format(time.RFC3339))
	}
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("failed to record failed login for user %d: %v", user.ID, err)
	}
}

func (s *service) getUserByIdentifier(email, phone string) (*models.User, error) {
	if email != "" {
		return s.userRepo.GetByEmail(email)
	}
	return s.userRepo.GetByPhone(phone)
}
