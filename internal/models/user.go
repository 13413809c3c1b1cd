package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email               string `gorm:"uniqueIndex;not null"` // Unique index on Email
	Password            string `gorm:"not null" json:"-"`
	Name                string `gorm:"not null"`
	Phone               string `gorm:"uniqueIndex;not null"` // Unique index on Phone
	Role                string `gorm:"default:'user'"`
	Status              string `gorm:"default:'active'"`
	About               string
	Location            string
	AvatarURL           string
	LastLoginAt         time.Time
	LastLoginIP         string
	FailedLoginAttempts int `gorm:"default:0"`
	AccountLockoutUntil *time.Time
	TokenVersion        int         `gorm:"default:1"`
	AllowsNotifications bool        `gorm:"default:true"`
	PushTokens          StringSlice `gorm:"type:jsonb"`
	RatingAverage       float64     `gorm:"default:0"`
	RatingCount         int         `gorm:"default:0"`
}

// CreateUserInput is the registration payload.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// PublicUser is the safe projection returned to other users.
type PublicUser struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	About         string  `json:"about"`
	Location      string  `json:"location"`
	AvatarURL     string  `json:"avatar_url"`
	RatingAverage float64 `json:"rating_average"`
	RatingCount   int     `json:"rating_count"`
	MemberSince   string  `json:"member_since"`
}

// Public converts a User to its public projection.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		About:         u.About,
		Location:      u.Location,
		AvatarURL:     u.AvatarURL,
		RatingAverage: u.RatingAverage,
		RatingCount:   u.RatingCount,
		MemberSince:   u.CreatedAt.Format("2006-01-02"),
	}
}
