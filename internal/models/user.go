package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID            string       `gorm:"type:uuid;primaryKey" json:"id"`
	Email         string       `gorm:"unique;not null" json:"email"`
	Password      string       `gorm:"not null" json:"-"`
	FullName      string       `json:"full_name"`
	Bio           string       `json:"bio"`
	AvatarURL     string       `json:"avatar_url"`
	InstitutionID *string      `gorm:"type:uuid;index" json:"institution_id,omitempty"`
	Institution   *Institution `gorm:"foreignKey:InstitutionID" json:"institution,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Role values for user_roles rows.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

type UserRole struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Role      string    `gorm:"not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type RegisterRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"full_name"`
	InstitutionID string `json:"institution_id"`
	Phone         string `json:"phone"` // optional, enables SMS verification
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
