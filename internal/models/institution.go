package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Institution struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	ShortName string    `json:"short_name"`
	LogoURL   string    `json:"logo_url"`
	Province  string    `json:"province"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *Institution) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
