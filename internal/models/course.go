package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID            string      `gorm:"type:uuid;primaryKey" json:"id"`
	Code          string      `gorm:"not null;index" json:"code"`
	Name          string      `gorm:"not null" json:"name"`
	Description   string      `json:"description"`
	InstitutionID string      `gorm:"type:uuid;not null;index" json:"institution_id"`
	Institution   Institution `gorm:"foreignKey:InstitutionID" json:"institution"`
	CreatedAt     time.Time   `json:"created_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Enrollment struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment" json:"user_id"`
	CourseID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment" json:"course_id"`
	Course     Course    `gorm:"foreignKey:CourseID" json:"course"`
	EnrolledAt time.Time `gorm:"autoCreateTime" json:"enrolled_at"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type CreateCourseRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	InstitutionID string `json:"institution_id"`
}
