package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	UserID        string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User          User      `gorm:"foreignKey:UserID" json:"user"`
	CourseID      string    `gorm:"type:uuid;not null;index" json:"course_id"`
	Course        Course    `gorm:"foreignKey:CourseID" json:"course"`
	FileURL       string    `gorm:"not null" json:"file_url"`
	FileType      string    `gorm:"not null" json:"file_type"`
	FileSize      int64     `json:"file_size"`
	IsPublic      bool      `gorm:"default:true" json:"is_public"`
	DownloadCount int       `gorm:"default:0" json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Derived at read time, never stored.
	LikesCount int  `gorm:"-" json:"likes_count"`
	IsLiked    bool `gorm:"-" json:"is_liked"`
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// NoteLike is an existence-only join row, same shape as PostLike.
type NoteLike struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_note_like" json:"user_id"`
	NoteID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_note_like" json:"note_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *NoteLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type CreateNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CourseID    string `json:"course_id"`
	FileURL     string `json:"file_url"`
	FileType    string `json:"file_type"`
	FileSize    int64  `json:"file_size"`
	IsPublic    *bool  `json:"is_public"`
}
