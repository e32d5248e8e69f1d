package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"not null" json:"title"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	CourseID   string    `gorm:"type:uuid;not null;index" json:"course_id"`
	Course     Course    `gorm:"foreignKey:CourseID" json:"course"`
	IsResolved bool      `gorm:"default:false" json:"is_resolved"`
	ViewCount  int       `gorm:"default:0" json:"view_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Derived at read time, never stored.
	VotesCount   int `gorm:"-" json:"votes_count"`
	AnswersCount int `gorm:"-" json:"answers_count"`
	UserVote     int `gorm:"-" json:"user_vote"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

type Answer struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID" json:"user"`
	QuestionID string    `gorm:"type:uuid;not null;index" json:"question_id"`
	IsAccepted bool      `gorm:"default:false" json:"is_accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Derived at read time, never stored.
	VotesCount int `gorm:"-" json:"votes_count"`
	UserVote   int `gorm:"-" json:"user_vote"`
}

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type CreateQuestionRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	CourseID string `json:"course_id"`
}

type CreateAnswerRequest struct {
	Body string `json:"body"`
}
