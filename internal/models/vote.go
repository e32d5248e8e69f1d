package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote is one signed vote by a user on exactly one question or one answer.
// Switching a vote is modeled as delete-then-insert, so at most one row
// exists per (user, target) at any time.
type Vote struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	QuestionID *string   `gorm:"type:uuid;index" json:"question_id,omitempty"`
	AnswerID   *string   `gorm:"type:uuid;index" json:"answer_id,omitempty"`
	VoteType   int       `gorm:"not null" json:"vote_type"` // +1 or -1
	CreatedAt  time.Time `json:"created_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
