package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetUserProfile returns a user's public profile with activity counts
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	userID := c.Param("id")
	var user models.User

	if err := h.db.Preload("Institution").First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var questionCount, answerCount, noteCount int64
	h.db.Model(&models.Question{}).Where("user_id = ?", userID).Count(&questionCount)
	h.db.Model(&models.Answer{}).Where("user_id = ?", userID).Count(&answerCount)
	h.db.Model(&models.Note{}).Where("user_id = ? AND is_public = ?", userID, true).Count(&noteCount)

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":          user.ID,
			"full_name":   user.FullName,
			"bio":         user.Bio,
			"avatar_url":  user.AvatarURL,
			"institution": user.Institution,
		},
		"question_count": questionCount,
		"answer_count":   answerCount,
		"note_count":     noteCount,
	})
}

// UpdateUserProfile updates the caller's own profile
func (h *UserHandler) UpdateUserProfile(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if c.Param("id") != requesterID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own profile"})
		return
	}

	var input struct {
		FullName      string `json:"full_name"`
		Bio           string `json:"bio"`
		AvatarURL     string `json:"avatar_url"`
		InstitutionID string `json:"institution_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", requesterID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.InstitutionID != "" {
		var institution models.Institution
		if err := h.db.First(&institution, "id = ?", input.InstitutionID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown institution"})
			return
		}
		user.InstitutionID = &institution.ID
	}

	if err := h.db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	h.db.Preload("Institution").First(&user, "id = ?", user.ID)
	c.JSON(http.StatusOK, user)
}
