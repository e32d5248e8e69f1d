package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/services"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Post     *PostHandler
	Note     *NoteHandler
	Course   *CourseHandler
	User     *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	verifier := services.NewVerificationService()

	return &Handler{
		Auth:     NewAuthHandler(db, verifier),
		Question: NewQuestionHandler(services.NewQAService(db)),
		Post:     NewPostHandler(services.NewFeedService(db)),
		Note:     NewNoteHandler(services.NewNotesService(db)),
		Course:   NewCourseHandler(services.NewCourseService(db)),
		User:     NewUserHandler(db),
	}
}

func extractUserID(c *gin.Context) (string, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	id, ok := raw.(string)
	return id, ok && id != ""
}

// respondError maps service error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrAuthorization):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only modify your own content"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
