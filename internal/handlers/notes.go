package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varsityhub/backend/internal/models"
	"github.com/varsityhub/backend/internal/services"
)

type NoteHandler struct {
	notes *services.NotesService
}

func NewNoteHandler(notes *services.NotesService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// GetNotes lists public notes plus the caller's own
func (h *NoteHandler) GetNotes(c *gin.Context) {
	viewerID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	filter := services.NoteFilter{
		CourseID: c.Query("course_id"),
		Search:   c.Query("search"),
	}

	notes, err := h.notes.ListNotes(c.Request.Context(), viewerID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	c.JSON(http.StatusOK, notes)
}

// CreateNote shares a new note
func (h *NoteHandler) CreateNote(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateNoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.notes.CreateNote(c.Request.Context(), authorID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// LikeNote toggles the caller's like on a note
func (h *NoteHandler) LikeNote(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	liked, total, err := h.notes.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": total})
}

// DownloadNote bumps the download counter and redirects to the file
func (h *NoteHandler) DownloadNote(c *gin.Context) {
	fileURL, err := h.notes.RegisterDownload(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, fileURL)
}

// DeleteNote deletes a note (author or moderator only)
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.notes.DeleteNote(c.Request.Context(), requesterID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted successfully"})
}
