package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
)

// NoteFilter narrows ListNotes the same way QuestionFilter narrows
// ListQuestions: exact course match AND case-insensitive substring search.
type NoteFilter struct {
	CourseID string
	Search   string
}

// NotesService is the notes-sharing board: uploaded file metadata with
// likes and a monotonic download counter.
type NotesService struct {
	db *gorm.DB
}

func NewNotesService(db *gorm.DB) *NotesService {
	return &NotesService{db: db}
}

func (s *NotesService) CreateNote(ctx context.Context, authorID string, req models.CreateNoteRequest) (*models.Note, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.CourseID == "" || req.FileURL == "" || req.FileType == "" {
		return nil, validationf("title, course_id, file_url and file_type are required")
	}

	db := s.db.WithContext(ctx)

	if err := db.First(&models.Course{}, "id = ?", req.CourseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("course %s does not exist", req.CourseID)
		}
		return nil, storeErr("lookup course", err)
	}

	note := models.Note{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		UserID:      authorID,
		CourseID:    req.CourseID,
		FileURL:     req.FileURL,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		IsPublic:    true,
	}
	if req.IsPublic != nil {
		note.IsPublic = *req.IsPublic
	}

	if err := db.Create(&note).Error; err != nil {
		return nil, storeErr("create note", err)
	}
	if err := db.Preload("User").Preload("Course").First(&note, "id = ?", note.ID).Error; err != nil {
		return nil, storeErr("reload note", err)
	}
	return &note, nil
}

// ListNotes returns public notes plus the viewer's own, newest first,
// annotated with like count and the viewer's like state.
func (s *NotesService) ListNotes(ctx context.Context, viewerID string, filter NoteFilter) ([]models.Note, error) {
	db := s.db.WithContext(ctx)

	query := db.Preload("User").Preload("Course").
		Where("is_public = ? OR user_id = ?", true, viewerID).
		Order("created_at DESC")
	if filter.CourseID != "" {
		query = query.Where("course_id = ?", filter.CourseID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var notes []models.Note
	if err := query.Find(&notes).Error; err != nil {
		return nil, storeErr("list notes", err)
	}
	if len(notes) == 0 {
		return notes, nil
	}

	ids := make([]string, len(notes))
	for i := range notes {
		ids[i] = notes[i].ID
	}

	var likeRows []voteSum
	if err := db.Model(&models.NoteLike{}).
		Select("note_id AS target_id, COUNT(*) AS total").
		Where("note_id IN ?", ids).
		Group("note_id").
		Scan(&likeRows).Error; err != nil {
		return nil, storeErr("count note likes", err)
	}
	likes := make(map[string]int, len(likeRows))
	for _, row := range likeRows {
		likes[row.TargetID] = row.Total
	}

	var ownLikes []models.NoteLike
	if err := db.Where("user_id = ? AND note_id IN ?", viewerID, ids).
		Find(&ownLikes).Error; err != nil {
		return nil, storeErr("lookup viewer likes", err)
	}
	liked := make(map[string]bool, len(ownLikes))
	for _, l := range ownLikes {
		liked[l.NoteID] = true
	}

	for i := range notes {
		notes[i].LikesCount = likes[notes[i].ID]
		notes[i].IsLiked = liked[notes[i].ID]
	}
	return notes, nil
}

// ToggleLike flips the viewer's like on a note and returns the new state
// with the recounted total.
func (s *NotesService) ToggleLike(ctx context.Context, userID, noteID string) (liked bool, total int64, err error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Note{}, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrNotFound
		}
		return false, 0, storeErr("lookup note", err)
	}

	var existing models.NoteLike
	switch err := db.Where("user_id = ? AND note_id = ?", userID, noteID).First(&existing).Error; {
	case err == nil:
		if err := db.Delete(&existing).Error; err != nil {
			return false, 0, storeErr("remove like", err)
		}
		liked = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&models.NoteLike{UserID: userID, NoteID: noteID}).Error; err != nil {
			return false, 0, storeErr("record like", err)
		}
		liked = true
	default:
		return false, 0, storeErr("lookup like", err)
	}

	if err := db.Model(&models.NoteLike{}).Where("note_id = ?", noteID).Count(&total).Error; err != nil {
		return liked, 0, storeErr("count likes", err)
	}
	return liked, total, nil
}

// RegisterDownload bumps the monotonic download counter and returns the
// note's file URL for the caller to redirect to.
func (s *NotesService) RegisterDownload(ctx context.Context, noteID string) (string, error) {
	db := s.db.WithContext(ctx)

	var note models.Note
	if err := db.First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", storeErr("lookup note", err)
	}

	if err := db.Model(&models.Note{}).Where("id = ?", note.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error; err != nil {
		return "", storeErr("bump download count", err)
	}
	return note.FileURL, nil
}

// DeleteNote hard-deletes a note and its likes. Author only, unless the
// requester moderates.
func (s *NotesService) DeleteNote(ctx context.Context, requesterID, noteID string) error {
	db := s.db.WithContext(ctx)

	var note models.Note
	if err := db.First(&note, "id = ?", noteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup note", err)
	}

	if note.UserID != requesterID {
		mod, err := canModerate(ctx, s.db, requesterID)
		if err != nil {
			return err
		}
		if !mod {
			return ErrAuthorization
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("note_id = ?", note.ID).Delete(&models.NoteLike{}).Error; err != nil {
			return storeErr("delete note likes", err)
		}
		if err := tx.Delete(&note).Error; err != nil {
			return storeErr("delete note", err)
		}
		return nil
	})
}
