package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varsityhub/backend/internal/models"
)

func newNote(t *testing.T, notes *NotesService, authorID, courseID, title string, public bool) *models.Note {
	t.Helper()
	note, err := notes.CreateNote(context.Background(), authorID, models.CreateNoteRequest{
		Title:    title,
		CourseID: courseID,
		FileURL:  "https://files.example.com/" + title + ".pdf",
		FileType: "application/pdf",
		FileSize: 2048,
		IsPublic: &public,
	})
	require.NoError(t, err)
	return note
}

func TestCreateNoteValidation(t *testing.T) {
	notes := NewNotesService(testDB)
	ctx := context.Background()
	author := createUser(t, "Noluthando")
	course := createCourse(t, "NOTES101")

	cases := []models.CreateNoteRequest{
		{CourseID: course.ID, FileURL: "u", FileType: "application/pdf"},
		{Title: "t", FileURL: "u", FileType: "application/pdf"},
		{Title: "t", CourseID: course.ID, FileType: "application/pdf"},
		{Title: "t", CourseID: course.ID, FileURL: "u"},
		{Title: "t", CourseID: "5f4c1b1e-0000-0000-0000-000000000020", FileURL: "u", FileType: "application/pdf"},
	}
	for _, req := range cases {
		_, err := notes.CreateNote(ctx, author.ID, req)
		assert.ErrorIs(t, err, ErrValidation)
	}

	// visibility defaults to public when the flag is omitted
	note, err := notes.CreateNote(ctx, author.ID, models.CreateNoteRequest{
		Title:    "Week 3 summary",
		CourseID: course.ID,
		FileURL:  "https://files.example.com/week3.pdf",
		FileType: "application/pdf",
		FileSize: 1024,
	})
	require.NoError(t, err)
	assert.True(t, note.IsPublic)
	assert.Equal(t, 0, note.DownloadCount)
}

func TestListNotesVisibility(t *testing.T) {
	notes := NewNotesService(testDB)
	ctx := context.Background()
	owner := createUser(t, "Lindiwe")
	viewer := createUser(t, "Senzo")
	course := createCourse(t, "NOTES200")

	public := newNote(t, notes, owner.ID, course.ID, "public-notes", true)
	private := newNote(t, notes, owner.ID, course.ID, "private-notes", false)

	ids := func(list []models.Note) map[string]bool {
		out := make(map[string]bool, len(list))
		for _, n := range list {
			out[n.ID] = true
		}
		return out
	}

	forViewer, err := notes.ListNotes(ctx, viewer.ID, NoteFilter{CourseID: course.ID})
	require.NoError(t, err)
	got := ids(forViewer)
	assert.True(t, got[public.ID])
	assert.False(t, got[private.ID])

	forOwner, err := notes.ListNotes(ctx, owner.ID, NoteFilter{CourseID: course.ID})
	require.NoError(t, err)
	got = ids(forOwner)
	assert.True(t, got[public.ID])
	assert.True(t, got[private.ID])
}

func TestListNotesSearch(t *testing.T) {
	notes := NewNotesService(testDB)
	ctx := context.Background()
	owner := createUser(t, "Siya")
	course := createCourse(t, "NOTES210")

	newNote(t, notes, owner.ID, course.ID, "Thermodynamics-xylo cheat sheet", true)
	newNote(t, notes, owner.ID, course.ID, "Optics summary", true)

	found, err := notes.ListNotes(ctx, owner.ID, NoteFilter{CourseID: course.ID, Search: "XYLO"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Contains(t, found[0].Title, "xylo")
}

func TestNoteLikeToggle(t *testing.T) {
	notes := NewNotesService(testDB)
	ctx := context.Background()
	owner := createUser(t, "Ntombi")
	liker := createUser(t, "Sello")
	course := createCourse(t, "NOTES220")
	note := newNote(t, notes, owner.ID, course.ID, "liked-note", true)

	liked, total, err := notes.ToggleLike(ctx, liker.ID, note.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, total)

	liked, total, err = notes.ToggleLike(ctx, liker.ID, note.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, total)
}

func TestRegisterDownload(t *testing.T) {
	notes := NewNotesService(testDB)
	ctx := context.Background()
	owner := createUser(t, "Mpho")
	course := createCourse(t, "NOTES230")
	note := newNote(t, notes, owner.ID, course.ID, "downloaded-note", true)

	url, err := notes.RegisterDownload(ctx, note.ID)
	require.NoError(t, err)
	assert.Equal(t, note.FileURL, url)
	_, err = notes.RegisterDownload(ctx, note.ID)
	require.NoError(t, err)

	var reloaded models.Note
	require.NoError(t, testDB.First(&reloaded, "id = ?", note.ID).Error)
	assert.Equal(t, 2, reloaded.DownloadCount)

	_, err = notes.RegisterDownload(ctx, "5f4c1b1e-0000-0000-0000-000000000021")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteNote(t *testing.T) {
	notes := NewNotesService(testDB)
	ctx := context.Background()
	owner := createUser(t, "Buhle")
	stranger := createUser(t, "Jabu")
	course := createCourse(t, "NOTES240")
	note := newNote(t, notes, owner.ID, course.ID, "deleted-note", true)

	_, _, err := notes.ToggleLike(ctx, stranger.ID, note.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, notes.DeleteNote(ctx, stranger.ID, note.ID), ErrAuthorization)
	require.NoError(t, notes.DeleteNote(ctx, owner.ID, note.ID))

	var count int64
	testDB.Model(&models.NoteLike{}).Where("note_id = ?", note.ID).Count(&count)
	assert.Zero(t, count)
	assert.ErrorIs(t, notes.DeleteNote(ctx, owner.ID, note.ID), ErrNotFound)
}
