package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/varsityhub/backend/internal/models"
	"github.com/varsityhub/backend/internal/services"
)

type PostHandler struct {
	feed *services.FeedService
}

func NewPostHandler(feed *services.FeedService) *PostHandler {
	return &PostHandler{feed: feed}
}

// GetPosts returns the feed newest first
func (h *PostHandler) GetPosts(c *gin.Context) {
	viewerID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	posts, err := h.feed.ListPosts(c.Request.Context(), viewerID)
	if err != nil {
		respondError(c, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.feed.CreatePost(c.Request.Context(), authorID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post (author or moderator only)
func (h *PostHandler) DeletePost(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.feed.DeletePost(c.Request.Context(), requesterID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// LikePost toggles the caller's like on a post
func (h *PostHandler) LikePost(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	liked, total, err := h.feed.ToggleLike(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes_count": total})
}

// GetComments returns a post's comments oldest first
func (h *PostHandler) GetComments(c *gin.Context) {
	comments, err := h.feed.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if comments == nil {
		comments = []models.PostComment{}
	}
	c.JSON(http.StatusOK, comments)
}

// CreateComment adds a comment to a post
func (h *PostHandler) CreateComment(c *gin.Context) {
	authorID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreatePostCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.feed.CreateComment(c.Request.Context(), authorID, c.Param("id"), input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// DeleteComment deletes a comment (author or moderator only)
func (h *PostHandler) DeleteComment(c *gin.Context) {
	requesterID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.feed.DeleteComment(c.Request.Context(), requesterID, c.Param("commentId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
