package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/varsityhub/backend/internal/models"
)

// FeedService covers the social feed: posts, flat comments, and
// existence-only likes. Like and comment counts are derived on read.
type FeedService struct {
	db *gorm.DB
}

func NewFeedService(db *gorm.DB) *FeedService {
	return &FeedService{db: db}
}

func (s *FeedService) CreatePost(ctx context.Context, authorID string, req models.CreatePostRequest) (*models.Post, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, validationf("content is required")
	}

	db := s.db.WithContext(ctx)

	post := models.Post{
		Content: content,
		UserID:  authorID,
	}
	if req.CourseID != "" {
		if err := db.First(&models.Course{}, "id = ?", req.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationf("course %s does not exist", req.CourseID)
			}
			return nil, storeErr("lookup course", err)
		}
		post.CourseID = &req.CourseID
	}

	if err := db.Create(&post).Error; err != nil {
		return nil, storeErr("create post", err)
	}
	if err := db.Preload("User").First(&post, "id = ?", post.ID).Error; err != nil {
		return nil, storeErr("reload post", err)
	}
	return &post, nil
}

// ListPosts returns the feed newest first, annotated with like count,
// comment count and the viewer's like state via batched queries.
func (s *FeedService) ListPosts(ctx context.Context, viewerID string) ([]models.Post, error) {
	db := s.db.WithContext(ctx)

	var posts []models.Post
	if err := db.Preload("User").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, storeErr("list posts", err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}

	var likeRows []voteSum
	if err := db.Model(&models.PostLike{}).
		Select("post_id AS target_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&likeRows).Error; err != nil {
		return nil, storeErr("count post likes", err)
	}
	likes := make(map[string]int, len(likeRows))
	for _, row := range likeRows {
		likes[row.TargetID] = row.Total
	}

	var commentRows []voteSum
	if err := db.Model(&models.PostComment{}).
		Select("post_id AS target_id, COUNT(*) AS total").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&commentRows).Error; err != nil {
		return nil, storeErr("count post comments", err)
	}
	comments := make(map[string]int, len(commentRows))
	for _, row := range commentRows {
		comments[row.TargetID] = row.Total
	}

	var ownLikes []models.PostLike
	if err := db.Where("user_id = ? AND post_id IN ?", viewerID, ids).
		Find(&ownLikes).Error; err != nil {
		return nil, storeErr("lookup viewer likes", err)
	}
	liked := make(map[string]bool, len(ownLikes))
	for _, l := range ownLikes {
		liked[l.PostID] = true
	}

	for i := range posts {
		posts[i].LikesCount = likes[posts[i].ID]
		posts[i].CommentsCount = comments[posts[i].ID]
		posts[i].IsLiked = liked[posts[i].ID]
	}
	return posts, nil
}

// ToggleLike flips the viewer's like on a post and returns the new state
// with the recounted total.
func (s *FeedService) ToggleLike(ctx context.Context, userID, postID string) (liked bool, total int64, err error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Post{}, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, ErrNotFound
		}
		return false, 0, storeErr("lookup post", err)
	}

	var existing models.PostLike
	switch err := db.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error; {
	case err == nil:
		if err := db.Delete(&existing).Error; err != nil {
			return false, 0, storeErr("remove like", err)
		}
		liked = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&models.PostLike{UserID: userID, PostID: postID}).Error; err != nil {
			return false, 0, storeErr("record like", err)
		}
		liked = true
	default:
		return false, 0, storeErr("lookup like", err)
	}

	if err := db.Model(&models.PostLike{}).Where("post_id = ?", postID).Count(&total).Error; err != nil {
		return liked, 0, storeErr("count likes", err)
	}
	return liked, total, nil
}

func (s *FeedService) CreateComment(ctx context.Context, authorID, postID string, content string) (*models.PostComment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, validationf("content is required")
	}

	db := s.db.WithContext(ctx)

	if err := db.First(&models.Post{}, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("post %s does not exist", postID)
		}
		return nil, storeErr("lookup post", err)
	}

	comment := models.PostComment{
		Content: content,
		UserID:  authorID,
		PostID:  postID,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, storeErr("create comment", err)
	}
	if err := db.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		return nil, storeErr("reload comment", err)
	}
	return &comment, nil
}

func (s *FeedService) ListComments(ctx context.Context, postID string) ([]models.PostComment, error) {
	db := s.db.WithContext(ctx)

	if err := db.First(&models.Post{}, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storeErr("lookup post", err)
	}

	var comments []models.PostComment
	err := db.Preload("User").Where("post_id = ?", postID).
		Order("created_at ASC").Find(&comments).Error
	if err != nil {
		return nil, storeErr("list comments", err)
	}
	return comments, nil
}

// DeletePost hard-deletes a post with its likes and comments. Author only,
// unless the requester moderates.
func (s *FeedService) DeletePost(ctx context.Context, requesterID, postID string) error {
	db := s.db.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup post", err)
	}

	if post.UserID != requesterID {
		mod, err := canModerate(ctx, s.db, requesterID)
		if err != nil {
			return err
		}
		if !mod {
			return ErrAuthorization
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return storeErr("delete post likes", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostComment{}).Error; err != nil {
			return storeErr("delete post comments", err)
		}
		if err := tx.Delete(&post).Error; err != nil {
			return storeErr("delete post", err)
		}
		return nil
	})
}

func (s *FeedService) DeleteComment(ctx context.Context, requesterID, commentID string) error {
	db := s.db.WithContext(ctx)

	var comment models.PostComment
	if err := db.First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return storeErr("lookup comment", err)
	}

	if comment.UserID != requesterID {
		mod, err := canModerate(ctx, s.db, requesterID)
		if err != nil {
			return err
		}
		if !mod {
			return ErrAuthorization
		}
	}

	if err := db.Delete(&comment).Error; err != nil {
		return storeErr("delete comment", err)
	}
	return nil
}
