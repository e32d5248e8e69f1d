package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varsityhub/backend/internal/models"
)

func TestCreatePostValidation(t *testing.T) {
	feed := NewFeedService(testDB)
	ctx := context.Background()
	author := createUser(t, "Palesa")

	_, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = feed.CreatePost(ctx, author.ID, models.CreatePostRequest{
		Content:  "hello",
		CourseID: "5f4c1b1e-0000-0000-0000-000000000010",
	})
	assert.ErrorIs(t, err, ErrValidation)

	post, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "Exam week survival thread"})
	require.NoError(t, err)
	assert.Nil(t, post.CourseID)
	assert.Equal(t, author.FullName, post.User.FullName)

	course := createCourse(t, "FEED101")
	scoped, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "course post", CourseID: course.ID})
	require.NoError(t, err)
	require.NotNil(t, scoped.CourseID)
	assert.Equal(t, course.ID, *scoped.CourseID)
}

func TestToggleLikePost(t *testing.T) {
	feed := NewFeedService(testDB)
	ctx := context.Background()
	author := createUser(t, "Musa")
	liker := createUser(t, "Amahle")
	post, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "like me"})
	require.NoError(t, err)

	liked, total, err := feed.ToggleLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.EqualValues(t, 1, total)

	liked, total, err = feed.ToggleLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)
	assert.EqualValues(t, 0, total)

	_, _, err = feed.ToggleLike(ctx, liker.ID, "5f4c1b1e-0000-0000-0000-000000000011")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPostsAnnotations(t *testing.T) {
	feed := NewFeedService(testDB)
	ctx := context.Background()
	author := createUser(t, "Thulani")
	liker := createUser(t, "Nhlanhla")
	post, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "annotate me"})
	require.NoError(t, err)

	_, _, err = feed.ToggleLike(ctx, liker.ID, post.ID)
	require.NoError(t, err)
	_, err = feed.CreateComment(ctx, liker.ID, post.ID, "first")
	require.NoError(t, err)
	_, err = feed.CreateComment(ctx, author.ID, post.ID, "second")
	require.NoError(t, err)

	// the feed is global, so pick our post out of the list
	findPost := func(posts []models.Post) *models.Post {
		for i := range posts {
			if posts[i].ID == post.ID {
				return &posts[i]
			}
		}
		return nil
	}

	asLiker, err := feed.ListPosts(ctx, liker.ID)
	require.NoError(t, err)
	got := findPost(asLiker)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 2, got.CommentsCount)
	assert.True(t, got.IsLiked)

	asAuthor, err := feed.ListPosts(ctx, author.ID)
	require.NoError(t, err)
	got = findPost(asAuthor)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.LikesCount)
	assert.False(t, got.IsLiked)
}

func TestCommentsOrderedOldestFirst(t *testing.T) {
	feed := NewFeedService(testDB)
	ctx := context.Background()
	author := createUser(t, "Karabo")
	post, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "comment thread"})
	require.NoError(t, err)

	_, err = feed.CreateComment(ctx, author.ID, post.ID, "one")
	require.NoError(t, err)
	_, err = feed.CreateComment(ctx, author.ID, post.ID, "two")
	require.NoError(t, err)
	_, err = feed.CreateComment(ctx, author.ID, post.ID, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	comments, err := feed.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "one", comments[0].Content)
	assert.Equal(t, "two", comments[1].Content)
}

func TestDeletePostCascades(t *testing.T) {
	feed := NewFeedService(testDB)
	ctx := context.Background()
	author := createUser(t, "Vusi")
	other := createUser(t, "Ntando")
	post, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "going away"})
	require.NoError(t, err)

	_, _, err = feed.ToggleLike(ctx, other.ID, post.ID)
	require.NoError(t, err)
	comment, err := feed.CreateComment(ctx, other.ID, post.ID, "bye")
	require.NoError(t, err)

	assert.ErrorIs(t, feed.DeletePost(ctx, other.ID, post.ID), ErrAuthorization)
	require.NoError(t, feed.DeletePost(ctx, author.ID, post.ID))

	var count int64
	testDB.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&count)
	assert.Zero(t, count)
	testDB.Model(&models.PostComment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteComment(t *testing.T) {
	feed := NewFeedService(testDB)
	ctx := context.Background()
	author := createUser(t, "Zodwa")
	commenter := createUser(t, "Andile")
	mod := createModerator(t, "FeedMod")
	post, err := feed.CreatePost(ctx, author.ID, models.CreatePostRequest{Content: "moderated"})
	require.NoError(t, err)

	first, err := feed.CreateComment(ctx, commenter.ID, post.ID, "mine")
	require.NoError(t, err)
	second, err := feed.CreateComment(ctx, commenter.ID, post.ID, "also mine")
	require.NoError(t, err)

	// post author cannot remove someone else's comment, moderators can
	assert.ErrorIs(t, feed.DeleteComment(ctx, author.ID, first.ID), ErrAuthorization)
	require.NoError(t, feed.DeleteComment(ctx, commenter.ID, first.ID))
	require.NoError(t, feed.DeleteComment(ctx, mod.ID, second.ID))
	assert.ErrorIs(t, feed.DeleteComment(ctx, commenter.ID, second.ID), ErrNotFound)
}
