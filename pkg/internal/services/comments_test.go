package services_test

import (
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"git.solsynth.dev/hypernet/circle/pkg/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getCompletePost(t *testing.T, id uint) models.Post {
	t.Helper()
	post, err := services.GetPost(database.C, id)
	require.NoError(t, err)
	post, err = services.CompleteSinglePostMeta(database.C, post)
	require.NoError(t, err)
	return post
}

func TestNewComment(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	post, err := services.NewPost(alice.ID, "hello", "")
	require.NoError(t, err)

	first, err := services.NewComment(bob.ID, post.ID, "nice")
	require.NoError(t, err)
	require.NotNil(t, first.User)
	assert.Equal(t, "bob", first.User.Username)

	_, err = services.NewComment(alice.ID, post.ID, "thanks for stopping by")
	require.NoError(t, err)

	stored := getCompletePost(t, post.ID)
	require.Len(t, stored.Comments, 2)
	assert.Equal(t, "nice", stored.Comments[0].Text)
	assert.Equal(t, "thanks for stopping by", stored.Comments[1].Text)
	require.NotNil(t, stored.Comments[1].User)
	assert.Equal(t, "alice", stored.Comments[1].User.Username)

	// Commenting on your own post does not notify
	notifications, err := services.ListNotifications(alice.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeComment, notifications[0].Type)
	assert.Equal(t, bob.ID, notifications[0].FromID)
}

func TestNewComment_Failures(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")

	post, err := services.NewPost(alice.ID, "hello", "")
	require.NoError(t, err)

	_, err = services.NewComment(alice.ID, post.ID, "   ")
	assert.True(t, services.IsKind(err, services.KindValidation))

	_, err = services.NewComment(alice.ID, 999, "hello?")
	assert.True(t, services.IsKind(err, services.KindNotFound))

	assert.Empty(t, getCompletePost(t, post.ID).Comments)
}

func TestNewReply(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	post, err := services.NewPost(alice.ID, "hello", "")
	require.NoError(t, err)
	comment, err := services.NewComment(alice.ID, post.ID, "first!")
	require.NoError(t, err)

	reply, err := services.NewReply(bob.ID, comment.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, post.ID, reply.PostID)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, comment.ID, *reply.ParentID)

	_, err = services.NewReply(bob.ID, comment.ID, "")
	assert.True(t, services.IsKind(err, services.KindValidation))
	_, err = services.NewReply(bob.ID, 999, "lost")
	assert.True(t, services.IsKind(err, services.KindNotFound))

	stored := getCompletePost(t, post.ID)
	require.Len(t, stored.Comments, 1)
	require.Len(t, stored.Comments[0].Replies, 1)
	assert.Equal(t, "second", stored.Comments[0].Replies[0].Text)

	// Replies are never notified
	notifications, err := services.ListNotifications(alice.ID)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}
