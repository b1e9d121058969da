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

func TestNewPost(t *testing.T) {
	host := testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")

	t.Run("text only", func(t *testing.T) {
		post, err := services.NewPost(alice.ID, "  hello world  ", "")
		require.NoError(t, err)
		assert.Equal(t, "hello world", post.Text)
		assert.Nil(t, post.Image)
		require.NotNil(t, post.User)
		assert.Equal(t, "alice", post.User.Username)
		assert.Empty(t, post.Likes)
		assert.Empty(t, post.Comments)
	})

	t.Run("image only", func(t *testing.T) {
		post, err := services.NewPost(alice.ID, "", "data:image/png;base64,AAAA")
		require.NoError(t, err)
		require.NotNil(t, post.Image)
		assert.Contains(t, *post.Image, "res.cloudinary.com")
		assert.Equal(t, 1, host.Count())
	})

	t.Run("neither", func(t *testing.T) {
		_, err := services.NewPost(alice.ID, "   ", "")
		assert.True(t, services.IsKind(err, services.KindValidation))
	})

	t.Run("upload failure aborts", func(t *testing.T) {
		count, err := services.CountPost(database.C)
		require.NoError(t, err)

		host.SetFailures(true, false)
		defer host.SetFailures(false, false)

		_, err = services.NewPost(alice.ID, "with picture", "data:image/png;base64,BBBB")
		assert.True(t, services.IsKind(err, services.KindDependency))

		after, err := services.CountPost(database.C)
		require.NoError(t, err)
		assert.Equal(t, count, after)
	})

	t.Run("unknown author", func(t *testing.T) {
		_, err := services.NewPost(999, "ghost", "")
		assert.True(t, services.IsKind(err, services.KindNotFound))
	})
}

func TestDeletePost(t *testing.T) {
	host := testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	post, err := services.NewPost(alice.ID, "to be removed", "data:image/png;base64,AAAA")
	require.NoError(t, err)
	_, err = services.SetPostLike(bob.ID, post.ID, true)
	require.NoError(t, err)
	comment, err := services.NewComment(bob.ID, post.ID, "nice")
	require.NoError(t, err)
	_, err = services.NewReply(alice.ID, comment.ID, "thanks")
	require.NoError(t, err)

	t.Run("not owner", func(t *testing.T) {
		err := services.DeletePost(bob.ID, post.ID)
		assert.True(t, services.IsKind(err, services.KindAuthorization))

		_, err = services.GetPost(database.C, post.ID)
		assert.NoError(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		err := services.DeletePost(alice.ID, 999)
		assert.True(t, services.IsKind(err, services.KindNotFound))
	})

	t.Run("owner cascades", func(t *testing.T) {
		require.NoError(t, services.DeletePost(alice.ID, post.ID))

		_, err := services.GetPost(database.C, post.ID)
		assert.True(t, services.IsKind(err, services.KindNotFound))
		assert.Equal(t, 0, host.Count())

		var likes, comments, notifications int64
		database.C.Model(&models.PostLike{}).Where("post_id = ?", post.ID).Count(&likes)
		database.C.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&comments)
		database.C.Model(&models.Notification{}).Where("post_id = ?", post.ID).Count(&notifications)
		assert.Zero(t, likes)
		assert.Zero(t, comments)
		assert.Zero(t, notifications)

		b := loadRelations(t, bob.ID)
		assert.NotContains(t, b.LikedPosts, post.ID)
	})
}

func TestDeletePost_MediaFailureRecordsTombstone(t *testing.T) {
	host := testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")

	post, err := services.NewPost(alice.ID, "", "data:image/png;base64,AAAA")
	require.NoError(t, err)

	host.SetFailures(false, true)
	require.NoError(t, services.DeletePost(alice.ID, post.ID))

	var tombstones []models.MediaTombstone
	require.NoError(t, database.C.Find(&tombstones).Error)
	require.Len(t, tombstones, 1)
	assert.Equal(t, *post.ImageID, tombstones[0].RemoteID)

	// The retry sweep clears it once the host is reachable again
	host.SetFailures(false, false)
	services.DoAutoDatabaseCleanup()

	var remaining int64
	database.C.Model(&models.MediaTombstone{}).Count(&remaining)
	assert.Zero(t, remaining)
	assert.Zero(t, host.Count())
}

func TestDoAutoDatabaseCleanup_GivesUpAfterMaxAttempts(t *testing.T) {
	host := testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")

	post, err := services.NewPost(alice.ID, "", "data:image/png;base64,AAAA")
	require.NoError(t, err)

	host.SetFailures(false, true)
	require.NoError(t, services.DeletePost(alice.ID, post.ID))

	for i := 0; i < services.MaxMediaDestroyAttempts+2; i++ {
		services.DoAutoDatabaseCleanup()
	}

	var tombstone models.MediaTombstone
	require.NoError(t, database.C.First(&tombstone).Error)
	assert.Equal(t, services.MaxMediaDestroyAttempts, tombstone.Attempts)
	assert.NotEmpty(t, tombstone.LastError)

	// Exhausted tombstones are left alone by later sweeps
	host.SetFailures(false, false)
	services.DoAutoDatabaseCleanup()
	assert.Equal(t, 1, host.Count())
}

func TestRemoteIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://res.cloudinary.com/demo/image/upload/v1712/abcdefg.png":        "abcdefg",
		"https://res.cloudinary.com/demo/image/upload/v1712/circle/abcdefg.jpg": "circle/abcdefg",
		"https://res.cloudinary.com/demo/image/upload/abcdefg.png":              "abcdefg",
		"https://example.com/pictures/abcdefg.png":                              "abcdefg",
		"abcdefg": "abcdefg",
	}
	for url, expected := range cases {
		assert.Equal(t, expected, services.RemoteIDFromURL(url), url)
	}
}

func TestBuildCommentTree(t *testing.T) {
	parent := uint(1)
	nested := uint(3)
	tree := services.BuildCommentTree([]models.Comment{
		{BaseModel: models.BaseModel{ID: 1}, Text: "first"},
		{BaseModel: models.BaseModel{ID: 2}, Text: "second"},
		{BaseModel: models.BaseModel{ID: 3}, Text: "reply", ParentID: &parent},
		{BaseModel: models.BaseModel{ID: 4}, Text: "deep", ParentID: &nested},
		{BaseModel: models.BaseModel{ID: 5}, Text: "another reply", ParentID: &parent},
	})

	require.Len(t, tree, 2)
	assert.Equal(t, "first", tree[0].Text)
	assert.Equal(t, "second", tree[1].Text)
	assert.Empty(t, tree[1].Replies)
	require.Len(t, tree[0].Replies, 2)
	assert.Equal(t, "reply", tree[0].Replies[0].Text)
	assert.Equal(t, "another reply", tree[0].Replies[1].Text)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	assert.Equal(t, "deep", tree[0].Replies[0].Replies[0].Text)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, "", services.DetectLanguage("   "))
	assert.Equal(t, "en", services.DetectLanguage("The quick brown fox jumps over the lazy dog and keeps running through the forest"))
}
