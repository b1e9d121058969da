package services_test

import (
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"git.solsynth.dev/hypernet/circle/pkg/internal/testkit"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postTexts(posts []models.Post) []string {
	return lo.Map(posts, func(item models.Post, index int) string {
		return item.Text
	})
}

func TestListFeed(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")
	carol := testkit.CreateAccount(t, "carol")

	for _, item := range []struct {
		author uint
		text   string
	}{
		{alice.ID, "alice one"},
		{bob.ID, "bob one"},
		{carol.ID, "carol one"},
		{bob.ID, "bob two"},
	} {
		_, err := services.NewPost(item.author, item.text, "")
		require.NoError(t, err)
	}

	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, true))

	t.Run("all", func(t *testing.T) {
		count, posts, err := services.ListFeed(services.FeedScope{Kind: services.FeedScopeAll}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.Equal(t, []string{"bob two", "carol one", "bob one", "alice one"}, postTexts(posts))
		for _, post := range posts {
			require.NotNil(t, post.User)
			assert.Equal(t, post.AccountID, post.User.ID)
		}
	})

	t.Run("paged", func(t *testing.T) {
		count, posts, err := services.ListFeed(services.FeedScope{Kind: services.FeedScopeAll}, 2, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.Equal(t, []string{"carol one", "bob one"}, postTexts(posts))
	})

	t.Run("following", func(t *testing.T) {
		_, posts, err := services.ListFeed(services.FeedScope{Kind: services.FeedScopeFollowing, AccountID: alice.ID}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"bob two", "bob one"}, postTexts(posts))

		_, posts, err = services.ListFeed(services.FeedScope{Kind: services.FeedScopeFollowing, AccountID: carol.ID}, 0, 0)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
	})

	t.Run("by user", func(t *testing.T) {
		count, posts, err := services.ListFeed(services.FeedScope{Kind: services.FeedScopeByUser, Username: "carol"}, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
		assert.Equal(t, []string{"carol one"}, postTexts(posts))

		_, _, err = services.ListFeed(services.FeedScope{Kind: services.FeedScopeByUser, Username: "nobody"}, 0, 0)
		assert.True(t, services.IsKind(err, services.KindNotFound))
	})

	t.Run("liked", func(t *testing.T) {
		_, all, err := services.ListFeed(services.FeedScope{Kind: services.FeedScopeByUser, Username: "alice"}, 0, 0)
		require.NoError(t, err)
		_, err = services.SetPostLike(carol.ID, all[0].ID, true)
		require.NoError(t, err)

		_, posts, err := services.ListFeed(services.FeedScope{Kind: services.FeedScopeLiked, AccountID: carol.ID}, 0, 0)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "alice one", posts[0].Text)
		assert.Equal(t, []uint{carol.ID}, posts[0].Likes)

		_, _, err = services.ListFeed(services.FeedScope{Kind: services.FeedScopeLiked, AccountID: 999}, 0, 0)
		assert.True(t, services.IsKind(err, services.KindNotFound))
	})
}
