package services_test

import (
	"sync"
	"testing"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"git.solsynth.dev/hypernet/circle/pkg/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadRelations(t *testing.T, id uint) models.Account {
	t.Helper()
	account, err := services.GetAccount(database.C, id)
	require.NoError(t, err)
	require.NoError(t, services.CompleteAccountRelations(database.C, &account))
	return account
}

func TestSetFollowing_Pair(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, true))

	a, b := loadRelations(t, alice.ID), loadRelations(t, bob.ID)
	assert.Equal(t, []uint{bob.ID}, a.Following)
	assert.Equal(t, []uint{alice.ID}, b.Followers)
	assert.Equal(t, 1, a.FollowingCount)
	assert.Equal(t, 1, b.FollowerCount)

	// Following again is a no-op
	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, true))
	b = loadRelations(t, bob.ID)
	assert.Len(t, b.Followers, 1)
	assert.Equal(t, 1, b.FollowerCount)

	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, false))
	a, b = loadRelations(t, alice.ID), loadRelations(t, bob.ID)
	assert.Empty(t, a.Following)
	assert.Empty(t, b.Followers)
	assert.Equal(t, 0, a.FollowingCount)
	assert.Equal(t, 0, b.FollowerCount)

	// Unfollowing again is a no-op as well
	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, false))
	assert.Equal(t, 0, loadRelations(t, bob.ID).FollowerCount)
}

func TestSetFollowing_Notifications(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, true))
	require.NoError(t, services.SetFollowing(alice.ID, bob.ID, false))

	notifications, err := services.ListNotifications(bob.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeFollow, notifications[0].Type)
	assert.Equal(t, alice.ID, notifications[0].FromID)
	require.NotNil(t, notifications[0].From)
	assert.Equal(t, "alice", notifications[0].From.Username)
}

func TestSetFollowing_Failures(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")

	err := services.SetFollowing(alice.ID, alice.ID, true)
	assert.True(t, services.IsKind(err, services.KindSelfAction))
	assert.Empty(t, loadRelations(t, alice.ID).Following)

	err = services.SetFollowing(alice.ID, alice.ID, false)
	assert.True(t, services.IsKind(err, services.KindSelfAction))

	_, err = services.ToggleFollowing(alice.ID, alice.ID)
	assert.True(t, services.IsKind(err, services.KindSelfAction))
	assert.Zero(t, loadRelations(t, alice.ID).FollowerCount)

	err = services.SetFollowing(alice.ID, 999, true)
	assert.True(t, services.IsKind(err, services.KindNotFound))
	assert.Empty(t, loadRelations(t, alice.ID).Following)
}

func TestToggleFollowing(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	following, err := services.ToggleFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = services.ToggleFollowing(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	followers, err := services.ListFollowers(database.C, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
}

func TestSetFollowing_Concurrent(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = services.SetFollowing(alice.ID, bob.ID, true)
		}()
	}
	wg.Wait()

	b := loadRelations(t, bob.ID)
	assert.Equal(t, []uint{alice.ID}, b.Followers)
	assert.Equal(t, 1, b.FollowerCount)

	following, err := services.ListFollowing(database.C, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].ID)
}

func TestToggleFollowing_Concurrent(t *testing.T) {
	testkit.Setup(t)
	alice := testkit.CreateAccount(t, "alice")
	bob := testkit.CreateAccount(t, "bob")

	var wg sync.WaitGroup
	for i := 0; i < 7; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = services.ToggleFollowing(alice.ID, bob.ID)
		}()
	}
	wg.Wait()

	var rows int64
	require.NoError(t, database.C.Model(&models.Relationship{}).
		Where("follower_id = ? AND following_id = ?", alice.ID, bob.ID).
		Count(&rows).Error)
	assert.LessOrEqual(t, rows, int64(1))

	a, b := loadRelations(t, alice.ID), loadRelations(t, bob.ID)
	assert.Equal(t, int(rows), b.FollowerCount)
	assert.Equal(t, int(rows), a.FollowingCount)
	assert.Len(t, b.Followers, int(rows))
	assert.Len(t, a.Following, int(rows))
}
