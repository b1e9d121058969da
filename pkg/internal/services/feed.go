package services

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"gorm.io/gorm"
)

const (
	DefaultFeedTake = 50
	MaxFeedTake     = 100
)

type FeedScopeKind string

const (
	FeedScopeAll       FeedScopeKind = "all"
	FeedScopeFollowing FeedScopeKind = "following"
	FeedScopeByUser    FeedScopeKind = "user"
	FeedScopeLiked     FeedScopeKind = "likes"
)

// FeedScope selects the posts of a feed. AccountID is the viewer for the
// following scope and the liker for the liked scope, Username names the
// author for the by-user scope.
type FeedScope struct {
	Kind      FeedScopeKind
	AccountID uint
	Username  string
}

func (v FeedScope) apply(tx *gorm.DB) (*gorm.DB, error) {
	switch v.Kind {
	case FeedScopeAll:
		return tx, nil
	case FeedScopeFollowing:
		return FilterPostWithFollowing(tx, v.AccountID), nil
	case FeedScopeByUser:
		author, err := GetAccountByName(database.C, v.Username)
		if err != nil {
			return tx, err
		}
		return FilterPostWithAuthor(tx, author.ID), nil
	case FeedScopeLiked:
		if _, err := GetAccount(database.C, v.AccountID); err != nil {
			return tx, err
		}
		return FilterPostWithLikedBy(tx, v.AccountID), nil
	default:
		return tx, ValidationError("unknown feed scope")
	}
}

func clampFeedTake(take int) int {
	if take <= 0 {
		return DefaultFeedTake
	}
	if take > MaxFeedTake {
		return MaxFeedTake
	}
	return take
}

// ListFeed returns the posts of the scope newest first, together with the
// total number of posts in it. Nothing matching is an empty page.
func ListFeed(scope FeedScope, take, offset int) (int64, []models.Post, error) {
	tx, err := scope.apply(database.C.Model(&models.Post{}))
	if err != nil {
		return 0, nil, err
	}
	tx = tx.Session(&gorm.Session{})

	count, err := CountPost(tx)
	if err != nil {
		return 0, nil, err
	}

	posts, err := ListPost(tx, clampFeedTake(take), max(offset, 0))
	if err != nil {
		return count, nil, err
	}
	return count, posts, nil
}
