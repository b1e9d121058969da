package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetPostLike moves the actor's like on the post into the desired state and
// returns the likers afterwards.
func SetPostLike(actorID, postID uint, desired bool) ([]uint, error) {
	var likes []uint
	err := database.C.Transaction(func(tx *gorm.DB) error {
		post, err := GetPost(tx, postID)
		if err != nil {
			return err
		}
		if err := setPostLike(tx, actorID, post, desired); err != nil {
			return err
		}
		likes, err = ListPostLikes(tx, post.ID)
		return err
	})
	return likes, err
}

// TogglePostLike flips the like and reports whether the post is liked by
// the actor afterwards.
func TogglePostLike(actorID, postID uint) (bool, []uint, error) {
	var liked bool
	var likes []uint
	err := database.C.Transaction(func(tx *gorm.DB) error {
		post, err := GetPost(tx, postID)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.PostLike{}).
			Where("post_id = ? AND account_id = ?", post.ID, actorID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("unable to check like: %v", err)
		}

		liked = count == 0
		if err := setPostLike(tx, actorID, post, liked); err != nil {
			return err
		}
		likes, err = ListPostLikes(tx, post.ID)
		return err
	})
	return liked, likes, err
}

func setPostLike(tx *gorm.DB, actorID uint, post models.Post, desired bool) error {
	if desired {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.PostLike{
			PostID:    post.ID,
			AccountID: actorID,
		})
		if result.Error != nil {
			return fmt.Errorf("unable to like post: %v", result.Error)
		} else if result.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Update("total_likes", gorm.Expr("total_likes + 1")).Error; err != nil {
			return fmt.Errorf("unable to update like count: %v", err)
		}
		log.Debug().Uint("post", post.ID).Uint("account", actorID).Msg("Post liked.")
		return NotifyAccount(tx, actorID, post.AccountID, models.NotificationTypeLike, &post.ID)
	}

	result := tx.
		Where("post_id = ? AND account_id = ?", post.ID, actorID).
		Delete(&models.PostLike{})
	if result.Error != nil {
		return fmt.Errorf("unable to unlike post: %v", result.Error)
	} else if result.RowsAffected == 0 {
		return nil
	}
	if err := tx.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Update("total_likes", gorm.Expr("total_likes - 1")).Error; err != nil {
		return fmt.Errorf("unable to update like count: %v", err)
	}
	log.Debug().Uint("post", post.ID).Uint("account", actorID).Msg("Post unliked.")
	return nil
}

func ListPostLikes(tx *gorm.DB, postID uint) ([]uint, error) {
	likes := make([]uint, 0)
	if err := tx.Model(&models.PostLike{}).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Pluck("account_id", &likes).Error; err != nil {
		return likes, fmt.Errorf("unable to list likes: %v", err)
	}
	return likes, nil
}
