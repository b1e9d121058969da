package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func IsFollowing(tx *gorm.DB, followerID, followingID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Relationship{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("unable to check relationship: %v", err)
	}
	return count > 0, nil
}

// SetFollowing moves the edge actor -> target into the desired state.
// Being in that state already is not an error.
func SetFollowing(actorID, targetID uint, desired bool) error {
	if actorID == targetID {
		return SelfActionError("you can not follow or unfollow yourself")
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if _, err := GetAccount(tx, targetID); err != nil {
			return err
		}
		return setFollowing(tx, actorID, targetID, desired)
	})
}

// ToggleFollowing flips the edge and reports whether the actor follows the
// target afterwards.
func ToggleFollowing(actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, SelfActionError("you can not follow or unfollow yourself")
	}

	var following bool
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if _, err := GetAccount(tx, targetID); err != nil {
			return err
		}
		current, err := IsFollowing(tx, actorID, targetID)
		if err != nil {
			return err
		}
		following = !current
		return setFollowing(tx, actorID, targetID, following)
	})
	return following, err
}

func setFollowing(tx *gorm.DB, actorID, targetID uint, desired bool) error {
	if desired {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Relationship{
			FollowerID:  actorID,
			FollowingID: targetID,
		})
		if result.Error != nil {
			return fmt.Errorf("unable to follow: %v", result.Error)
		} else if result.RowsAffected == 0 {
			return nil
		}
		if err := shiftFollowCounters(tx, actorID, targetID, 1); err != nil {
			return err
		}
		if err := NotifyAccount(tx, actorID, targetID, models.NotificationTypeFollow, nil); err != nil {
			return err
		}
		log.Debug().Uint("follower", actorID).Uint("following", targetID).Msg("Account followed.")
		return nil
	}

	result := tx.
		Where("follower_id = ? AND following_id = ?", actorID, targetID).
		Delete(&models.Relationship{})
	if result.Error != nil {
		return fmt.Errorf("unable to unfollow: %v", result.Error)
	} else if result.RowsAffected == 0 {
		return nil
	}
	if err := shiftFollowCounters(tx, actorID, targetID, -1); err != nil {
		return err
	}
	log.Debug().Uint("follower", actorID).Uint("following", targetID).Msg("Account unfollowed.")
	return nil
}

func shiftFollowCounters(tx *gorm.DB, followerID, followingID uint, delta int) error {
	if err := tx.Model(&models.Account{}).
		Where("id = ?", followerID).
		Update("following_count", gorm.Expr("following_count + ?", delta)).Error; err != nil {
		return fmt.Errorf("unable to update following count: %v", err)
	}
	if err := tx.Model(&models.Account{}).
		Where("id = ?", followingID).
		Update("follower_count", gorm.Expr("follower_count + ?", delta)).Error; err != nil {
		return fmt.Errorf("unable to update follower count: %v", err)
	}
	return nil
}

func ListFollowers(tx *gorm.DB, accountID uint) ([]models.Account, error) {
	return listRelated(tx, "follower_id", "following_id", accountID)
}

func ListFollowing(tx *gorm.DB, accountID uint) ([]models.Account, error) {
	return listRelated(tx, "following_id", "follower_id", accountID)
}

func listRelated(tx *gorm.DB, selectColumn, matchColumn string, accountID uint) ([]models.Account, error) {
	related := tx.Model(&models.Relationship{}).
		Select(selectColumn).
		Where(fmt.Sprintf("%s = ?", matchColumn), accountID)

	var accounts []models.Account
	if err := tx.Where("id IN (?)", related).Order("id ASC").Find(&accounts).Error; err != nil {
		return accounts, fmt.Errorf("unable to list related accounts: %v", err)
	}

	return lo.Map(accounts, func(item models.Account, index int) models.Account {
		return PublicAccount(item)
	}), nil
}
