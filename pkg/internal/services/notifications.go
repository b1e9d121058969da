package services

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotifyAccount records that from acted on something owned by to. Actions
// on your own content are not notified.
func NotifyAccount(tx *gorm.DB, fromID, toID uint, kind string, postID *uint, metadata ...map[string]any) error {
	if fromID == toID {
		return nil
	}

	notification := models.Notification{
		Type:   kind,
		FromID: fromID,
		ToID:   toID,
		PostID: postID,
	}
	if len(metadata) > 0 {
		notification.Metadata = datatypes.JSONMap(metadata[0])
	}

	if err := tx.Create(&notification).Error; err != nil {
		return fmt.Errorf("unable to create notification: %v", err)
	}
	return nil
}

// ListNotifications returns the notifications addressed to the account,
// newest first, and marks them as read. The returned entries keep the read
// state they had before this call.
func ListNotifications(accountID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("to_id = ? AND from_id <> ?", accountID, accountID).
			Order("created_at DESC, id DESC").
			Find(&notifications).Error; err != nil {
			return fmt.Errorf("unable to list notifications: %v", err)
		}
		if len(notifications) == 0 {
			return nil
		}

		ids := lo.Map(notifications, func(item models.Notification, index int) uint {
			return item.ID
		})
		if err := tx.Model(&models.Notification{}).
			Where("id IN ?", ids).
			Update("read", true).Error; err != nil {
			return fmt.Errorf("unable to mark notifications as read: %v", err)
		}

		displays, err := LoadAccountDisplays(tx, lo.Map(notifications, func(item models.Notification, index int) uint {
			return item.FromID
		}))
		if err != nil {
			return err
		}
		for idx := range notifications {
			if display, ok := displays[notifications[idx].FromID]; ok {
				notifications[idx].From = &display
			}
		}
		return nil
	})
	if notifications == nil {
		notifications = make([]models.Notification, 0)
	}
	return notifications, err
}

func CountUnreadNotifications(tx *gorm.DB, accountID uint) (int64, error) {
	var count int64
	if err := tx.Model(&models.Notification{}).
		Where("to_id = ? AND from_id <> ? AND read = ?", accountID, accountID, false).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("unable to count notifications: %v", err)
	}
	return count, nil
}

func DeleteNotification(accountID, id uint) error {
	var notification models.Notification
	if err := database.C.Where("id = ?", id).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFoundError("notification not found")
		}
		return fmt.Errorf("unable to get notification: %v", err)
	}
	if notification.ToID != accountID {
		return AuthorizationError("you are not allowed to delete this notification")
	}

	if err := database.C.Delete(&notification).Error; err != nil {
		return fmt.Errorf("unable to delete notification: %v", err)
	}
	return nil
}

func DeleteAllNotifications(accountID uint) (int64, error) {
	result := database.C.Where("to_id = ?", accountID).Delete(&models.Notification{})
	if result.Error != nil {
		return 0, fmt.Errorf("unable to delete notifications: %v", result.Error)
	}
	return result.RowsAffected, nil
}
