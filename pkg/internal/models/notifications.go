package models

import "gorm.io/datatypes"

const (
	NotificationTypeFollow  = "follow"
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
)

type Notification struct {
	BaseModel

	Type     string            `json:"type"`
	Read     bool              `json:"read" gorm:"default:false"`
	FromID   uint              `json:"from_id"`
	ToID     uint              `json:"to_id" gorm:"index"`
	PostID   *uint             `json:"post_id" gorm:"index"`
	Metadata datatypes.JSONMap `json:"metadata"`

	From *AccountDisplay `json:"from" gorm:"-"`
}
