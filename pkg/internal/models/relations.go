package models

import "time"

// Relationship is a directed follow edge. The follower's following list
// and the target's followers list are both read from the same row.
type Relationship struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt   time.Time `json:"created_at"`
}
