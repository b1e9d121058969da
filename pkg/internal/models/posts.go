package models

import "time"

type Post struct {
	BaseModel

	Text     string  `json:"text"`
	Image    *string `json:"img"`
	ImageID  *string `json:"-"`
	Language string  `json:"language"`

	TotalLikes int `json:"total_likes"`

	AccountID uint `json:"account_id" gorm:"index"`

	User     *AccountDisplay `json:"user" gorm:"-"`
	Likes    []uint          `json:"likes" gorm:"-"`
	Comments []Comment       `json:"comments" gorm:"-"`
}

// PostLike is one member of a post's liker set, it also serves as the
// liked posts list of the account.
type PostLike struct {
	PostID    uint      `json:"post_id" gorm:"primaryKey;autoIncrement:false"`
	AccountID uint      `json:"account_id" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `json:"created_at"`
}
