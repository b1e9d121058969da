package models

type Comment struct {
	BaseModel

	Text      string `json:"text"`
	PostID    uint   `json:"post_id" gorm:"index"`
	ParentID  *uint  `json:"parent_id" gorm:"index"`
	AccountID uint   `json:"account_id"`

	User    *AccountDisplay `json:"user" gorm:"-"`
	Replies []Comment       `json:"replies" gorm:"-"`
}
