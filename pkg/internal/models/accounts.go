package models

type Account struct {
	BaseModel

	Username string `json:"username" gorm:"uniqueIndex;size:64"`
	Fullname string `json:"fullname"`
	Email    string `json:"email,omitempty" gorm:"uniqueIndex;size:256"`
	Password string `json:"-"`

	Bio  string `json:"bio"`
	Link string `json:"link"`

	ProfileImg   string `json:"profile_img"`
	ProfileImgID string `json:"-"`
	CoverImg     string `json:"cover_img"`
	CoverImgID   string `json:"-"`

	FollowerCount  int `json:"follower_count"`
	FollowingCount int `json:"following_count"`

	// Filled by services.CompleteAccountRelations, the source of truth
	// is the relationships and post_likes tables.
	Followers  []uint `json:"followers" gorm:"-"`
	Following  []uint `json:"following" gorm:"-"`
	LikedPosts []uint `json:"liked_posts" gorm:"-"`
}

// AccountDisplay is the public projection of an account embedded into
// posts, comments and notifications when they are read.
type AccountDisplay struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Fullname   string `json:"fullname"`
	ProfileImg string `json:"profile_img"`
}

func (v Account) Display() AccountDisplay {
	return AccountDisplay{
		ID:         v.ID,
		Username:   v.Username,
		Fullname:   v.Fullname,
		ProfileImg: v.ProfileImg,
	}
}
