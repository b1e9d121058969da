package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func FilterPostWithAuthor(tx *gorm.DB, accountID uint) *gorm.DB {
	return tx.Where("account_id = ?", accountID)
}

func FilterPostWithFollowing(tx *gorm.DB, accountID uint) *gorm.DB {
	following := tx.Session(&gorm.Session{NewDB: true}).Model(&models.Relationship{}).
		Select("following_id").
		Where("follower_id = ?", accountID)
	return tx.Where("account_id IN (?)", following)
}

func FilterPostWithLikedBy(tx *gorm.DB, accountID uint) *gorm.DB {
	liked := tx.Session(&gorm.Session{NewDB: true}).Model(&models.PostLike{}).
		Select("post_id").
		Where("account_id = ?", accountID)
	return tx.Where("id IN (?)", liked)
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var post models.Post
	if err := tx.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return post, NotFoundError("post not found")
		}
		return post, fmt.Errorf("unable to get post: %v", err)
	}
	return post, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, fmt.Errorf("unable to count posts: %v", err)
	}
	return count, nil
}

func ListPost(tx *gorm.DB, take int, offset int, order ...any) ([]models.Post, error) {
	if len(order) == 0 {
		order = append(order, "created_at DESC, id DESC")
	}

	var posts []models.Post
	if err := tx.
		Limit(take).Offset(offset).
		Order(order[0]).
		Find(&posts).Error; err != nil {
		return posts, fmt.Errorf("unable to list posts: %v", err)
	}

	return CompletePostMeta(tx, posts)
}

// CompletePostMeta loads the likers, the comment trees and the author
// displays of the posts in a constant number of queries.
func CompletePostMeta(tx *gorm.DB, posts []models.Post) ([]models.Post, error) {
	if len(posts) == 0 {
		return make([]models.Post, 0), nil
	}

	// Use a clean statement, the caller may hand over a filtered chain
	tx = tx.Session(&gorm.Session{NewDB: true})

	idx := lo.Map(posts, func(item models.Post, index int) uint {
		return item.ID
	})

	var likes []models.PostLike
	if err := tx.Where("post_id IN ?", idx).Order("created_at ASC").Find(&likes).Error; err != nil {
		return posts, fmt.Errorf("unable to load likes: %v", err)
	}
	likeMap := lo.GroupBy(likes, func(item models.PostLike) uint {
		return item.PostID
	})

	var comments []models.Comment
	if err := tx.Where("post_id IN ?", idx).Order("id ASC").Find(&comments).Error; err != nil {
		return posts, fmt.Errorf("unable to load comments: %v", err)
	}

	accounts := lo.Map(posts, func(item models.Post, index int) uint {
		return item.AccountID
	})
	accounts = append(accounts, lo.Map(comments, func(item models.Comment, index int) uint {
		return item.AccountID
	})...)
	displays, err := LoadAccountDisplays(tx, accounts)
	if err != nil {
		return posts, err
	}

	for idx := range comments {
		if display, ok := displays[comments[idx].AccountID]; ok {
			comments[idx].User = &display
		}
	}
	commentMap := lo.GroupBy(comments, func(item models.Comment) uint {
		return item.PostID
	})

	for idx, post := range posts {
		if display, ok := displays[post.AccountID]; ok {
			posts[idx].User = &display
		}
		posts[idx].Likes = lo.Map(likeMap[post.ID], func(item models.PostLike, index int) uint {
			return item.AccountID
		})
		posts[idx].Comments = BuildCommentTree(commentMap[post.ID])
	}

	return posts, nil
}

func CompleteSinglePostMeta(tx *gorm.DB, post models.Post) (models.Post, error) {
	posts, err := CompletePostMeta(tx, []models.Post{post})
	if err != nil || len(posts) == 0 {
		return post, err
	}
	return posts[0], nil
}

// NewPost uploads the image first. A failed upload aborts the post and a
// failed insert destroys the uploaded image again.
func NewPost(actorID uint, text, image string) (models.Post, error) {
	text = strings.TrimSpace(text)

	var post models.Post
	if len(text) == 0 && len(image) == 0 {
		return post, ValidationError("post must have text or image")
	}

	if _, err := GetAccount(database.C, actorID); err != nil {
		return post, err
	}

	post = models.Post{
		Text:      text,
		Language:  DetectLanguage(text),
		AccountID: actorID,
	}

	var uploaded *UploadedImage
	if len(image) > 0 {
		result, err := UploadImage(image)
		if err != nil {
			return post, err
		}
		uploaded = &result
		post.Image = &result.URL
		post.ImageID = &result.RemoteID
	}

	if err := database.C.Create(&post).Error; err != nil {
		if uploaded != nil {
			DestroyImage(uploaded.RemoteID, map[string]any{"reason": "post creation failed", "account": actorID})
		}
		return post, fmt.Errorf("unable to create post: %v", err)
	}

	log.Debug().Uint("post", post.ID).Uint("account", actorID).Msg("New post created.")
	return CompleteSinglePostMeta(database.C, post)
}

// DeletePost removes the post together with its likes, comments and the
// notifications pointing at it. The image goes first and on a best-effort
// basis, a failure there never keeps the post alive.
func DeletePost(actorID, postID uint) error {
	post, err := GetPost(database.C, postID)
	if err != nil {
		return err
	}
	if post.AccountID != actorID {
		return AuthorizationError("you are not authorized to delete this post")
	}

	if post.Image != nil {
		DestroyImage(
			remoteIDOf(lo.FromPtr(post.ImageID), *post.Image),
			map[string]any{"reason": "post deleted", "post": post.ID},
		)
	}

	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return fmt.Errorf("unable to delete likes: %v", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("unable to delete comments: %v", err)
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("unable to delete notifications: %v", err)
		}

		result := tx.Where("id = ? AND account_id = ?", post.ID, actorID).Delete(&models.Post{})
		if result.Error != nil {
			return fmt.Errorf("unable to delete post: %v", result.Error)
		} else if result.RowsAffected == 0 {
			return NotFoundError("post not found")
		}

		log.Debug().Uint("post", post.ID).Uint("account", actorID).Msg("Post deleted.")
		return nil
	})
}
