package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"gorm.io/gorm"
)

func NewComment(actorID, postID uint, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)

	var comment models.Comment
	if len(text) == 0 {
		return comment, ValidationError("text field is required")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		post, err := GetPost(tx, postID)
		if err != nil {
			return err
		}

		comment = models.Comment{
			Text:      text,
			PostID:    post.ID,
			AccountID: actorID,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("unable to create comment: %v", err)
		}

		comment.User = LoadAccountDisplay(tx, actorID)
		comment.Replies = make([]models.Comment, 0)

		return NotifyAccount(tx, actorID, post.AccountID, models.NotificationTypeComment, &post.ID, map[string]any{
			"comment": comment.ID,
		})
	})

	return comment, err
}

// NewReply answers an existing comment. Replies belong to the same post as
// their parent and are not notified.
func NewReply(actorID, commentID uint, text string) (models.Comment, error) {
	text = strings.TrimSpace(text)

	var reply models.Comment
	if len(text) == 0 {
		return reply, ValidationError("text field is required")
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		var parent models.Comment
		if err := tx.Where("id = ?", commentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFoundError("comment not found")
			}
			return fmt.Errorf("unable to get comment: %v", err)
		}

		reply = models.Comment{
			Text:      text,
			PostID:    parent.PostID,
			ParentID:  &parent.ID,
			AccountID: actorID,
		}
		if err := tx.Create(&reply).Error; err != nil {
			return fmt.Errorf("unable to create reply: %v", err)
		}

		reply.User = LoadAccountDisplay(tx, actorID)
		reply.Replies = make([]models.Comment, 0)
		return nil
	})

	return reply, err
}

// BuildCommentTree nests the flat comments of one post. The input must be
// in insertion order, which is kept for every level of the tree.
func BuildCommentTree(comments []models.Comment) []models.Comment {
	children := make(map[uint][]models.Comment)
	roots := make([]models.Comment, 0)
	for _, comment := range comments {
		if comment.ParentID == nil {
			roots = append(roots, comment)
		} else {
			children[*comment.ParentID] = append(children[*comment.ParentID], comment)
		}
	}

	var attach func(items []models.Comment) []models.Comment
	attach = func(items []models.Comment) []models.Comment {
		for idx := range items {
			items[idx].Replies = attach(children[items[idx].ID])
		}
		if items == nil {
			return make([]models.Comment, 0)
		}
		return items
	}

	return attach(roots)
}
