package client

import "git.solsynth.dev/hypernet/circle/pkg/internal/models"

// Wire types returned by the API. They alias the server models so callers
// outside this module can name them.
type (
	Account        = models.Account
	AccountDisplay = models.AccountDisplay
	Post           = models.Post
	Comment        = models.Comment
	Notification   = models.Notification
)

const (
	NotificationTypeFollow  = models.NotificationTypeFollow
	NotificationTypeLike    = models.NotificationTypeLike
	NotificationTypeComment = models.NotificationTypeComment
)
