package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const (
	KeyAuthUser       = "authUser"
	KeyPosts          = "posts/"
	KeyPost           = "post/"
	KeyUserProfile    = "userProfile/"
	KeySuggestedUsers = "suggestedUsers"
	KeyNotifications  = "notifications"
)

type PostList struct {
	Count int64         `json:"count"`
	Data  []Post `json:"data"`
}

type AccountList struct {
	Count int              `json:"count"`
	Data  []Account `json:"data"`
}

type NotificationList struct {
	Count int                   `json:"count"`
	Data  []Notification `json:"data"`
}

// FeedScope names one of the post feeds.
type FeedScope string

func FeedAll() FeedScope { return "all" }
func FeedFollowing() FeedScope { return "following" }
func FeedByUser(username string) FeedScope { return FeedScope("user/" + username) }
func FeedLiked(accountID uint) FeedScope { return FeedScope(fmt.Sprintf("likes/%d", accountID)) }

// Me returns the signed in account, nil when there is no valid session.
func (v *Client) Me(ctx context.Context) (*Account, error) {
	account, err := query[*Account](ctx, v, KeyAuthUser, "/auth/me")
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return nil, nil
	}
	return account, err
}

func (v *Client) Posts(ctx context.Context, scope FeedScope) (PostList, error) {
	return query[PostList](ctx, v, KeyPosts+string(scope), "/posts/"+string(scope))
}

func (v *Client) Post(ctx context.Context, id uint) (Post, error) {
	return query[Post](ctx, v, fmt.Sprintf("%s%d", KeyPost, id), fmt.Sprintf("/posts/%d", id))
}

func (v *Client) Profile(ctx context.Context, username string) (Account, error) {
	return query[Account](ctx, v, KeyUserProfile+username, "/users/"+username)
}

func (v *Client) Followers(ctx context.Context, username string) (AccountList, error) {
	return query[AccountList](ctx, v, KeyUserProfile+username+"/followers", "/users/"+username+"/followers")
}

func (v *Client) Following(ctx context.Context, username string) (AccountList, error) {
	return query[AccountList](ctx, v, KeyUserProfile+username+"/following", "/users/"+username+"/following")
}

func (v *Client) Suggested(ctx context.Context) ([]Account, error) {
	return query[[]Account](ctx, v, KeySuggestedUsers, "/users/suggested")
}

// Notifications always reaches the server, reading them marks them read.
func (v *Client) Notifications(ctx context.Context) (NotificationList, error) {
	var out NotificationList
	if err := v.do(ctx, http.MethodGet, "/notifications", nil, &out); err != nil {
		return out, err
	}
	v.Cache.Set(KeyNotifications, out)
	return out, nil
}
