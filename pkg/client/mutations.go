package client

import (
	"context"
	"fmt"
	"net/http"
)

type SignupRequest struct {
	Fullname     string `json:"fullname"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

type ProfileUpdate struct {
	Fullname        string `json:"fullname,omitempty"`
	Username        string `json:"username,omitempty"`
	Email           string `json:"email,omitempty"`
	Bio             string `json:"bio,omitempty"`
	Link            string `json:"link,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
	ProfileImg      string `json:"profile_img,omitempty"`
	CoverImg        string `json:"cover_img,omitempty"`
}

type LikeResult struct {
	Liked bool   `json:"liked"`
	Likes []uint `json:"likes"`
}

func (v *Client) Signup(ctx context.Context, req SignupRequest) (Account, error) {
	var out Account
	if err := v.do(ctx, http.MethodPost, "/auth/signup", req, &out); err != nil {
		return out, err
	}
	v.Cache.Clear()
	v.Cache.Set(KeyAuthUser, &out)
	return out, nil
}

func (v *Client) Login(ctx context.Context, username, password string) (Account, error) {
	var out Account
	body := map[string]string{"username": username, "password": password}
	if err := v.do(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return out, err
	}
	v.Cache.Clear()
	v.Cache.Set(KeyAuthUser, &out)
	return out, nil
}

func (v *Client) Logout(ctx context.Context) error {
	if err := v.do(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	v.Cache.Clear()
	return nil
}

func (v *Client) CreatePost(ctx context.Context, text, image string) (Post, error) {
	var out Post
	body := map[string]string{"text": text, "img": image}
	if err := v.do(ctx, http.MethodPost, "/posts/create", body, &out); err != nil {
		return out, err
	}
	v.Cache.Invalidate(KeyPosts)
	return out, nil
}

func (v *Client) DeletePost(ctx context.Context, id uint) error {
	if err := v.do(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil); err != nil {
		return err
	}
	v.Cache.Invalidate(KeyPosts, fmt.Sprintf("%s%d", KeyPost, id))
	return nil
}

// LikePost toggles the like, or sets it when state is given, and merges the
// new liker set into every cached copy of the post.
func (v *Client) LikePost(ctx context.Context, id uint, state ...bool) (LikeResult, error) {
	path := fmt.Sprintf("/posts/like/%d", id)
	if len(state) > 0 {
		path += fmt.Sprintf("?state=%t", state[0])
	}

	var out LikeResult
	if err := v.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return out, err
	}

	mergeLikes := func(post Post) Post {
		if post.ID == id {
			post.Likes = append([]uint{}, out.Likes...)
			post.TotalLikes = len(out.Likes)
		}
		return post
	}
	v.Cache.Update(KeyPosts, func(key string, value any) any {
		list, ok := value.(PostList)
		if !ok {
			return value
		}
		data := make([]Post, len(list.Data))
		for idx, post := range list.Data {
			data[idx] = mergeLikes(post)
		}
		list.Data = data
		return list
	})
	v.Cache.Update(fmt.Sprintf("%s%d", KeyPost, id), func(key string, value any) any {
		if post, ok := value.(Post); ok {
			return mergeLikes(post)
		}
		return value
	})
	// The liked posts list of the signed in account changed
	v.Cache.Invalidate(KeyAuthUser, KeyPosts+"likes/")

	return out, nil
}

func (v *Client) CommentPost(ctx context.Context, id uint, text string) (Comment, error) {
	var out Comment
	if err := v.do(ctx, http.MethodPost, fmt.Sprintf("/posts/comment/%d", id), map[string]string{"text": text}, &out); err != nil {
		return out, err
	}
	v.Cache.Invalidate(KeyPosts, fmt.Sprintf("%s%d", KeyPost, id))
	return out, nil
}

func (v *Client) ReplyComment(ctx context.Context, commentID uint, text string) (Comment, error) {
	var out Comment
	if err := v.do(ctx, http.MethodPost, fmt.Sprintf("/posts/reply/%d", commentID), map[string]string{"text": text}, &out); err != nil {
		return out, err
	}
	v.Cache.Invalidate(KeyPosts, fmt.Sprintf("%s%d", KeyPost, out.PostID))
	return out, nil
}

// Follow toggles following the account, or sets it when state is given,
// and reports whether it is followed afterwards.
func (v *Client) Follow(ctx context.Context, accountID uint, state ...bool) (bool, error) {
	path := fmt.Sprintf("/users/follow/%d", accountID)
	if len(state) > 0 {
		path += fmt.Sprintf("?state=%t", state[0])
	}

	var out struct {
		Following bool `json:"following"`
	}
	if err := v.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return false, err
	}
	v.Cache.Invalidate(KeySuggestedUsers, KeyAuthUser, KeyUserProfile, KeyPosts+"following")
	return out.Following, nil
}

func (v *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (Account, error) {
	var out Account
	if err := v.do(ctx, http.MethodPost, "/users/update", update, &out); err != nil {
		return out, err
	}
	v.Cache.Invalidate(KeyUserProfile, KeyPosts, KeyPost)
	v.Cache.Set(KeyAuthUser, &out)
	return out, nil
}

func (v *Client) DeleteNotifications(ctx context.Context) error {
	if err := v.do(ctx, http.MethodDelete, "/notifications", nil, nil); err != nil {
		return err
	}
	v.Cache.Invalidate(KeyNotifications)
	return nil
}

func (v *Client) DeleteNotification(ctx context.Context, id uint) error {
	if err := v.do(ctx, http.MethodDelete, fmt.Sprintf("/notifications/%d", id), nil, nil); err != nil {
		return err
	}
	v.Cache.Invalidate(KeyNotifications)
	return nil
}
