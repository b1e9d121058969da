package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func renderFeed(c *fiber.Ctx, scope services.FeedScope) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	count, items, err := services.ListFeed(scope, take, offset)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listAllPosts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	return renderFeed(c, services.FeedScope{Kind: services.FeedScopeAll})
}

func listFollowingPosts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	return renderFeed(c, services.FeedScope{Kind: services.FeedScopeFollowing, AccountID: user.ID})
}

func listUserPosts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	return renderFeed(c, services.FeedScope{Kind: services.FeedScopeByUser, Username: c.Params("username")})
}

func listLikedPosts(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := paramID(c, "id", "user not found")
	if err != nil {
		return err
	}

	return renderFeed(c, services.FeedScope{Kind: services.FeedScopeLiked, AccountID: id})
}

func getPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, err := paramID(c, "postId", "post not found")
	if err != nil {
		return err
	}

	item, err := services.GetPost(database.C, id)
	if err != nil {
		return err
	}
	if item, err = services.CompleteSinglePostMeta(database.C, item); err != nil {
		return err
	}

	return c.JSON(item)
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	var data struct {
		Text  string `json:"text" validate:"max=4096"`
		Image string `json:"img"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewPost(user.ID, data.Text, data.Image)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	id, err := paramID(c, "postId", "post not found")
	if err != nil {
		return err
	}

	if err := services.DeletePost(user.ID, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "post deleted successfully",
	})
}

func likePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	id, err := paramID(c, "postId", "post not found")
	if err != nil {
		return err
	}
	state, err := queryState(c)
	if err != nil {
		return err
	}

	var liked bool
	var likes []uint
	if state != nil {
		liked = *state
		likes, err = services.SetPostLike(user.ID, id, liked)
	} else {
		liked, likes, err = services.TogglePostLike(user.ID, id)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"liked": liked,
		"likes": likes,
	})
}

func commentPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	id, err := paramID(c, "postId", "post not found")
	if err != nil {
		return err
	}

	var data struct {
		Text string `json:"text" validate:"max=2048"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewComment(user.ID, id, data.Text)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func replyComment(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	id, err := paramID(c, "commentId", "comment not found")
	if err != nil {
		return err
	}

	var data struct {
		Text string `json:"text" validate:"max=2048"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewReply(user.ID, id, data.Text)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}
