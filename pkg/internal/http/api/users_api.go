package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getUserProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	account, err := services.GetAccountByName(database.C, c.Params("username"))
	if err != nil {
		return err
	}
	if err := services.CompleteAccountRelations(database.C, &account); err != nil {
		return err
	}

	if account.ID != user.ID {
		account = services.PublicAccount(account)
	}
	return c.JSON(account)
}

func listUserFollowers(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	account, err := services.GetAccountByName(database.C, c.Params("username"))
	if err != nil {
		return err
	}
	items, err := services.ListFollowers(database.C, account.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func listUserFollowing(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	account, err := services.GetAccountByName(database.C, c.Params("username"))
	if err != nil {
		return err
	}
	items, err := services.ListFollowing(database.C, account.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func listSuggestedUsers(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	items, err := services.ListSuggestedAccounts(database.C, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(items)
}

func followUser(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	id, err := paramID(c, "id", "user not found")
	if err != nil {
		return err
	}
	state, err := queryState(c)
	if err != nil {
		return err
	}

	var following bool
	if state != nil {
		following = *state
		err = services.SetFollowing(user.ID, id, following)
	} else {
		following, err = services.ToggleFollowing(user.ID, id)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"following": following,
	})
}

func updateUser(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	var data struct {
		Fullname        string `json:"fullname" validate:"max=256"`
		Username        string `json:"username" validate:"max=64"`
		Email           string `json:"email" validate:"max=256"`
		Bio             string `json:"bio" validate:"max=1024"`
		Link            string `json:"link" validate:"max=512"`
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password" validate:"max=72"`
		ProfileImg      string `json:"profile_img"`
		CoverImg        string `json:"cover_img"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.UpdateAccount(user, services.AccountUpdate{
		Fullname:        data.Fullname,
		Username:        data.Username,
		Email:           data.Email,
		Bio:             data.Bio,
		Link:            data.Link,
		CurrentPassword: data.CurrentPassword,
		NewPassword:     data.NewPassword,
		ProfileImg:      data.ProfileImg,
		CoverImg:        data.CoverImg,
	})
	if err != nil {
		return err
	}
	if err := services.CompleteAccountRelations(database.C, &account); err != nil {
		return err
	}

	return c.JSON(account)
}
