package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func signup(c *fiber.Ctx) error {
	var data struct {
		Fullname     string `json:"fullname" validate:"max=256"`
		Username     string `json:"username" validate:"max=64"`
		Email        string `json:"email" validate:"max=256"`
		Password     string `json:"password" validate:"max=72"`
		Confirmation string `json:"confirmation"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.RegisterAccount(data.Fullname, data.Username, data.Email, data.Password, data.Confirmation)
	if err != nil {
		return err
	}
	if err := exts.SetSessionCookie(c, account.ID); err != nil {
		return err
	}
	if err := services.CompleteAccountRelations(database.C, &account); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(account)
}

func login(c *fiber.Ctx) error {
	var data struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.AuthenticateAccount(data.Username, data.Password)
	if err != nil {
		return err
	}
	if err := exts.SetSessionCookie(c, account.ID); err != nil {
		return err
	}
	if err := services.CompleteAccountRelations(database.C, &account); err != nil {
		return err
	}

	return c.JSON(account)
}

func logout(c *fiber.Ctx) error {
	exts.ClearSessionCookie(c)
	return c.JSON(fiber.Map{
		"message": "logged out successfully",
	})
}

func getMe(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	if err := services.CompleteAccountRelations(database.C, &user); err != nil {
		return err
	}

	return c.JSON(user)
}
