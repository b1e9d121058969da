package api

import (
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/circle/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	items, err := services.ListNotifications(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func countNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	count, err := services.CountUnreadNotifications(database.C, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

func deleteAllNotifications(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	count, err := services.DeleteAllNotifications(user.ID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"count": count,
	})
}

func deleteNotification(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user, _ := exts.CurrentUser(c)

	id, err := paramID(c, "id", "notification not found")
	if err != nil {
		return err
	}

	if err := services.DeleteNotification(user.ID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
