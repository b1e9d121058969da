package api

import (
	"github.com/gofiber/fiber/v2"
)

func MapControllers(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/signup", signup)
			auth.Post("/login", login)
			auth.Post("/logout", logout)
			auth.Get("/me", getMe)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/all", listAllPosts)
			posts.Get("/following", listFollowingPosts)
			posts.Get("/user/:username", listUserPosts)
			posts.Get("/likes/:id", listLikedPosts)
			posts.Post("/create", createPost)
			posts.Post("/like/:postId", likePost)
			posts.Post("/comment/:postId", commentPost)
			posts.Post("/reply/:commentId", replyComment)
			posts.Get("/:postId", getPost)
			posts.Delete("/:postId", deletePost)
		}

		users := api.Group("/users").Name("Users API")
		{
			users.Get("/suggested", listSuggestedUsers)
			users.Post("/follow/:id", followUser)
			users.Post("/update", updateUser)
			users.Get("/:username", getUserProfile)
			users.Get("/:username/followers", listUserFollowers)
			users.Get("/:username/following", listUserFollowing)
		}

		notifications := api.Group("/notifications").Name("Notifications API")
		{
			notifications.Get("/", listNotifications)
			notifications.Get("/count", countNotifications)
			notifications.Delete("/", deleteAllNotifications)
			notifications.Delete("/:id", deleteNotification)
		}
	}
}
