package routes

import (
	"github.com/Udaymore741/Campus-Connect-sub000/internal/controllers"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesAnswer(app *fiber.App, h *controllers.QAHandler) {
	a := app.Group("/answers")

	a.Get("/:id", h.GetAnswer)
	a.Post("/", middleware.RequireAuth(), h.CreateAnswer)
	a.Put("/:id", middleware.RequireAuth(), h.UpdateAnswer)
	a.Delete("/:id", middleware.RequireAuth(), h.DeleteAnswer)
	a.Post("/:id/like", middleware.RequireAuth(), h.ToggleAnswerLike)
	a.Post("/:id/accept", middleware.RequireAuth(), h.AcceptAnswer)
	a.Post("/:id/comments", middleware.RequireAuth(), h.AddComment)
}
