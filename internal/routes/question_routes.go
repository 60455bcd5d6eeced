package routes

import (
	"github.com/Udaymore741/Campus-Connect-sub000/internal/controllers"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesQuestion(app *fiber.App, h *controllers.QAHandler) {
	q := app.Group("/questions")

	q.Get("/:id", h.GetQuestion)
	q.Post("/", middleware.RequireAuth(), h.CreateQuestion)
	q.Put("/:id", middleware.RequireAuth(), h.UpdateQuestion)
	q.Delete("/:id", middleware.RequireAuth(), h.DeleteQuestion)
	q.Post("/:id/like", middleware.RequireAuth(), h.ToggleQuestionLike)
}

func SetupRoutesCollege(app *fiber.App, h *controllers.QAHandler) {
	college := app.Group("/colleges")
	college.Get("/:collegeId/questions", h.ListCollegeQuestions)
}
