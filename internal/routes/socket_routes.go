package routes

import (
	"github.com/Udaymore741/Campus-Connect-sub000/internal/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesSocket(app *fiber.App, h *controllers.SocketHandler) {
	app.Get("/ws", h.Upgrade, h.Serve())
}
