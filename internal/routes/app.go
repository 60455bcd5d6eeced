package routes

import (
	"errors"

	"github.com/Udaymore741/Campus-Connect-sub000/config"
	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/controllers"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/middleware"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/realtime"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
)

// NewApp wires every route onto a fresh Fiber app. main and the route tests share it.
func NewApp(cfg config.Config, svc *services.QAService, registry *realtime.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "campus-connect",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Swagger
	app.Get("/docs/*", swagger.HandlerDefault)

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Use(middleware.JWTUidOnly(cfg.JWTSecret))

	qa := &controllers.QAHandler{Svc: svc, Timeout: cfg.RequestTimeout}
	SetupRoutesQuestion(app, qa)
	SetupRoutesCollege(app, qa)
	SetupRoutesAnswer(app, qa)
	SetupRoutesSocket(app, controllers.NewSocketHandler(registry, cfg.WSSendBuffer, cfg.WSPingInterval, cfg.WSPongWait))

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error()})
}
