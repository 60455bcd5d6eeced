package controllers

import (
	"context"
	"errors"

	"github.com/Udaymore741/Campus-Connect-sub000/dto"
	"github.com/Udaymore741/Campus-Connect-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// fail maps service errors onto HTTP statuses.
func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrInvalid):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		status = fiber.StatusGatewayTimeout
	}
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
		msg = "internal server error"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg})
}

func paramID(c *fiber.Ctx, name string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(c.Params(name))
	return oid, err == nil
}
