package middleware

import (
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// UIDObjectID ดึง user_id จาก Locals แล้วแปลงเป็น bson.ObjectID
func UIDObjectID(c *fiber.Ctx) (bson.ObjectID, error) {
	uid, ok := c.Locals("user_id").(string)
	if !ok || uid == "" {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}

	oid, err := bson.ObjectIDFromHex(uid)
	if err != nil {
		return bson.NilObjectID, fiber.ErrUnauthorized
	}
	return oid, nil
}

// RequireAuth rejects anonymous requests on mutation routes.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := UIDObjectID(c); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "login required")
		}
		return c.Next()
	}
}
