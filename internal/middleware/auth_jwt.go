package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

type MyClaims struct {
	UID string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// JWTUidOnly stores the token's uid in Locals("user_id") when a bearer token is
// present. Requests without a token pass through anonymously; a bad token is 401.
// Websocket upgrades may carry the token as ?token= since browsers cannot set headers there.
func JWTUidOnly(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := ""
		auth := c.Get(fiber.HeaderAuthorization)
		switch {
		case len(auth) > 7 && strings.EqualFold(auth[:7], "bearer "):
			tokenStr = strings.TrimSpace(auth[7:])
		case c.Query("token") != "":
			tokenStr = c.Query("token")
		default:
			return c.Next()
		}

		uid, err := ParseUID(secret, tokenStr)
		if err != nil {
			return err
		}
		c.Locals("user_id", uid)
		return c.Next()
	}
}

// ParseUID validates an HS256 token and returns its uid (falling back to sub).
func ParseUID(secret, tokenStr string) (string, error) {
	var claims MyClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return "", fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}

	uid := claims.UID
	if uid == "" {
		uid = claims.Subject
	}
	if uid == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "missing uid")
	}
	return uid, nil
}

// SignUID mints a token for uid. Used by tests and the watch CLI; real tokens
// come from the auth service.
func SignUID(secret, uid string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, MyClaims{UID: uid}).SignedString([]byte(secret))
}
