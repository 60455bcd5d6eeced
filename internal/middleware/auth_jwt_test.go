package middleware

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Use(JWTUidOnly(secret))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		uid, err := UIDObjectID(c)
		if err != nil {
			return c.SendString("anonymous")
		}
		return c.SendString(uid.Hex())
	})
	app.Post("/private", RequireAuth(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	return app
}

func body(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestJWTUidOnly(t *testing.T) {
	app := newApp()
	uid := bson.NewObjectID()
	token, err := SignUID(secret, uid.Hex())
	require.NoError(t, err)

	code, got := body(t, app, "/whoami", token)
	assert.Equal(t, 200, code)
	assert.Equal(t, uid.Hex(), got)

	code, got = body(t, app, "/whoami?token="+token, "")
	assert.Equal(t, 200, code)
	assert.Equal(t, uid.Hex(), got)

	_, got = body(t, app, "/whoami", "")
	assert.Equal(t, "anonymous", got)

	code, _ = body(t, app, "/whoami", "garbage")
	assert.Equal(t, 401, code)
}

func TestJWTUidOnly_FallsBackToSubject(t *testing.T) {
	uid := bson.NewObjectID()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: uid.Hex()}).
		SignedString([]byte(secret))
	require.NoError(t, err)

	got, err := ParseUID(secret, token)
	require.NoError(t, err)
	assert.Equal(t, uid.Hex(), got)

	_, err = ParseUID("other-secret", token)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	app := newApp()

	resp, err := app.Test(httptest.NewRequest("POST", "/private", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	token, _ := SignUID(secret, bson.NewObjectID().Hex())
	req := httptest.NewRequest("POST", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
