package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"foodgram-backend/domain"
	"foodgram-backend/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/", handler, func(c *fiber.Ctx) error {
		v := Viewer(c)
		if !v.IsAuthenticated {
			return c.SendString("anonymous")
		}
		return c.SendString(v.ID.String())
	})
	return app
}

func get(t *testing.T, app *fiber.App, authorization string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestOptionalAuth(t *testing.T) {
	svc := jwt.NewJWTService("secret")
	app := newApp(NewMiddleware().OptionalAuthMiddleware(svc))
	id := uuid.New()
	token, err := svc.GenerateTokenUser(id.String(), domain.RoleUser)
	require.NoError(t, err)

	code, body := get(t, app, "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "anonymous", body)

	for _, scheme := range []string{"Bearer ", "Token "} {
		code, body = get(t, app, scheme+token)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, id.String(), body)
	}

	code, _ = get(t, app, "Token not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestAuthRequiresToken(t *testing.T) {
	svc := jwt.NewJWTService("secret")
	app := newApp(NewMiddleware().AuthMiddleware(svc))

	code, _ := get(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, code)

	other, err := jwt.NewJWTService("other-secret").GenerateTokenUser(uuid.NewString(), domain.RoleUser)
	require.NoError(t, err)
	code, _ = get(t, app, "Bearer "+other)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}
