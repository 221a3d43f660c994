package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shopserve/internal/config"
	"shopserve/internal/core/domain"
	"shopserve/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthApp() *fiber.App {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	app := fiber.New()
	ok := func(c *fiber.Ctx) error {
		actor, found := ActorFromCtx(c)
		if !found {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"id": actor.ID, "role": actor.Role})
	}
	app.Get("/api/v1/queue", AuthMiddleware(cfg), ok)
	app.Get("/ws/ledger", AuthMiddleware(cfg), ok)
	return app
}

func cashierToken(t *testing.T) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken(7, "cashier", string(domain.RoleCashier), testSecret, 5)
	require.NoError(t, err)
	return tok
}

func status(t *testing.T, app *fiber.App, req *http.Request) int {
	t.Helper()
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthMiddleware_BearerHeader(t *testing.T) {
	app := newAuthApp()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil)
	req.Header.Set("Authorization", "Bearer "+cashierToken(t))
	assert.Equal(t, fiber.StatusOK, status(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/api/v1/queue", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, req))
}

func TestAuthMiddleware_QueryTokenOnlyOnWebSocketUpgrade(t *testing.T) {
	app := newAuthApp()
	tok := cashierToken(t)

	// REST routes never read the token from the URL
	req := httptest.NewRequest(http.MethodGet, "/api/v1/queue?token="+tok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, req))

	// a plain GET on a ws path is not an upgrade either
	req = httptest.NewRequest(http.MethodGet, "/ws/ledger?token="+tok, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, req))

	req = httptest.NewRequest(http.MethodGet, "/ws/ledger?token="+tok, nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Sec-WebSocket-Version", "13")
	req.Header.Set("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	assert.Equal(t, fiber.StatusOK, status(t, app, req))
}
