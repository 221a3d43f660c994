package response

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(t *testing.T, h fiber.Handler) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", h)
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestErrorWithCode(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return ErrorWithCode(c, fiber.StatusUnprocessableEntity, "overpayment", "too much", fiber.Map{"remaining": "100.00"})
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "overpayment", body["code"])
	assert.Equal(t, "too much", body["error"])
	assert.Equal(t, map[string]any{"remaining": "100.00"}, body["data"])
}

func TestPlainErrorOmitsCode(t *testing.T) {
	status, body := call(t, func(c *fiber.Ctx) error {
		return BadRequest(c, "Invalid request body")
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.NotContains(t, body, "code")
	assert.NotContains(t, body, "data")
}
