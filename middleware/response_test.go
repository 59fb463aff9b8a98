package middleware

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"courseledger/apperrors"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestErrorHandlerMapsTaxonomy(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.NewNop())})
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NotFound("Course", "C1") })
	app.Get("/rule", func(c *fiber.Ctx) error { return apperrors.Business("course full") })
	app.Get("/down", func(c *fiber.Ctx) error { return apperrors.Unavailable("catalog", errors.New("refused")) })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path    string
		status  int
		message string
	}{
		{"/missing", 404, "Course not found with id: C1"},
		{"/rule", 400, "course full"},
		{"/down", 500, "Service unavailable: catalog: refused"},
		{"/boom", 500, "Server error: boom"},
		{"/nowhere", 404, "Cannot GET /nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.message, body["message"])
			assert.Nil(t, body["data"])
		})
	}
}
