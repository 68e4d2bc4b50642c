package utils

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name string `json:"name" validate:"required"`
	Kind string `json:"kind" validate:"omitempty,oneof=Bike Car"`
}

func runParse(t *testing.T, body string) (int, string) {
	t.Helper()

	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		var req sampleRequest
		if err := ParseBody(c, &req); err != nil {
			return err
		}
		return c.SendString(req.Name)
	})

	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(data)
}

func TestParseBody(t *testing.T) {
	status, body := runParse(t, `{"name":"Asha","kind":"Car"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Asha", body)
}

func TestParseBodyMissingField(t *testing.T) {
	status, body := runParse(t, `{"kind":"Car"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "name is required", body)
}

func TestParseBodyOneOf(t *testing.T) {
	status, body := runParse(t, `{"name":"Asha","kind":"Boat"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "kind must be one of: Bike Car", body)
}

func TestParseBodyMalformed(t *testing.T) {
	status, _ := runParse(t, `{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestParsePagination(t *testing.T) {
	app := fiber.New()
	var got Pagination
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParsePagination(c)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Zero(t, got.Limit)

	_, err = app.Test(httptest.NewRequest("GET", "/?page=3&limit=10", nil))
	require.NoError(t, err)
	assert.Equal(t, 10, got.Limit)
	assert.Equal(t, 20, got.Offset)

	_, err = app.Test(httptest.NewRequest("GET", "/?limit=-5", nil))
	require.NoError(t, err)
	assert.Equal(t, 20, got.Limit)
	assert.Equal(t, 1, got.Page)
}
