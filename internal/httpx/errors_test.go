package httpx

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"expense-backoffice/internal/apiclient"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorBody struct {
	Code      string            `json:"error_code"`
	Detail    string            `json:"detail"`
	Fields    map[string]string `json:"fields"`
	Retryable bool              `json:"retryable"`
}

func doGet(t *testing.T, app *fiber.App, path string) (int, errorBody) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body errorBody
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestErrorHandlerShapes(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/api-error", func(c *fiber.Ctx) error {
		return apiclient.NewValidationError("eksik", map[string]string{"name": "required"})
	})
	app.Get("/fiber-error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusForbidden, "yasak")
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return assert.AnError
	})
	app.Get("/upstream", func(c *fiber.Ctx) error {
		return &apiclient.APIError{Status: 502, Code: apiclient.CodeUpstreamUnavailable, Message: "x", Retryable: true}
	})

	status, body := doGet(t, app, "/api-error")
	assert.Equal(t, 422, status)
	assert.Equal(t, apiclient.CodeValidation, body.Code)
	assert.Equal(t, "required", body.Fields["name"])

	status, body = doGet(t, app, "/fiber-error")
	assert.Equal(t, 403, status)
	assert.Equal(t, apiclient.CodeInsufficientPerms, body.Code)
	assert.Equal(t, "yasak", body.Detail)

	status, body = doGet(t, app, "/plain")
	assert.Equal(t, 500, status)
	assert.Equal(t, apiclient.CodeUnknown, body.Code)

	status, body = doGet(t, app, "/upstream")
	assert.Equal(t, 502, status)
	assert.True(t, body.Retryable)

	// route yok
	status, body = doGet(t, app, "/nope")
	assert.Equal(t, 404, status)
	assert.Equal(t, apiclient.CodeNotFound, body.Code)
}

func TestParams(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return err
		}
		y, m, err := YearMonth(c, now)
		if err != nil {
			return err
		}
		sup, err := QueryID(c, "supplier_id")
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id, "year": y, "month": m, "supplier": sup})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/items/4?month=2&supplier_id=9", nil))
	require.NoError(t, err)
	var out struct {
		ID       uint  `json:"id"`
		Year     int   `json:"year"`
		Month    int   `json:"month"`
		Supplier *uint `json:"supplier"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, uint(4), out.ID)
	assert.Equal(t, 2025, out.Year)
	assert.Equal(t, 2, out.Month)
	require.NotNil(t, out.Supplier)
	assert.Equal(t, uint(9), *out.Supplier)

	status, _ := doGet(t, app, "/items/abc")
	assert.Equal(t, 400, status)
	status, _ = doGet(t, app, "/items/1?month=13")
	assert.Equal(t, 400, status)
	status, _ = doGet(t, app, "/items/1?supplier_id=-1")
	assert.Equal(t, 400, status)
}

func TestRequestLoggerSetsRequestID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusConflict, "çakışma") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	req := httptest.NewRequest("GET", "/fail", nil)
	req.Header.Set("X-Request-ID", "req-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 409, resp.StatusCode)
	assert.Equal(t, "req-1", resp.Header.Get("X-Request-ID"))
}
