package inventory

import (
	"bytes"
	"fmt"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"

	"github.com/gofiber/fiber/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GET /api/inventory/summary?year=2025&month=3
func SummaryHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		year, month, err := httpx.YearMonth(c, time.Now())
		if err != nil {
			return err
		}

		p, err := Load(c.UserContext(), up, businessID, year, month)
		if err != nil {
			return err
		}
		return c.JSON(p)
	}
}

// GET /api/inventory/summary/export?year=2025&month=3
func ExportHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		year, month, err := httpx.YearMonth(c, time.Now())
		if err != nil {
			return err
		}

		p, err := Load(c.UserContext(), up, businessID, year, month)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		if err := WriteXLSX(p, &buf); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}

		c.Set(fiber.HeaderContentType, xlsxContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", ExportFileName(p)))
		return c.Send(buf.Bytes())
	}
}
