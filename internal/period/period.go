package period

import (
	"fmt"
	"sort"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/inventory"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type PeriodRequest struct {
	Year  int `json:"year" validate:"required,gte=2000,lte=2100"`
	Month int `json:"month" validate:"required,gte=1,lte=12"`
}

// SortPeriods en yeni dönem başta olacak şekilde sıralar.
func SortPeriods(periods []models.MonthPeriod) {
	sort.SliceStable(periods, func(i, j int) bool {
		a, b := periods[i], periods[j]
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Month > b.Month
	})
}

// Current bugünün ayına denk gelen dönemi döner. O ay için dönem yoksa en
// son açık dönem kullanılır.
func Current(periods []models.MonthPeriod, today time.Time) (*models.MonthPeriod, bool) {
	var latestOpen *models.MonthPeriod
	for i := range periods {
		p := &periods[i]
		if p.Year == today.Year() && p.Month == int(today.Month()) {
			return p, true
		}
		if p.IsClosed {
			continue
		}
		if latestOpen == nil || p.Year > latestOpen.Year ||
			(p.Year == latestOpen.Year && p.Month > latestOpen.Month) {
			latestOpen = p
		}
	}
	return latestOpen, latestOpen != nil
}

// GET /api/periods
func ListPeriodsHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		periods, err := up.ListPeriods(c.UserContext(), businessID)
		if err != nil {
			return err
		}
		SortPeriods(periods)
		return c.JSON(periods)
	}
}

// GET /api/periods/current
func CurrentPeriodHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		periods, err := up.ListPeriods(c.UserContext(), businessID)
		if err != nil {
			return err
		}
		p, ok := Current(periods, time.Now())
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Açık dönem bulunamadı")
		}
		return c.JSON(p)
	}
}

// POST /api/periods
func CreatePeriodHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		var body PeriodRequest
		if err := httpx.BodyParse(c, &body); err != nil {
			return err
		}
		if err := validation.Struct(body); err != nil {
			return err
		}
		if err := inventory.ValidateMonth(body.Year, body.Month); err != nil {
			return err
		}

		created, err := up.CreatePeriod(c.UserContext(), apiclient.PeriodInput{
			BusinessID: businessID,
			Year:       body.Year,
			Month:      body.Month,
		})
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "period",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Dönem açıldı: %04d-%02d", created.Year, created.Month),
			After:       created,
		})
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// POST /api/periods/:id/close
func ClosePeriodHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		closed, err := up.ClosePeriod(c.UserContext(), id)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "period",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Dönem kapatıldı: %04d-%02d", closed.Year, closed.Month),
			After:       closed,
		})
		return c.JSON(closed)
	}
}
