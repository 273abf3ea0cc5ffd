package permission

import (
	"fmt"
	"strings"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CatalogEntry struct {
	Name             string   `json:"name"`
	Required         []string `json:"required_permissions"`
	Dependent        []string `json:"dependent_permissions"`
	AffectedFeatures []string `json:"affected_features"`
}

// GET /api/permissions
func CatalogHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := make([]CatalogEntry, 0, len(table))
		for _, name := range All() {
			out = append(out, CatalogEntry{
				Name:             name,
				Required:         RequiredPermissions(name),
				Dependent:        DependentPermissions(name),
				AffectedFeatures: AffectedFeatures(name),
			})
		}
		return c.JSON(out)
	}
}

// GET /api/permissions/advisory?permission=view_invoices&grant=false&employee_id=3
// employee_id verilirse çalışanın mevcut yetkileri upstream'den okunur.
func AdvisoryHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := strings.TrimSpace(c.Query("permission"))
		if p == "" {
			return fiber.NewError(fiber.StatusBadRequest, "permission zorunlu")
		}
		granting := c.QueryBool("grant", false)

		employeeID, err := httpx.QueryID(c, "employee_id")
		if err != nil {
			return err
		}
		current := []string{}
		if employeeID != nil {
			up, _, businessID, err := auth.Client(c, api)
			if err != nil {
				return err
			}
			perms, err := up.GetEmployeePermissions(c.UserContext(), businessID, *employeeID)
			if err != nil {
				return err
			}
			current = perms.Permissions
		}
		return c.JSON(Advise(p, granting, current))
	}
}

// GET /api/permissions/employees/:id
func GetEmployeeHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		perms, err := up.GetEmployeePermissions(c.UserContext(), businessID, id)
		if err != nil {
			return err
		}
		return c.JSON(perms)
	}
}

// POST /api/permissions/employees/:id
// Body: {"grant": ["view_invoices"], "revoke": ["edit_inventory"]}
func ApplyHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		var body Change
		if err := httpx.BodyParse(c, &body); err != nil {
			return err
		}
		ch, err := body.Normalize()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(ch.Grant) == 0 && len(ch.Revoke) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir değişiklik gerekli")
		}

		before, err := up.GetEmployeePermissions(c.UserContext(), businessID, id)
		if err != nil {
			return err
		}
		if err := Apply(c.UserContext(), up, businessID, id, ch); err != nil {
			return err
		}
		after, err := up.GetEmployeePermissions(c.UserContext(), businessID, id)
		if err != nil {
			return err
		}

		if len(ch.Grant) > 0 {
			audit.Record(sess, businessID, audit.LogOptions{
				EntityType:  "employee_permissions",
				EntityID:    id,
				Action:      models.AuditActionGrant,
				Description: fmt.Sprintf("Yetki verildi: %s", strings.Join(ch.Grant, ", ")),
				Before:      before,
				After:       after,
			})
		}
		if len(ch.Revoke) > 0 {
			audit.Record(sess, businessID, audit.LogOptions{
				EntityType:  "employee_permissions",
				EntityID:    id,
				Action:      models.AuditActionRevoke,
				Description: fmt.Sprintf("Yetki geri alındı: %s", strings.Join(ch.Revoke, ", ")),
				Before:      before,
				After:       after,
			})
		}
		return c.JSON(after)
	}
}
