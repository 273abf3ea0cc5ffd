package supplier

import (
	"fmt"
	"strings"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SupplierRequest struct {
	Name             string         `json:"name" validate:"required,max=200"`
	TaxID            string         `json:"tax_id" validate:"max=20"`
	PaymentTermsDays int            `json:"payment_terms_days" validate:"gte=0,lte=365"`
	ContactInfo      map[string]any `json:"contact_info"`
	IsActive         *bool          `json:"is_active"`
}

func (r SupplierRequest) toSupplier(businessID uint) models.Supplier {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return models.Supplier{
		BusinessID:       businessID,
		Name:             r.Name,
		TaxID:            r.TaxID,
		PaymentTermsDays: r.PaymentTermsDays,
		ContactInfo:      r.ContactInfo,
		IsActive:         active,
	}
}

func parseSupplier(c *fiber.Ctx) (SupplierRequest, error) {
	var body SupplierRequest
	if err := httpx.BodyParse(c, &body); err != nil {
		return body, err
	}
	body.Name = strings.TrimSpace(body.Name)
	body.TaxID = strings.TrimSpace(body.TaxID)
	return body, validation.Struct(body)
}

// GET /api/suppliers?active=true
func ListSuppliersHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		list, err := up.ListSuppliers(c.UserContext(), businessID)
		if err != nil {
			return err
		}
		if c.QueryBool("active") {
			active := list[:0]
			for _, s := range list {
				if s.IsActive {
					active = append(active, s)
				}
			}
			list = active
		}
		SortByName(list)
		return c.JSON(list)
	}
}

// GET /api/suppliers/search?q=manav
func SearchSuppliersHandler(search *Search, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		list, err := search.Query(c.UserContext(), sess.ID, up, businessID, c.Query("q"))
		if err != nil {
			return err
		}
		return c.JSON(list)
	}
}

// GET /api/suppliers/:id
func GetSupplierHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, _, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		s, err := up.GetSupplier(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(s)
	}
}

// POST /api/suppliers
func CreateSupplierHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		body, err := parseSupplier(c)
		if err != nil {
			return err
		}

		created, err := up.CreateSupplier(c.UserContext(), body.toSupplier(businessID))
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Tedarikçi oluşturuldu: %s", created.Name),
			After:       created,
		})
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// PUT /api/suppliers/:id
func UpdateSupplierHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseSupplier(c)
		if err != nil {
			return err
		}

		before, err := up.GetSupplier(c.UserContext(), id)
		if err != nil {
			return err
		}

		in := body.toSupplier(businessID)
		in.ID = id
		updated, err := up.UpdateSupplier(c.UserContext(), id, in)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Tedarikçi güncellendi: %s", updated.Name),
			Before:      before,
			After:       updated,
		})
		return c.JSON(updated)
	}
}

// DELETE /api/suppliers/:id
func DeleteSupplierHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := up.DeleteSupplier(c.UserContext(), id); err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "supplier",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Tedarikçi silindi",
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
