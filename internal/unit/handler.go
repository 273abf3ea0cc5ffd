package unit

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
	"github.com/shopspring/decimal"
)

type UnitRequest struct {
	Name             string           `json:"name" validate:"required,max=50"`
	Symbol           string           `json:"symbol" validate:"required,max=10"`
	UnitType         models.UnitType  `json:"unit_type" validate:"required,oneof=weight volume count"`
	BaseUnitID       *uint            `json:"base_unit_id"`
	ConversionFactor *decimal.Decimal `json:"conversion_factor"`
}

type ConvertResponse struct {
	From     uint            `json:"from"`
	To       uint            `json:"to"`
	Quantity decimal.Decimal `json:"quantity"`
	Result   decimal.Decimal `json:"result"`
}

// checkBase türetilmiş birimin base birimini katalogla doğrular.
func (r UnitRequest) checkBase(cat *Catalog, selfID uint) error {
	if r.BaseUnitID == nil {
		return nil
	}
	fields := map[string]string{}
	if r.ConversionFactor == nil || !r.ConversionFactor.IsPositive() {
		fields["conversion_factor"] = "gt"
	}
	base, ok := cat.Unit(*r.BaseUnitID)
	switch {
	case !ok || *r.BaseUnitID == selfID:
		fields["base_unit_id"] = "exists"
	case base.BaseUnitID != nil:
		fields["base_unit_id"] = "base"
	case base.UnitType != r.UnitType:
		fields["unit_type"] = "eqfield"
	}
	if len(fields) > 0 {
		return apiclient.NewValidationError("Base birim bilgilerini kontrol edin", fields)
	}
	return nil
}

func (r UnitRequest) toUnit(businessID uint) models.Unit {
	u := models.Unit{
		BusinessID: businessID,
		Name:       r.Name,
		Symbol:     r.Symbol,
		UnitType:   r.UnitType,
		BaseUnitID: r.BaseUnitID,
	}
	if r.BaseUnitID != nil {
		u.ConversionFactor = r.ConversionFactor
	}
	return u
}

func parseUnit(c *fiber.Ctx) (UnitRequest, error) {
	var body UnitRequest
	if err := httpx.BodyParse(c, &body); err != nil {
		return body, err
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Symbol = strings.TrimSpace(body.Symbol)
	return body, validation.Struct(body)
}

// GET /api/units
func ListUnitsHandler(store *Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		units, err := store.List(c.UserContext(), up, businessID, sess.UserID)
		if err != nil {
			return err
		}
		return c.JSON(units)
	}
}

// GET /api/units/:id/compatible
func CompatibleUnitsHandler(store *Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		cat, err := store.Catalog(c.UserContext(), up, businessID, sess.UserID)
		if err != nil {
			return err
		}
		units, err := cat.Compatible(id)
		if err != nil {
			return err
		}
		return c.JSON(units)
	}
}

// GET /api/units/convert?from=2&to=1&quantity=1.5
func ConvertHandler(store *Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		from, err := httpx.QueryID(c, "from")
		if err != nil {
			return err
		}
		to, err := httpx.QueryID(c, "to")
		if err != nil {
			return err
		}
		if from == nil || to == nil {
			return fiber.NewError(fiber.StatusBadRequest, "from ve to zorunlu")
		}
		qty, err := decimal.NewFromString(c.Query("quantity", "1"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "quantity geçersiz")
		}

		cat, err := store.Catalog(c.UserContext(), up, businessID, sess.UserID)
		if err != nil {
			return err
		}
		result, err := cat.Convert(qty, *from, *to)
		if err != nil {
			return err
		}
		return c.JSON(ConvertResponse{From: *from, To: *to, Quantity: qty, Result: result})
	}
}

// POST /api/units
func CreateUnitHandler(store *Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		body, err := parseUnit(c)
		if err != nil {
			return err
		}
		cat, err := store.Catalog(c.UserContext(), up, businessID, sess.UserID)
		if err != nil {
			return err
		}
		if err := body.checkBase(cat, 0); err != nil {
			return err
		}

		created, err := up.CreateUnit(c.UserContext(), body.toUnit(businessID))
		if err != nil {
			return err
		}
		store.Invalidate(c.UserContext(), businessID)

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "unit",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Birim oluşturuldu: %s", created.Symbol),
			After:       created,
		})
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// PUT /api/units/:id
func UpdateUnitHandler(store *Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseUnit(c)
		if err != nil {
			return err
		}
		cat, err := store.Catalog(c.UserContext(), up, businessID, sess.UserID)
		if err != nil {
			return err
		}
		if err := body.checkBase(cat, id); err != nil {
			return err
		}

		var before any
		if u, ok := cat.Unit(id); ok {
			before = u
		}

		in := body.toUnit(businessID)
		in.ID = id
		updated, err := up.UpdateUnit(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		store.Invalidate(c.UserContext(), businessID)

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "unit",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Birim güncellendi: %s", updated.Symbol),
			Before:      before,
			After:       updated,
		})
		return c.JSON(updated)
	}
}

// DELETE /api/units/:id
func DeleteUnitHandler(store *Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		if err := up.DeleteUnit(c.UserContext(), id); err != nil {
			return err
		}
		store.Invalidate(c.UserContext(), businessID)

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "unit",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Birim silindi",
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}
