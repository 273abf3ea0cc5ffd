package expense

import (
	"fmt"
	"strings"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/preference"
	"expense-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type SectionRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	OrderIndex int    `json:"order_index" validate:"gte=0"`
}

type CategoryRequest struct {
	SectionID     uint   `json:"section_id" validate:"required"`
	Name          string `json:"name" validate:"required,max=100"`
	DefaultUnitID *uint  `json:"default_unit_id"`
	OrderIndex    int    `json:"order_index" validate:"gte=0"`
}

// boardView kullanıcının "pasifleri göster" tercihine göre board'u süzer.
func boardView(c *fiber.Ctx, sess *auth.Session, b *Board) error {
	show, err := preference.ShowInactive(sess.UserID)
	if err != nil {
		return err
	}
	if q := c.Query("show_inactive"); q != "" {
		show = q == "true" || q == "1"
	}
	return c.JSON(b.View(show))
}

// GET /api/expense-board?reload=true
func BoardHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}

		var b *Board
		if c.QueryBool("reload") {
			b, err = svc.Reload(c.UserContext(), up, businessID, sess.UserID)
		} else {
			b, err = svc.Board(c.UserContext(), up, businessID, sess.UserID)
		}
		if err != nil {
			return err
		}
		return boardView(c, sess, b)
	}
}

// -------------------------
// Bölümler
// -------------------------

// GET /api/sections
func ListSectionsHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		sections, err := up.ListSections(c.UserContext(), businessID)
		if err != nil {
			return err
		}
		SortSections(sections)
		return c.JSON(sections)
	}
}

func parseSection(c *fiber.Ctx) (SectionRequest, error) {
	var body SectionRequest
	if err := httpx.BodyParse(c, &body); err != nil {
		return body, err
	}
	body.Name = strings.TrimSpace(body.Name)
	return body, validation.Struct(body)
}

// POST /api/sections
func CreateSectionHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		body, err := parseSection(c)
		if err != nil {
			return err
		}

		section, err := up.CreateSection(c.UserContext(), apiclient.SectionInput{
			BusinessID: businessID,
			Name:       body.Name,
			OrderIndex: body.OrderIndex,
		})
		if err != nil {
			return err
		}

		svc.Patch(businessID, func(b *Board) bool {
			b.UpsertSection(*section)
			return true
		})

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "section",
			EntityID:    section.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Bölüm oluşturuldu: %s", section.Name),
			After:       section,
		})

		return c.Status(fiber.StatusCreated).JSON(section)
	}
}

// PUT /api/sections/:id
func UpdateSectionHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseSection(c)
		if err != nil {
			return err
		}

		before := svc.sectionSnapshot(businessID, id)

		section, err := up.UpdateSection(c.UserContext(), id, apiclient.SectionInput{
			BusinessID: businessID,
			Name:       body.Name,
			OrderIndex: body.OrderIndex,
		})
		if err != nil {
			return err
		}

		svc.Patch(businessID, func(b *Board) bool {
			b.UpsertSection(*section)
			return true
		})

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "section",
			EntityID:    section.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Bölüm güncellendi: %s", section.Name),
			Before:      before,
			After:       section,
		})

		return c.JSON(section)
	}
}

// DELETE /api/sections/:id
func DeleteSectionHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		before := svc.sectionSnapshot(businessID, id)

		if err := up.DeleteSection(c.UserContext(), id); err != nil {
			return err
		}

		svc.Patch(businessID, func(b *Board) bool {
			b.RemoveSection(id)
			return true
		})

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "section",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Bölüm silindi",
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PATCH /api/sections/:id/activate ve /deactivate
func SetSectionActiveHandler(svc *Service, api *apiclient.Client, active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		before := svc.sectionSnapshot(businessID, id)

		b, err := svc.SetSectionActive(c.UserContext(), up, businessID, sess.UserID, id, active)
		if err != nil {
			return err
		}

		var after any
		if node, ok := b.Section(id); ok {
			after = node.Section
		}
		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "section",
			EntityID:    id,
			Action:      activeAction(active),
			Description: activeDescription("Bölüm", active),
			Before:      before,
			After:       after,
		})

		return boardView(c, sess, b)
	}
}

// -------------------------
// Kategoriler
// -------------------------

// GET /api/categories?section_id=3
func ListCategoriesHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		sectionID, err := httpx.QueryID(c, "section_id")
		if err != nil {
			return err
		}

		var cats []models.ExpenseCategory
		if sectionID != nil {
			cats, err = up.ListSectionCategories(c.UserContext(), *sectionID)
		} else {
			cats, err = up.ListCategories(c.UserContext(), businessID)
		}
		if err != nil {
			return err
		}
		SortCategories(cats)
		return c.JSON(cats)
	}
}

func parseCategory(c *fiber.Ctx) (CategoryRequest, error) {
	var body CategoryRequest
	if err := httpx.BodyParse(c, &body); err != nil {
		return body, err
	}
	body.Name = strings.TrimSpace(body.Name)
	return body, validation.Struct(body)
}

func (r CategoryRequest) input() apiclient.CategoryInput {
	return apiclient.CategoryInput{
		SectionID:     r.SectionID,
		Name:          r.Name,
		DefaultUnitID: r.DefaultUnitID,
		OrderIndex:    r.OrderIndex,
	}
}

// POST /api/categories
func CreateCategoryHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		body, err := parseCategory(c)
		if err != nil {
			return err
		}

		cat, err := up.CreateCategory(c.UserContext(), body.input())
		if err != nil {
			return err
		}

		svc.Patch(businessID, func(b *Board) bool {
			if !b.UpsertCategory(*cat) {
				return false
			}
			b.Normalize()
			return true
		})

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Kategori oluşturuldu: %s", cat.Name),
			After:       cat,
		})

		return c.Status(fiber.StatusCreated).JSON(cat)
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseCategory(c)
		if err != nil {
			return err
		}

		before := svc.categorySnapshot(businessID, id)

		cat, err := up.UpdateCategory(c.UserContext(), id, body.input())
		if err != nil {
			return err
		}

		svc.Patch(businessID, func(b *Board) bool {
			if !b.UpsertCategory(*cat) {
				return false
			}
			b.Normalize()
			return true
		})

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "category",
			EntityID:    cat.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Kategori güncellendi: %s", cat.Name),
			Before:      before,
			After:       cat,
		})

		return c.JSON(cat)
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler(svc *Service, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		before := svc.categorySnapshot(businessID, id)

		if err := up.DeleteCategory(c.UserContext(), id); err != nil {
			return err
		}

		svc.Patch(businessID, func(b *Board) bool {
			b.RemoveCategory(id)
			return true
		})

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "category",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: "Kategori silindi",
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PATCH /api/categories/:id/activate ve /deactivate
func SetCategoryActiveHandler(svc *Service, api *apiclient.Client, active bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		before := svc.categorySnapshot(businessID, id)

		b, err := svc.SetCategoryActive(c.UserContext(), up, businessID, sess.UserID, id, active)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "category",
			EntityID:    id,
			Action:      activeAction(active),
			Description: activeDescription("Kategori", active),
			Before:      before,
		})

		return boardView(c, sess, b)
	}
}

func activeAction(active bool) models.AuditAction {
	if active {
		return models.AuditActionActivate
	}
	return models.AuditActionDeactivate
}

func activeDescription(entity string, active bool) string {
	if active {
		return entity + " aktifleştirildi"
	}
	return entity + " pasifleştirildi"
}
