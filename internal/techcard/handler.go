package techcard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/unit"
	"expense-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IngredientRequest struct {
	CategoryID uint            `json:"category_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitID     uint            `json:"unit_id" validate:"required"`
}

type TechCardRequest struct {
	Name         string              `json:"name" validate:"required,max=200"`
	SellingPrice decimal.Decimal     `json:"selling_price" validate:"gte=0"`
	Ingredients  []IngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
}

func (r TechCardRequest) toCard(businessID uint) models.TechCard {
	card := models.TechCard{
		BusinessID:     businessID,
		Name:           r.Name,
		SellingPrice:   r.SellingPrice,
		ApprovalStatus: models.ApprovalDraft,
		Ingredients:    make([]models.TechCardIngredient, 0, len(r.Ingredients)),
	}
	for _, ing := range r.Ingredients {
		card.Ingredients = append(card.Ingredients, models.TechCardIngredient{
			CategoryID: ing.CategoryID,
			Quantity:   ing.Quantity,
			UnitID:     ing.UnitID,
		})
	}
	return card
}

func parseCard(c *fiber.Ctx) (TechCardRequest, error) {
	var body TechCardRequest
	if err := httpx.BodyParse(c, &body); err != nil {
		return body, err
	}
	body.Name = strings.TrimSpace(body.Name)
	return body, validation.Struct(body)
}

// CardView kart ve seçili ayın fiyatlarıyla hesaplanan maliyeti.
type CardView struct {
	models.TechCard
	Costing Costing `json:"costing"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
}

// GET /api/tech-cards?year=2025&month=3
func ListTechCardsHandler(store *unit.Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		year, month, err := httpx.YearMonth(c, time.Now())
		if err != nil {
			return err
		}

		cards, err := up.ListTechCards(c.UserContext(), businessID)
		if err != nil {
			return err
		}
		in, err := LoadInputs(c.UserContext(), up, store, businessID, sess.UserID, year, month)
		if err != nil {
			return err
		}

		sort.SliceStable(cards, func(i, j int) bool {
			return strings.ToLower(cards[i].Name) < strings.ToLower(cards[j].Name)
		})
		out := make([]CardView, 0, len(cards))
		for _, card := range cards {
			out = append(out, CardView{TechCard: card, Costing: Cost(card, in), Year: year, Month: month})
		}
		return c.JSON(out)
	}
}

// GET /api/tech-cards/:id?year=2025&month=3
func GetTechCardHandler(store *unit.Store, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		year, month, err := httpx.YearMonth(c, time.Now())
		if err != nil {
			return err
		}

		card, err := up.GetTechCard(c.UserContext(), id)
		if err != nil {
			return err
		}
		in, err := LoadInputs(c.UserContext(), up, store, businessID, sess.UserID, year, month)
		if err != nil {
			return err
		}
		return c.JSON(CardView{TechCard: *card, Costing: Cost(*card, in), Year: year, Month: month})
	}
}

// POST /api/tech-cards
func CreateTechCardHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		body, err := parseCard(c)
		if err != nil {
			return err
		}

		created, err := up.CreateTechCard(c.UserContext(), body.toCard(businessID))
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "tech_card",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Teknik kart oluşturuldu: %s", created.Name),
			After:       created,
		})
		return c.Status(fiber.StatusCreated).JSON(created)
	}
}

// PUT /api/tech-cards/:id
// Sadece taslak ya da reddedilmiş kartlar düzenlenebilir.
func UpdateTechCardHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseCard(c)
		if err != nil {
			return err
		}

		before, err := up.GetTechCard(c.UserContext(), id)
		if err != nil {
			return err
		}
		if !Editable(before.ApprovalStatus) {
			return apiclient.NewError(fiber.StatusConflict, apiclient.CodeConflict,
				fmt.Sprintf("%s durumundaki kart düzenlenemez", before.ApprovalStatus))
		}

		in := body.toCard(businessID)
		in.ID = id
		in.ApprovalStatus = before.ApprovalStatus
		updated, err := up.UpdateTechCard(c.UserContext(), id, in)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "tech_card",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Teknik kart güncellendi: %s", updated.Name),
			Before:      before,
			After:       updated,
		})
		return c.JSON(updated)
	}
}

// DELETE /api/tech-cards/:id
func DeleteTechCardHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		before, err := up.GetTechCard(c.UserContext(), id)
		if err != nil {
			return err
		}
		if err := up.DeleteTechCard(c.UserContext(), id); err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "tech_card",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Teknik kart silindi: %s", before.Name),
			Before:      before,
		})
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/tech-cards/:id/submit, /approve, /reject, /reopen
func TransitionHandler(api *apiclient.Client, t Transition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		card, err := up.GetTechCard(c.UserContext(), id)
		if err != nil {
			return err
		}
		if err := t.Check(card.ApprovalStatus); err != nil {
			return err
		}

		updated, err := up.SetTechCardStatus(c.UserContext(), id, t.To)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "tech_card",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Teknik kart %s: %s", t.Label, updated.Name),
			Before:      card,
			After:       updated,
		})
		return c.JSON(updated)
	}
}
