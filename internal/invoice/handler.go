package invoice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/audit"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/models"
	"expense-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ItemRequest struct {
	CategoryID uint            `json:"category_id" validate:"required"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitID     uint            `json:"unit_id" validate:"required"`
	UnitPrice  decimal.Decimal `json:"unit_price" validate:"gte=0"`

	// Gönderilse de dikkate alınmaz, sunucuya giden değer yeniden hesaplanır
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
}

type InvoiceRequest struct {
	SupplierID    uint          `json:"supplier_id" validate:"required"`
	InvoiceNumber string        `json:"invoice_number" validate:"required,max=50"`
	InvoiceDate   string        `json:"invoice_date" validate:"required,isodate"`
	Notes         string        `json:"notes" validate:"max=500"`
	Items         []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r InvoiceRequest) toInvoice(businessID uint) models.Invoice {
	inv := models.Invoice{
		BusinessID:    businessID,
		SupplierID:    r.SupplierID,
		InvoiceNumber: r.InvoiceNumber,
		InvoiceDate:   r.InvoiceDate,
		Notes:         r.Notes,
		PaidStatus:    models.PaidStatusPending,
		Items:         make([]models.InvoiceItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		inv.Items = append(inv.Items, models.InvoiceItem{
			CategoryID: it.CategoryID,
			Quantity:   it.Quantity,
			UnitID:     it.UnitID,
			UnitPrice:  it.UnitPrice,
		})
	}
	ApplyTotals(&inv)
	return inv
}

func parseInvoice(c *fiber.Ctx) (InvoiceRequest, error) {
	var body InvoiceRequest
	if err := httpx.BodyParse(c, &body); err != nil {
		return body, err
	}
	body.InvoiceNumber = strings.TrimSpace(body.InvoiceNumber)
	body.InvoiceDate = strings.TrimSpace(body.InvoiceDate)
	return body, validation.Struct(body)
}

// view tek bir fatura için tedarikçiyi çekip görünümü kurar. Tedarikçi
// alınamazsa vade hesaplanmadan saklı durum gösterilir.
func view(ctx context.Context, up *apiclient.Client, inv models.Invoice) InvoiceView {
	supplier, err := up.GetSupplier(ctx, inv.SupplierID)
	if err != nil {
		log := logger.WithComponent("invoice")
		log.Warn().Err(err).Uint("invoice_id", inv.ID).Msg("tedarikçi alınamadı, vade hesaplanmadı")
		return InvoiceView{Invoice: inv, DisplayStatus: inv.PaidStatus}
	}
	return NewView(inv, supplier, time.Now())
}

// GET /api/invoices?status=overdue&supplier_id=1&date_from=2025-01-01&date_to=2025-01-31&search=abc&sort=amount&order=asc
func ListInvoicesHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}

		supplierID, err := httpx.QueryID(c, "supplier_id")
		if err != nil {
			return err
		}
		status := models.PaidStatus(c.Query("status"))
		switch status {
		case "", models.PaidStatusPending, models.PaidStatusPaid, models.PaidStatusCancelled, models.PaidStatusOverdue:
		default:
			return fiber.NewError(fiber.StatusBadRequest, "status geçersiz")
		}

		filter := apiclient.InvoiceFilter{
			SupplierID: supplierID,
			PaidStatus: status,
			DateFrom:   c.Query("date_from"),
			DateTo:     c.Query("date_to"),
		}

		var (
			invoices  []models.Invoice
			suppliers []models.Supplier
		)
		g, gctx := errgroup.WithContext(c.UserContext())
		g.Go(func() error {
			var err error
			invoices, err = up.ListInvoices(gctx, businessID, filter)
			return err
		})
		g.Go(func() error {
			var err error
			suppliers, err = up.ListSuppliers(gctx, businessID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}

		q := ListQuery{
			Status: status,
			Search: c.Query("search"),
			Sort:   c.Query("sort"),
			Desc:   c.Query("order") == "desc",
		}
		views := Filter(BuildViews(invoices, suppliers, time.Now()), q)
		Sort(views, q)
		return c.JSON(views)
	}
}

// GET /api/invoices/:id
func GetInvoiceHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, _, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		inv, err := up.GetInvoice(c.UserContext(), id)
		if err != nil {
			return err
		}
		if len(inv.Items) == 0 {
			items, err := up.ListInvoiceItems(c.UserContext(), id)
			if err != nil {
				return err
			}
			inv.Items = items
		}
		return c.JSON(view(c.UserContext(), up, *inv))
	}
}

// GET /api/invoices/:id/items
func ListItemsHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, _, _, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		items, err := up.ListInvoiceItems(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(items)
	}
}

// POST /api/invoices
func CreateInvoiceHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		body, err := parseInvoice(c)
		if err != nil {
			return err
		}

		created, err := up.CreateInvoice(c.UserContext(), body.toInvoice(businessID))
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "invoice",
			EntityID:    created.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Fatura oluşturuldu: %s (%s)", created.InvoiceNumber, created.TotalAmount.StringFixed(2)),
			After:       created,
		})

		return c.Status(fiber.StatusCreated).JSON(view(c.UserContext(), up, *created))
	}
}

// PUT /api/invoices/:id
func UpdateInvoiceHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}
		body, err := parseInvoice(c)
		if err != nil {
			return err
		}

		before, err := up.GetInvoice(c.UserContext(), id)
		if err != nil {
			return err
		}

		in := body.toInvoice(businessID)
		in.ID = id
		// durum sadece aksiyon uçlarıyla değişir
		in.PaidStatus = before.PaidStatus

		updated, err := up.UpdateInvoice(c.UserContext(), id, in)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "invoice",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Fatura güncellendi: %s", updated.InvoiceNumber),
			Before:      before,
			After:       updated,
		})

		return c.JSON(view(c.UserContext(), up, *updated))
	}
}

// DELETE /api/invoices/:id
func DeleteInvoiceHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		before, err := up.GetInvoice(c.UserContext(), id)
		if err != nil {
			return err
		}
		if err := up.DeleteInvoice(c.UserContext(), id); err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "invoice",
			EntityID:    id,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Fatura silindi: %s", before.InvoiceNumber),
			Before:      before,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type invoiceAction struct {
	call   func(ctx context.Context, up *apiclient.Client, id uint) (*models.Invoice, error)
	action models.AuditAction
	label  string
}

var (
	MarkPaid = invoiceAction{
		call: func(ctx context.Context, up *apiclient.Client, id uint) (*models.Invoice, error) {
			return up.MarkInvoicePaid(ctx, id)
		},
		action: models.AuditActionMarkPaid,
		label:  "ödendi olarak işaretlendi",
	}
	MarkCancelled = invoiceAction{
		call: func(ctx context.Context, up *apiclient.Client, id uint) (*models.Invoice, error) {
			return up.MarkInvoiceCancelled(ctx, id)
		},
		action: models.AuditActionMarkCancelled,
		label:  "iptal edildi",
	}
	Restore = invoiceAction{
		call: func(ctx context.Context, up *apiclient.Client, id uint) (*models.Invoice, error) {
			return up.RestoreInvoice(ctx, id)
		},
		action: models.AuditActionRestore,
		label:  "geri yüklendi",
	}
)

// POST /api/invoices/:id/mark-paid, /mark-cancelled, /restore
func ActionHandler(api *apiclient.Client, act invoiceAction) fiber.Handler {
	return func(c *fiber.Ctx) error {
		up, sess, businessID, err := auth.Client(c, api)
		if err != nil {
			return err
		}
		id, err := httpx.ParamID(c, "id")
		if err != nil {
			return err
		}

		inv, err := act.call(c.UserContext(), up, id)
		if err != nil {
			return err
		}

		audit.Record(sess, businessID, audit.LogOptions{
			EntityType:  "invoice",
			EntityID:    id,
			Action:      act.action,
			Description: fmt.Sprintf("Fatura %s: %s", act.label, inv.InvoiceNumber),
			After:       inv,
		})

		return c.JSON(view(c.UserContext(), up, *inv))
	}
}
