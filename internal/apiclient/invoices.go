package apiclient

import (
	"context"
	"fmt"

	"expense-backoffice/internal/models"
)

type InvoiceFilter struct {
	SupplierID *uint
	PaidStatus models.PaidStatus
	DateFrom   string
	DateTo     string
}

func (c *Client) ListInvoices(ctx context.Context, businessID uint, f InvoiceFilter) ([]models.Invoice, error) {
	q := businessQuery(businessID)
	if f.SupplierID != nil {
		q.Set("supplier_id", fmt.Sprint(*f.SupplierID))
	}
	// overdue sunucuda yok, pending olarak istenir ve burada süzülür
	switch f.PaidStatus {
	case "":
	case models.PaidStatusOverdue:
		q.Set("paid_status", string(models.PaidStatusPending))
	default:
		q.Set("paid_status", string(f.PaidStatus))
	}
	if f.DateFrom != "" {
		q.Set("date_from", f.DateFrom)
	}
	if f.DateTo != "" {
		q.Set("date_to", f.DateTo)
	}
	var out []models.Invoice
	if err := c.get(ctx, "/expenses/invoices", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.get(ctx, idPath("/expenses/invoices/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListInvoiceItems(ctx context.Context, invoiceID uint) ([]models.InvoiceItem, error) {
	var out []models.InvoiceItem
	if err := c.get(ctx, idPath("/expenses/invoices/%d/items", invoiceID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateInvoice(ctx context.Context, in models.Invoice) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.post(ctx, "/expenses/invoices", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateInvoice(ctx context.Context, id uint, in models.Invoice) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.put(ctx, idPath("/expenses/invoices/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id uint) error {
	return c.delete(ctx, idPath("/expenses/invoices/%d", id))
}

func (c *Client) MarkInvoicePaid(ctx context.Context, id uint) (*models.Invoice, error) {
	return c.invoiceAction(ctx, id, "mark-paid")
}

func (c *Client) MarkInvoiceCancelled(ctx context.Context, id uint) (*models.Invoice, error) {
	return c.invoiceAction(ctx, id, "mark-cancelled")
}

func (c *Client) RestoreInvoice(ctx context.Context, id uint) (*models.Invoice, error) {
	return c.invoiceAction(ctx, id, "restore")
}

func (c *Client) invoiceAction(ctx context.Context, id uint, action string) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.post(ctx, fmt.Sprintf("/expenses/invoices/%d/%s", id, action), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
