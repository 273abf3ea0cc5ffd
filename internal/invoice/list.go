package invoice

import (
	"sort"
	"strings"
	"time"

	"expense-backoffice/internal/models"
)

// InvoiceView listede gösterilen fatura: tedarikçi adı ve hesaplanmış durum ile.
type InvoiceView struct {
	models.Invoice
	SupplierName  string            `json:"supplier_name"`
	DisplayStatus models.PaidStatus `json:"display_status"`
	DueDate       string            `json:"due_date,omitempty"`
}

type ListQuery struct {
	Status models.PaidStatus
	Search string
	Sort   string // "date" | "amount" | "number"
	Desc   bool
}

func NewView(inv models.Invoice, supplier *models.Supplier, today time.Time) InvoiceView {
	v := InvoiceView{Invoice: inv, DisplayStatus: inv.PaidStatus}
	terms := 0
	if supplier != nil {
		v.SupplierName = supplier.Name
		terms = supplier.PaymentTermsDays
	}
	if due, ok := DueDate(inv, terms); ok {
		v.DueDate = due.Format(isoDate)
	}
	v.DisplayStatus = DisplayStatus(inv, terms, today)
	return v
}

func BuildViews(invoices []models.Invoice, suppliers []models.Supplier, today time.Time) []InvoiceView {
	byID := make(map[uint]*models.Supplier, len(suppliers))
	for i := range suppliers {
		byID[suppliers[i].ID] = &suppliers[i]
	}
	out := make([]InvoiceView, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, NewView(inv, byID[inv.SupplierID], today))
	}
	return out
}

// Filter hesaplanmış duruma ve fatura no / tedarikçi adı içinde aramaya göre süzer.
func Filter(views []InvoiceView, q ListQuery) []InvoiceView {
	term := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]InvoiceView, 0, len(views))
	for _, v := range views {
		if q.Status != "" && v.DisplayStatus != q.Status {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(v.InvoiceNumber), term) &&
			!strings.Contains(strings.ToLower(v.SupplierName), term) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// Sort varsayılan olarak tarihe göre yeniden eskiye sıralar.
func Sort(views []InvoiceView, q ListQuery) {
	key := q.Sort
	desc := q.Desc
	if key == "" {
		key = "date"
		desc = true
	}

	less := func(a, b InvoiceView) bool {
		switch key {
		case "amount":
			if c := a.TotalAmount.Cmp(b.TotalAmount); c != 0 {
				return c < 0
			}
		case "number":
			if a.InvoiceNumber != b.InvoiceNumber {
				return a.InvoiceNumber < b.InvoiceNumber
			}
		default:
			if a.InvoiceDate != b.InvoiceDate {
				return a.InvoiceDate < b.InvoiceDate
			}
		}
		return a.ID < b.ID
	}

	sort.SliceStable(views, func(i, j int) bool {
		if desc {
			return less(views[j], views[i])
		}
		return less(views[i], views[j])
	})
}
