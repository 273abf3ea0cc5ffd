package invoice

import (
	"time"

	"expense-backoffice/internal/models"
)

const isoDate = "2006-01-02"

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DueDate fatura tarihi + tedarikçinin ödeme vadesi (gün).
func DueDate(inv models.Invoice, termsDays int) (time.Time, bool) {
	d, err := time.Parse(isoDate, inv.InvoiceDate)
	if err != nil {
		return time.Time{}, false
	}
	return d.AddDate(0, 0, termsDays), true
}

// IsOverdue bekleyen bir fatura, bugün vade gününden sonraysa gecikmiştir.
// Sadece tarih karşılaştırılır, saat yok sayılır.
func IsOverdue(inv models.Invoice, termsDays int, today time.Time) bool {
	if inv.PaidStatus != models.PaidStatusPending {
		return false
	}
	due, ok := DueDate(inv, termsDays)
	if !ok {
		return false
	}
	return dateOnly(today).After(due)
}

func DisplayStatus(inv models.Invoice, termsDays int, today time.Time) models.PaidStatus {
	if IsOverdue(inv, termsDays, today) {
		return models.PaidStatusOverdue
	}
	return inv.PaidStatus
}
