package invoice

import (
	"expense-backoffice/internal/models"

	"github.com/shopspring/decimal"
)

// ItemTotal miktar x birim fiyat, 2 haneye yuvarlanmış.
func ItemTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice).Round(2)
}

// ApplyTotals kalem toplamlarını yeniden hesaplar ve fatura toplamını kalem
// toplamlarının toplamı yapar. İstemciden gelen total_price değerleri ezilir.
func ApplyTotals(inv *models.Invoice) {
	total := decimal.Zero
	for i := range inv.Items {
		inv.Items[i].TotalPrice = ItemTotal(inv.Items[i].Quantity, inv.Items[i].UnitPrice)
		total = total.Add(inv.Items[i].TotalPrice)
	}
	inv.TotalAmount = total
}
