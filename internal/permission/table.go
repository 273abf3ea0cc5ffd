package permission

import "sort"

// Yetki adları upstream ile aynıdır.
const (
	ViewExpenses      = "view_expenses"
	EditExpenses      = "edit_expenses"
	ManageCategories  = "manage_categories"
	ManageSuppliers   = "manage_suppliers"
	ViewInvoices      = "view_invoices"
	CreateInvoices    = "create_invoices"
	ApproveInvoices   = "approve_invoices"
	ViewInventory     = "view_inventory"
	EditInventory     = "edit_inventory"
	ManageTechCards   = "manage_tech_cards"
	ApproveTechCards  = "approve_tech_cards"
	ViewReports       = "view_reports"
	ManagePermissions = "manage_permissions"
)

type definition struct {
	requires []string
	features []string
}

// table her yetkinin ihtiyaç duyduğu yetkiler ve etkilediği ekranlar.
var table = map[string]definition{
	ViewExpenses: {
		features: []string{"Gider paneli", "Bölüm ve kategori listesi"},
	},
	EditExpenses: {
		requires: []string{ViewExpenses},
		features: []string{"Gider girişi"},
	},
	ManageCategories: {
		requires: []string{ViewExpenses},
		features: []string{"Bölüm ve kategori yönetimi", "Birim yönetimi"},
	},
	ManageSuppliers: {
		requires: []string{ViewInvoices},
		features: []string{"Tedarikçi yönetimi"},
	},
	ViewInvoices: {
		features: []string{"Fatura listesi", "Vadesi geçmiş faturalar"},
	},
	CreateInvoices: {
		requires: []string{ViewInvoices},
		features: []string{"Fatura oluşturma ve düzenleme"},
	},
	ApproveInvoices: {
		requires: []string{ViewInvoices},
		features: []string{"Ödendi / iptal işaretleme"},
	},
	ViewInventory: {
		features: []string{"Aylık envanter tablosu", "Envanter Excel çıktısı"},
	},
	EditInventory: {
		requires: []string{ViewInventory},
		features: []string{"Dönem açma ve kapama"},
	},
	ManageTechCards: {
		requires: []string{ViewInventory},
		features: []string{"Teknik kart oluşturma ve maliyet"},
	},
	ApproveTechCards: {
		requires: []string{ManageTechCards},
		features: []string{"Teknik kart onayı"},
	},
	ViewReports: {
		requires: []string{ViewExpenses, ViewInvoices},
		features: []string{"Raporlar"},
	},
	ManagePermissions: {
		features: []string{"Çalışan yetkileri"},
	},
}

// All bilinen yetkileri alfabetik döner.
func All() []string {
	out := make([]string, 0, len(table))
	for name := range table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func Known(name string) bool {
	_, ok := table[name]
	return ok
}

// RequiredPermissions p'nin çalışması için gereken yetkiler (verirken uyarı).
func RequiredPermissions(p string) []string {
	def, ok := table[p]
	if !ok {
		return []string{}
	}
	out := append([]string{}, def.requires...)
	sort.Strings(out)
	return out
}

// DependentPermissions p'ye ihtiyaç duyan yetkiler (geri alırken uyarı).
func DependentPermissions(p string) []string {
	out := []string{}
	if !Known(p) {
		return out
	}
	for name, def := range table {
		for _, r := range def.requires {
			if r == p {
				out = append(out, name)
				break
			}
		}
	}
	sort.Strings(out)
	return out
}

// AffectedFeatures p geri alınınca erişilemeyen ekranlar. Bağımlı yetkilerin
// ekranları da dahildir.
func AffectedFeatures(p string) []string {
	def, ok := table[p]
	if !ok {
		return []string{}
	}
	out := append([]string{}, def.features...)
	for _, dep := range DependentPermissions(p) {
		out = append(out, table[dep].features...)
	}
	return out
}
