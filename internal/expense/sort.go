package expense

import (
	"sort"
	"strings"

	"expense-backoffice/internal/models"
)

// LessByOrder sıralama kuralı: order_index artan, eşitlikte isim (büyük/küçük harf
// duyarsız), o da eşitse id.
func LessByOrder(oi, oj int, ni, nj string, idi, idj uint) bool {
	if oi != oj {
		return oi < oj
	}
	li, lj := strings.ToLower(ni), strings.ToLower(nj)
	if li != lj {
		return li < lj
	}
	return idi < idj
}

func SortSections(sections []models.ExpenseSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		a, b := sections[i], sections[j]
		return LessByOrder(a.OrderIndex, b.OrderIndex, a.Name, b.Name, a.ID, b.ID)
	})
}

func SortCategories(cats []models.ExpenseCategory) {
	sort.SliceStable(cats, func(i, j int) bool {
		a, b := cats[i], cats[j]
		return LessByOrder(a.OrderIndex, b.OrderIndex, a.Name, b.Name, a.ID, b.ID)
	})
}

func sortNodes(nodes []*SectionNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Section, nodes[j].Section
		return LessByOrder(a.OrderIndex, b.OrderIndex, a.Name, b.Name, a.ID, b.ID)
	})
}
