package expense

import (
	"time"

	"expense-backoffice/internal/models"
)

// SectionNode bir bölüm ve kategorilerinin aktif/pasif kovaları.
type SectionNode struct {
	Section            models.ExpenseSection    `json:"section"`
	ActiveCategories   []models.ExpenseCategory `json:"active_categories"`
	InactiveCategories []models.ExpenseCategory `json:"inactive_categories"`

	// Kategorilerin sunucudaki durumu bilinmiyor, bir sonraki okumada yeniden çekilir
	Stale bool `json:"stale,omitempty"`
}

// Board kategori ekranının bellekteki hali: aktif ve pasif bölüm listeleri.
//
// Değişmez: bir kategori ancak kendisi ve bölümü aktifse aktif kovadadır.
// Her yamadan sonra Normalize bunu yeniden kurar.
type Board struct {
	BusinessID       uint           `json:"business_id"`
	ActiveSections   []*SectionNode `json:"active_sections"`
	InactiveSections []*SectionNode `json:"inactive_sections"`
	LoadedAt         time.Time      `json:"loaded_at"`
}

// BuildBoard sunucudan gelen bölümler ve bölüm -> kategoriler eşlemesinden
// board kurar.
func BuildBoard(businessID uint, sections []models.ExpenseSection, cats map[uint][]models.ExpenseCategory, now time.Time) *Board {
	b := &Board{
		BusinessID:       businessID,
		ActiveSections:   make([]*SectionNode, 0),
		InactiveSections: make([]*SectionNode, 0),
		LoadedAt:         now,
	}
	for _, s := range sections {
		node := newNode(s, cats[s.ID])
		if s.IsActive {
			b.ActiveSections = append(b.ActiveSections, node)
		} else {
			b.InactiveSections = append(b.InactiveSections, node)
		}
	}
	b.Normalize()
	return b
}

func newNode(s models.ExpenseSection, cats []models.ExpenseCategory) *SectionNode {
	node := &SectionNode{
		Section:            s,
		ActiveCategories:   make([]models.ExpenseCategory, 0),
		InactiveCategories: make([]models.ExpenseCategory, 0),
	}
	node.partition(cats)
	return node
}

func (n *SectionNode) partition(cats []models.ExpenseCategory) {
	n.ActiveCategories = n.ActiveCategories[:0]
	n.InactiveCategories = n.InactiveCategories[:0]
	for _, c := range cats {
		if c.IsActive && n.Section.IsActive {
			n.ActiveCategories = append(n.ActiveCategories, c)
		} else {
			n.InactiveCategories = append(n.InactiveCategories, c)
		}
	}
	SortCategories(n.ActiveCategories)
	SortCategories(n.InactiveCategories)
}

func (n *SectionNode) allCategories() []models.ExpenseCategory {
	all := make([]models.ExpenseCategory, 0, len(n.ActiveCategories)+len(n.InactiveCategories))
	all = append(all, n.ActiveCategories...)
	return append(all, n.InactiveCategories...)
}

func (b *Board) Section(id uint) (*SectionNode, bool) {
	for _, n := range b.ActiveSections {
		if n.Section.ID == id {
			return n, true
		}
	}
	for _, n := range b.InactiveSections {
		if n.Section.ID == id {
			return n, true
		}
	}
	return nil, false
}

func (b *Board) nodes() []*SectionNode {
	all := make([]*SectionNode, 0, len(b.ActiveSections)+len(b.InactiveSections))
	all = append(all, b.ActiveSections...)
	return append(all, b.InactiveSections...)
}

// DeactivateSection bölümü pasif listeye taşır ve tüm kategorilerini
// (aktif+pasif) pasif kovaya zorlar. Sunucudaki kademeli pasifleştirmenin
// aynısı.
func (b *Board) DeactivateSection(id uint) bool {
	node, ok := b.Section(id)
	if !ok {
		return false
	}
	cats := node.allCategories()
	for i := range cats {
		cats[i].IsActive = false
	}
	node.Section.IsActive = false
	node.Stale = false
	node.partition(cats)
	b.Normalize()
	return true
}

// ReplaceSection bölümün durumunu ve kategorilerini sunucudan gelen haliyle
// değiştirir. Bölüm durum değişikliklerinden sonra tek doğru kaynak budur.
func (b *Board) ReplaceSection(s models.ExpenseSection, cats []models.ExpenseCategory) {
	node, ok := b.Section(s.ID)
	if !ok {
		node = newNode(s, cats)
		b.ActiveSections = append(b.ActiveSections, node)
	}
	node.Section = s
	node.Stale = false
	node.partition(cats)
	b.Normalize()
}

// ActivateSectionUnverified kategoriler yeniden çekilemediğinde kullanılır:
// bölüm aktif olur ama kategorilerin hepsi pasif varsayılır ve bölüm
// stale işaretlenir.
func (b *Board) ActivateSectionUnverified(id uint) bool {
	node, ok := b.Section(id)
	if !ok {
		return false
	}
	cats := node.allCategories()
	for i := range cats {
		cats[i].IsActive = false
	}
	node.Section.IsActive = true
	node.Stale = true
	node.partition(cats)
	b.Normalize()
	return true
}

// SetCategoryActive kategoriyi bölümü içinde kovalar arasında taşır,
// bölümün kendi durumuna dokunmaz.
func (b *Board) SetCategoryActive(categoryID uint, active bool) bool {
	for _, node := range b.nodes() {
		cats := node.allCategories()
		for i := range cats {
			if cats[i].ID != categoryID {
				continue
			}
			cats[i].IsActive = active
			node.partition(cats)
			return true
		}
	}
	return false
}

func (b *Board) UpsertSection(s models.ExpenseSection) {
	if node, ok := b.Section(s.ID); ok {
		node.Section = s
		node.partition(node.allCategories())
	} else {
		b.ActiveSections = append(b.ActiveSections, newNode(s, nil))
	}
	b.Normalize()
}

func (b *Board) RemoveSection(id uint) {
	b.ActiveSections = removeNode(b.ActiveSections, id)
	b.InactiveSections = removeNode(b.InactiveSections, id)
}

// UpsertCategory kategoriyi (gerekirse eski bölümünden çıkarıp) bölümüne
// yerleştirir. Bölüm board'da yoksa false döner.
func (b *Board) UpsertCategory(cat models.ExpenseCategory) bool {
	target, ok := b.Section(cat.SectionID)
	if !ok {
		return false
	}
	b.RemoveCategory(cat.ID)
	target.partition(append(target.allCategories(), cat))
	return true
}

func (b *Board) RemoveCategory(id uint) {
	for _, node := range b.nodes() {
		cats := node.allCategories()
		kept := cats[:0]
		for _, c := range cats {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		if len(kept) != len(cats) {
			node.partition(kept)
		}
	}
}

// Normalize bölümleri is_active'e göre doğru listeye koyar, kategorileri
// yeniden kovalar ve sıralar.
func (b *Board) Normalize() {
	active := make([]*SectionNode, 0, len(b.ActiveSections))
	inactive := make([]*SectionNode, 0, len(b.InactiveSections))
	for _, node := range b.nodes() {
		node.partition(node.allCategories())
		if node.Section.IsActive {
			active = append(active, node)
		} else {
			inactive = append(inactive, node)
		}
	}
	sortNodes(active)
	sortNodes(inactive)
	b.ActiveSections = active
	b.InactiveSections = inactive
}

// StaleSections yeniden çekilmesi gereken bölüm id'leri.
func (b *Board) StaleSections() []uint {
	var ids []uint
	for _, node := range b.nodes() {
		if node.Stale {
			ids = append(ids, node.Section.ID)
		}
	}
	return ids
}

func (b *Board) Clone() *Board {
	cp := &Board{
		BusinessID:       b.BusinessID,
		ActiveSections:   cloneNodes(b.ActiveSections),
		InactiveSections: cloneNodes(b.InactiveSections),
		LoadedAt:         b.LoadedAt,
	}
	return cp
}

// View "pasifleri göster" tercihine göre süzülmüş bir kopya döner.
func (b *Board) View(showInactive bool) *Board {
	cp := b.Clone()
	if showInactive {
		return cp
	}
	cp.InactiveSections = make([]*SectionNode, 0)
	for _, node := range cp.ActiveSections {
		node.InactiveCategories = make([]models.ExpenseCategory, 0)
	}
	return cp
}

func cloneNodes(nodes []*SectionNode) []*SectionNode {
	out := make([]*SectionNode, 0, len(nodes))
	for _, n := range nodes {
		cp := *n
		cp.ActiveCategories = append(make([]models.ExpenseCategory, 0, len(n.ActiveCategories)), n.ActiveCategories...)
		cp.InactiveCategories = append(make([]models.ExpenseCategory, 0, len(n.InactiveCategories)), n.InactiveCategories...)
		out = append(out, &cp)
	}
	return out
}

func removeNode(nodes []*SectionNode, id uint) []*SectionNode {
	out := nodes[:0]
	for _, n := range nodes {
		if n.Section.ID != id {
			out = append(out, n)
		}
	}
	return out
}
