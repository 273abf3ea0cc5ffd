package expense

import (
	"context"
	"fmt"
	"sync"
	"time"

	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Upstream board için gereken upstream çağrıları. *apiclient.Client bunu sağlar.
type Upstream interface {
	ListSections(ctx context.Context, businessID uint) ([]models.ExpenseSection, error)
	ListSectionCategories(ctx context.Context, sectionID uint) ([]models.ExpenseCategory, error)
	ActivateSection(ctx context.Context, id uint) (*models.ExpenseSection, error)
	DeactivateSection(ctx context.Context, id uint) (*models.ExpenseSection, error)
	ActivateCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error)
	DeactivateCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error)
}

const maxParallelFetch = 4

type cachedBoard struct {
	board     *Board
	expiresAt time.Time
	// readers board'u kendi token'ıyla upstream'den okuyabilmiş kullanıcılar
	readers map[uint]struct{}
}

// Service board'ları işletme bazında önbellekte tutar ve durum
// değişikliklerinden sonra uzlaştırır. Önbellekten yalnızca upstream'in o
// işletme için en az bir kez yetkilendirdiği kullanıcılar okuyabilir.
type Service struct {
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger

	mu     sync.Mutex
	boards map[uint]cachedBoard
}

func NewService(ttl time.Duration) *Service {
	return &Service{
		ttl:    ttl,
		now:    time.Now,
		log:    logger.WithComponent("expense"),
		boards: make(map[uint]cachedBoard),
	}
}

// Board işletmenin board'unu döner; önbellekte yoksa, süresi dolduysa ya da
// kullanıcı bu board'u henüz upstream'den okumadıysa sunucudan kurar. Stale
// bölümler yeniden çekilir.
func (s *Service) Board(ctx context.Context, up Upstream, businessID, userID uint) (*Board, error) {
	if b, ok := s.cachedFor(businessID, userID); ok {
		if stale := b.StaleSections(); len(stale) > 0 {
			s.refreshSections(ctx, up, businessID, stale)
			b, _ = s.cached(businessID)
		}
		if b != nil {
			return b, nil
		}
	}
	return s.Reload(ctx, up, businessID, userID)
}

// Reload önbelleği yok sayıp board'u baştan kurar.
func (s *Service) Reload(ctx context.Context, up Upstream, businessID, userID uint) (*Board, error) {
	sections, err := up.ListSections(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("bölümler alınamadı: %w", err)
	}

	cats := make(map[uint][]models.ExpenseCategory, len(sections))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetch)
	for _, sec := range sections {
		sec := sec
		g.Go(func() error {
			list, err := up.ListSectionCategories(gctx, sec.ID)
			if err != nil {
				return fmt.Errorf("%q bölümünün kategorileri alınamadı: %w", sec.Name, err)
			}
			mu.Lock()
			cats[sec.ID] = list
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	board := BuildBoard(businessID, sections, cats, s.now())
	s.store(board, userID)
	return board.Clone(), nil
}

// SetSectionActive bölümü upstream'de (de)aktive eder ve board'u uzlaştırır.
// Sunucu her durumda doğru kaynak sayılır: bölümün kategorileri yeniden
// çekilir. Çekme başarısız olursa pasifleştirmede kademeli yama, aktifleştirmede
// "hepsi pasif + stale" varsayımı uygulanır.
func (s *Service) SetSectionActive(ctx context.Context, up Upstream, businessID, userID, sectionID uint, active bool) (*Board, error) {
	var (
		section *models.ExpenseSection
		err     error
	)
	if active {
		section, err = up.ActivateSection(ctx, sectionID)
	} else {
		section, err = up.DeactivateSection(ctx, sectionID)
	}
	if err != nil {
		return nil, err
	}

	cats, fetchErr := up.ListSectionCategories(ctx, sectionID)
	if fetchErr != nil {
		s.log.Warn().Err(fetchErr).Uint("section_id", sectionID).Bool("active", active).
			Msg("bölüm kategorileri yeniden çekilemedi, yerel varsayım uygulanıyor")
	}

	patched := s.update(businessID, func(b *Board) bool {
		switch {
		case fetchErr == nil:
			sec, ok := confirmedSection(b, section, sectionID, active)
			if !ok {
				return false
			}
			b.ReplaceSection(sec, cats)
			return true
		case active:
			return b.ActivateSectionUnverified(sectionID)
		default:
			return b.DeactivateSection(sectionID)
		}
	})
	if !patched {
		return s.Reload(ctx, up, businessID, userID)
	}
	return s.current(ctx, up, businessID, userID)
}

// confirmedSection upstream'in döndüğü bölümü kullanır. Cevap gövdesiz
// geldiyse önbellekteki bölüm istenen durumla alınır; bölüm board'da yoksa
// false döner ve board sunucudan yeniden kurulur.
func confirmedSection(b *Board, section *models.ExpenseSection, id uint, active bool) (models.ExpenseSection, bool) {
	if section != nil && section.ID == id {
		return *section, true
	}
	node, ok := b.Section(id)
	if !ok {
		return models.ExpenseSection{}, false
	}
	sec := node.Section
	sec.IsActive = active
	return sec, true
}

// SetCategoryActive kategoriyi (de)aktive eder ve sadece bölümü içindeki
// kovasını değiştirir.
func (s *Service) SetCategoryActive(ctx context.Context, up Upstream, businessID, userID, categoryID uint, active bool) (*Board, error) {
	var (
		cat *models.ExpenseCategory
		err error
	)
	if active {
		cat, err = up.ActivateCategory(ctx, categoryID)
	} else {
		cat, err = up.DeactivateCategory(ctx, categoryID)
	}
	if err != nil {
		return nil, err
	}

	// boş gövdeli 2xx cevapta istenen durum geçerlidir
	state := active
	if cat != nil && cat.ID == categoryID {
		state = cat.IsActive
	}

	patched := s.update(businessID, func(b *Board) bool {
		if !b.SetCategoryActive(categoryID, state) {
			return false
		}
		b.Normalize()
		return true
	})
	if !patched {
		return s.Reload(ctx, up, businessID, userID)
	}
	return s.current(ctx, up, businessID, userID)
}

// Patch CRUD sonrası board'a yama uygular; yama uygulanamazsa board düşürülür.
func (s *Service) Patch(businessID uint, fn func(b *Board) bool) {
	s.update(businessID, fn)
}

func (s *Service) Invalidate(businessID uint) {
	s.mu.Lock()
	delete(s.boards, businessID)
	s.mu.Unlock()
}

func (s *Service) refreshSections(ctx context.Context, up Upstream, businessID uint, ids []uint) {
	for _, id := range ids {
		cats, err := up.ListSectionCategories(ctx, id)
		if err != nil {
			s.log.Warn().Err(err).Uint("section_id", id).Msg("stale bölüm yenilenemedi")
			continue
		}
		s.update(businessID, func(b *Board) bool {
			node, ok := b.Section(id)
			if !ok {
				return false
			}
			b.ReplaceSection(node.Section, cats)
			return true
		})
	}
}

// current yamadan sonraki board'u stale bölümleri tekrar çekmeden döner.
// Çağıran değişikliği upstream'de yapabildiği için okuyucu olarak eklenir.
func (s *Service) current(ctx context.Context, up Upstream, businessID, userID uint) (*Board, error) {
	s.mu.Lock()
	if entry, ok := s.boards[businessID]; ok && !s.now().After(entry.expiresAt) {
		entry.readers[userID] = struct{}{}
		b := entry.board.Clone()
		s.mu.Unlock()
		return b, nil
	}
	s.mu.Unlock()
	return s.Reload(ctx, up, businessID, userID)
}

func (s *Service) cached(businessID uint) (*Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.boards[businessID]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.board.Clone(), true
}

// cachedFor board'u sadece kullanıcı okuyucular arasındaysa döner.
func (s *Service) cachedFor(businessID, userID uint) (*Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.boards[businessID]
	if !ok || s.now().After(entry.expiresAt) {
		return nil, false
	}
	if _, ok := entry.readers[userID]; !ok {
		return nil, false
	}
	return entry.board.Clone(), true
}

// store yeni kurulan board'u yazar. Süresi dolmamış kayıttaki okuyucular
// korunur, süre dolunca herkes upstream'den tekrar yetkilendirilir.
func (s *Service) store(b *Board, userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	readers := map[uint]struct{}{userID: {}}
	if prev, ok := s.boards[b.BusinessID]; ok && !s.now().After(prev.expiresAt) {
		for id := range prev.readers {
			readers[id] = struct{}{}
		}
	}
	s.boards[b.BusinessID] = cachedBoard{board: b, expiresAt: s.now().Add(s.ttl), readers: readers}
}

// update önbellekteki board'a kilit altında yama uygular. Board yoksa
// yapılacak bir şey yoktur, sonraki okuma zaten sunucudan kurar.
func (s *Service) update(businessID uint, fn func(b *Board) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.boards[businessID]
	if !ok || s.now().After(entry.expiresAt) {
		return false
	}
	if !fn(entry.board) {
		delete(s.boards, businessID)
		return false
	}
	return true
}

// sectionSnapshot audit için bölümün önbellekteki halini döner; yoksa nil.
func (s *Service) sectionSnapshot(businessID, id uint) *models.ExpenseSection {
	b, ok := s.cached(businessID)
	if !ok {
		return nil
	}
	node, ok := b.Section(id)
	if !ok {
		return nil
	}
	sec := node.Section
	return &sec
}

func (s *Service) categorySnapshot(businessID, id uint) *models.ExpenseCategory {
	b, ok := s.cached(businessID)
	if !ok {
		return nil
	}
	for _, node := range b.nodes() {
		for _, c := range node.allCategories() {
			if c.ID == id {
				cat := c
				return &cat
			}
		}
	}
	return nil
}
