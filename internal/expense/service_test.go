package expense

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUpstream struct {
	mu          sync.Mutex
	sections    map[uint]models.ExpenseSection
	categories  map[uint]models.ExpenseCategory
	failCatsFor map[uint]bool
	denyUser    bool
	emptyReply  bool
	listCalls   int
	catCalls    map[uint]int
}

func newFakeUpstream() *fakeUpstream {
	f := &fakeUpstream{
		sections:    map[uint]models.ExpenseSection{},
		categories:  map[uint]models.ExpenseCategory{},
		failCatsFor: map[uint]bool{},
		catCalls:    map[uint]int{},
	}
	for _, s := range []models.ExpenseSection{
		{ID: 1, Name: "Produce", OrderIndex: 1, IsActive: true},
		{ID: 2, Name: "Dairy", OrderIndex: 1, IsActive: false},
	} {
		f.sections[s.ID] = s
	}
	for _, c := range []models.ExpenseCategory{
		{ID: 10, SectionID: 1, Name: "Tomato", IsActive: true},
		{ID: 11, SectionID: 1, Name: "Onion", IsActive: false},
		{ID: 20, SectionID: 2, Name: "Milk", IsActive: true},
		{ID: 21, SectionID: 2, Name: "Butter", IsActive: false},
	} {
		f.categories[c.ID] = c
	}
	return f
}

func (f *fakeUpstream) ListSections(ctx context.Context, businessID uint) ([]models.ExpenseSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.denyUser {
		return nil, apiclient.NewError(http.StatusForbidden, apiclient.CodeInsufficientPerms, "Yetkiniz yok")
	}
	out := make([]models.ExpenseSection, 0, len(f.sections))
	for _, s := range f.sections {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeUpstream) ListSectionCategories(ctx context.Context, sectionID uint) ([]models.ExpenseCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catCalls[sectionID]++
	if f.failCatsFor[sectionID] {
		return nil, errors.New("upstream down")
	}
	var out []models.ExpenseCategory
	for _, c := range f.categories {
		if c.SectionID == sectionID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeUpstream) setSection(id uint, active bool) (*models.ExpenseSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sections[id]
	if !ok {
		return nil, errors.New("not found")
	}
	s.IsActive = active
	f.sections[id] = s
	if !active {
		for cid, c := range f.categories {
			if c.SectionID == id {
				c.IsActive = false
				f.categories[cid] = c
			}
		}
	}
	if f.emptyReply {
		return &models.ExpenseSection{}, nil
	}
	return &s, nil
}

func (f *fakeUpstream) ActivateSection(ctx context.Context, id uint) (*models.ExpenseSection, error) {
	return f.setSection(id, true)
}

func (f *fakeUpstream) DeactivateSection(ctx context.Context, id uint) (*models.ExpenseSection, error) {
	return f.setSection(id, false)
}

func (f *fakeUpstream) setCategory(id uint, active bool) (*models.ExpenseCategory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok {
		return nil, errors.New("not found")
	}
	c.IsActive = active
	f.categories[id] = c
	if f.emptyReply {
		return &models.ExpenseCategory{}, nil
	}
	return &c, nil
}

func (f *fakeUpstream) ActivateCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	return f.setCategory(id, true)
}

func (f *fakeUpstream) DeactivateCategory(ctx context.Context, id uint) (*models.ExpenseCategory, error) {
	return f.setCategory(id, false)
}

func TestBoardIsCached(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	_, err = svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, up.listCalls)
}

func TestBoardExpires(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, up.listCalls)
}

func TestDeactivateSectionMovesAllCategories(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	b, err := svc.SetSectionActive(ctx, up, 1, 1, 1, false)
	require.NoError(t, err)

	produce, ok := b.Section(1)
	require.True(t, ok)
	assert.Empty(t, produce.ActiveCategories)
	assert.ElementsMatch(t, []uint{10, 11}, categoryIDs(produce.InactiveCategories))
	assert.Empty(t, b.ActiveSections)
	assert.Equal(t, 1, up.listCalls, "patched without full reload")
}

func TestDeactivateSectionFallbackCascade(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	up.failCatsFor[1] = true

	b, err := svc.SetSectionActive(ctx, up, 1, 1, 1, false)
	require.NoError(t, err)

	produce, _ := b.Section(1)
	assert.Empty(t, produce.ActiveCategories)
	assert.ElementsMatch(t, []uint{10, 11}, categoryIDs(produce.InactiveCategories))
	assert.False(t, produce.Stale)
}

func TestActivateSectionRefetchesCategories(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	b, err := svc.SetSectionActive(ctx, up, 1, 1, 2, true)
	require.NoError(t, err)

	dairy, _ := b.Section(2)
	assert.True(t, dairy.Section.IsActive)
	assert.Equal(t, []uint{20}, categoryIDs(dairy.ActiveCategories))
	assert.Equal(t, []uint{21}, categoryIDs(dairy.InactiveCategories))
	assert.Equal(t, 2, up.catCalls[2])
}

func TestActivateSectionFetchFailureAssumesInactive(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	up.failCatsFor[2] = true

	b, err := svc.SetSectionActive(ctx, up, 1, 1, 2, true)
	require.NoError(t, err)

	dairy, _ := b.Section(2)
	assert.True(t, dairy.Section.IsActive)
	assert.True(t, dairy.Stale)
	assert.Empty(t, dairy.ActiveCategories)
	assert.ElementsMatch(t, []uint{20, 21}, categoryIDs(dairy.InactiveCategories))

	// upstream düzelince bir sonraki okuma stale bölümü yeniler
	up.failCatsFor[2] = false
	b, err = svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	dairy, _ = b.Section(2)
	assert.False(t, dairy.Stale)
	assert.Equal(t, []uint{20}, categoryIDs(dairy.ActiveCategories))
	assert.Equal(t, 1, up.listCalls)
}

func TestSetCategoryActiveWithoutCachedBoardReloads(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	b, err := svc.SetCategoryActive(ctx, up, 1, 1, 11, true)
	require.NoError(t, err)

	produce, _ := b.Section(1)
	assert.ElementsMatch(t, []uint{10, 11}, categoryIDs(produce.ActiveCategories))
	assert.Equal(t, 1, up.listCalls)
}

func TestSetCategoryActivePatchesCachedBoard(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	b, err := svc.SetCategoryActive(ctx, up, 1, 1, 10, false)
	require.NoError(t, err)

	produce, _ := b.Section(1)
	assert.Empty(t, produce.ActiveCategories)
	assert.True(t, produce.Section.IsActive)
	assert.Equal(t, 1, up.listCalls)
}

func TestUpstreamErrorLeavesBoardUntouched(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	_, err = svc.SetSectionActive(ctx, up, 1, 1, 99, false)
	require.Error(t, err)

	b, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	produce, _ := b.Section(1)
	assert.Equal(t, []uint{10}, categoryIDs(produce.ActiveCategories))
}

func TestPatchFailureInvalidates(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	svc.Patch(1, func(b *Board) bool {
		return b.UpsertCategory(models.ExpenseCategory{ID: 99, SectionID: 42})
	})

	_, err = svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, up.listCalls)
}

func TestCachedBoardRequiresUpstreamAuthorizationPerUser(t *testing.T) {
	up := newFakeUpstream()
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	_, err = svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, up.listCalls)

	// ikinci kullanıcı önbellekten değil upstream'den okur
	up.denyUser = true
	_, err = svc.Board(ctx, up, 1, 2)
	require.Error(t, err)
	assert.True(t, apiclient.IsCode(err, apiclient.CodeInsufficientPerms))
	assert.Equal(t, 2, up.listCalls)

	up.denyUser = false
	_, err = svc.Board(ctx, up, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, up.listCalls)

	// iki kullanıcı da artık önbellekten okur
	_, err = svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)
	_, err = svc.Board(ctx, up, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, up.listCalls)
}

func TestToggleWithEmptyUpstreamRecord(t *testing.T) {
	up := newFakeUpstream()
	up.emptyReply = true
	svc := NewService(time.Minute)
	ctx := context.Background()

	_, err := svc.Board(ctx, up, 1, 1)
	require.NoError(t, err)

	b, err := svc.SetCategoryActive(ctx, up, 1, 1, 11, true)
	require.NoError(t, err)
	produce, ok := b.Section(1)
	require.True(t, ok)
	assert.ElementsMatch(t, []uint{10, 11}, categoryIDs(produce.ActiveCategories))
	for _, c := range produce.ActiveCategories {
		assert.True(t, c.IsActive)
	}

	b, err = svc.SetSectionActive(ctx, up, 1, 1, 1, false)
	require.NoError(t, err)
	assert.Empty(t, b.ActiveSections)
	require.Len(t, b.InactiveSections, 2)
	for _, n := range b.InactiveSections {
		assert.NotZero(t, n.Section.ID)
		assert.NotEmpty(t, n.Section.Name)
		assert.False(t, n.Section.IsActive)
	}
	assert.Equal(t, 1, up.listCalls)
}
