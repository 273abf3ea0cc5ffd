package expense

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/auth"
	"expense-backoffice/internal/database"
	"expense-backoffice/internal/httpx"
	"expense-backoffice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstreamServer bölüm/kategori uçlarını bellekte taklit eder. foreign-token
// başka bir işletmenin kullanıcısıdır.
type upstreamServer struct {
	mu       sync.Mutex
	sections []models.ExpenseSection
	cats     []models.ExpenseCategory
	nextID   uint
	// emptyToggle açıkken (de)aktive uçları 204 ve boş gövde döner
	emptyToggle bool
	calls       int
}

func (u *upstreamServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++

	switch r.Header.Get("Authorization") {
	case "Bearer up-token":
	case "Bearer foreign-token":
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error_code":"INSUFFICIENT_PERMISSIONS","detail":"Yetkiniz yok"}`))
		return
	default:
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	path := r.URL.Path
	var id uint
	switch {
	case r.Method == "GET" && path == "/expenses/sections":
		_ = json.NewEncoder(w).Encode(u.sections)
	case r.Method == "GET" && strings.HasSuffix(path, "/categories"):
		_, _ = fmt.Sscanf(path, "/expenses/sections/%d/categories", &id)
		out := []models.ExpenseCategory{}
		for _, c := range u.cats {
			if c.SectionID == id {
				out = append(out, c)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	case r.Method == "POST" && path == "/expenses/sections":
		var in apiclient.SectionInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Name == "Manav" {
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`{"error_code":"CONFLICT","detail":"Bu isimde bölüm var"}`))
			return
		}
		u.nextID++
		s := models.ExpenseSection{ID: u.nextID, BusinessID: in.BusinessID, Name: in.Name, OrderIndex: in.OrderIndex, IsActive: true}
		u.sections = append(u.sections, s)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(s)
	case r.Method == "PATCH" && strings.HasPrefix(path, "/expenses/sections/"):
		_, _ = fmt.Sscanf(path, "/expenses/sections/%d/", &id)
		u.toggleSection(w, id, strings.HasSuffix(path, "/activate"))
	case r.Method == "PATCH" && strings.HasPrefix(path, "/expenses/categories/"):
		_, _ = fmt.Sscanf(path, "/expenses/categories/%d/", &id)
		u.toggleCategory(w, id, strings.HasSuffix(path, "/activate"))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *upstreamServer) toggleSection(w http.ResponseWriter, id uint, active bool) {
	for i := range u.sections {
		if u.sections[i].ID != id {
			continue
		}
		u.sections[i].IsActive = active
		if !active {
			// sunucu kademeli pasifleştirir
			for j := range u.cats {
				if u.cats[j].SectionID == id {
					u.cats[j].IsActive = false
				}
			}
		}
		u.reply(w, u.sections[i])
		return
	}
	w.WriteHeader(http.StatusNotFound)
}

func (u *upstreamServer) toggleCategory(w http.ResponseWriter, id uint, active bool) {
	for i := range u.cats {
		if u.cats[i].ID == id {
			u.cats[i].IsActive = active
			u.reply(w, u.cats[i])
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (u *upstreamServer) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls
}

func (u *upstreamServer) reply(w http.ResponseWriter, v any) {
	if u.emptyToggle {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func newHandlerApp(t *testing.T) (*fiber.App, *upstreamServer) {
	t.Helper()
	_, err := database.UseTestDB()
	require.NoError(t, err)

	up := &upstreamServer{
		nextID: 100,
		sections: []models.ExpenseSection{
			{ID: 1, BusinessID: 7, Name: "Manav", OrderIndex: 1, IsActive: true},
			{ID: 2, BusinessID: 7, Name: "Süt Ürünleri", OrderIndex: 0, IsActive: true},
		},
		cats: []models.ExpenseCategory{
			{ID: 10, SectionID: 1, Name: "Domates", IsActive: true},
			{ID: 11, SectionID: 1, Name: "Soğan", IsActive: true},
			{ID: 20, SectionID: 2, Name: "Süt", IsActive: true},
		},
	}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	api := apiclient.New(srv.URL, 2*time.Second)
	svc := NewService(time.Minute)

	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		biz := uint(7)
		sess := &auth.Session{ID: "s", UserID: 1, UserName: "Ali", BusinessID: &biz, AccessToken: "up-token"}
		if c.Get("X-Test-User") == "veli" {
			// oturumu 7'yi gösteren ama upstream'de üye olmayan kullanıcı
			sess = &auth.Session{ID: "v", UserID: 2, UserName: "Veli", BusinessID: &biz, AccessToken: "foreign-token"}
		}
		c.Locals(auth.CtxSessionKey, sess)
		return c.Next()
	})
	app.Get("/expense-board", BoardHandler(svc, api))
	app.Post("/sections", CreateSectionHandler(svc, api))
	app.Patch("/sections/:id/activate", SetSectionActiveHandler(svc, api, true))
	app.Patch("/sections/:id/deactivate", SetSectionActiveHandler(svc, api, false))
	app.Patch("/categories/:id/activate", SetCategoryActiveHandler(svc, api, true))
	app.Patch("/categories/:id/deactivate", SetCategoryActiveHandler(svc, api, false))
	return app, up
}

func decodeBoard(t *testing.T, resp *http.Response) Board {
	t.Helper()
	var b Board
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
	return b
}

func TestBoardHandlerOrdersSections(t *testing.T) {
	app, _ := newHandlerApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	b := decodeBoard(t, resp)
	require.Len(t, b.ActiveSections, 2)
	assert.Equal(t, "Süt Ürünleri", b.ActiveSections[0].Section.Name)
	assert.Equal(t, "Manav", b.ActiveSections[1].Section.Name)
}

func TestDeactivateSectionHandlerCascades(t *testing.T) {
	app, _ := newHandlerApp(t)

	_, err := app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("PATCH", "/sections/1/deactivate?show_inactive=true", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	b := decodeBoard(t, resp)
	require.Len(t, b.ActiveSections, 1)
	require.Len(t, b.InactiveSections, 1)
	node := b.InactiveSections[0]
	assert.Equal(t, uint(1), node.Section.ID)
	assert.Empty(t, node.ActiveCategories)
	assert.Len(t, node.InactiveCategories, 2)

	var logs []models.AuditLog
	require.NoError(t, database.DB.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, models.AuditActionDeactivate, logs[0].Action)
}

func TestBoardHidesInactiveByDefault(t *testing.T) {
	app, _ := newHandlerApp(t)

	_, err := app.Test(httptest.NewRequest("PATCH", "/sections/1/deactivate", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)
	b := decodeBoard(t, resp)
	assert.Empty(t, b.InactiveSections)
	assert.Len(t, b.ActiveSections, 1)
}

func TestCreateSectionHandler(t *testing.T) {
	app, _ := newHandlerApp(t)

	_, err := app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)

	post := func(body string) *http.Response {
		req := httptest.NewRequest("POST", "/sections", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := post(`{"name":"  Et  ","order_index":5}`)
	require.Equal(t, 201, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)
	b := decodeBoard(t, resp)
	require.Len(t, b.ActiveSections, 3)
	assert.Equal(t, "Et", b.ActiveSections[2].Section.Name)

	resp = post(`{"name":""}`)
	assert.Equal(t, 422, resp.StatusCode)

	resp = post(`{"name":"Manav"}`)
	assert.Equal(t, 409, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Bu isimde bölüm var", body["detail"])
}

func TestCachedBoardNotServedToUnauthorizedUser(t *testing.T) {
	app, up := newHandlerApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	req := httptest.NewRequest("GET", "/expense-board", nil)
	req.Header.Set("X-Test-User", "veli")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, apiclient.CodeInsufficientPerms, body["error_code"])
	assert.NotContains(t, body, "active_sections")

	// yetkili kullanıcı önbellekten okumaya devam eder
	calls := up.callCount()
	resp, err = app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, calls, up.callCount())
}

func TestToggleWithEmptyUpstreamBody(t *testing.T) {
	app, up := newHandlerApp(t)
	up.mu.Lock()
	up.emptyToggle = true
	up.mu.Unlock()

	_, err := app.Test(httptest.NewRequest("GET", "/expense-board", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("PATCH", "/sections/1/deactivate?show_inactive=true", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	b := decodeBoard(t, resp)
	require.Len(t, b.ActiveSections, 1)
	require.Len(t, b.InactiveSections, 1)
	assert.Equal(t, "Manav", b.InactiveSections[0].Section.Name)
	assert.False(t, b.InactiveSections[0].Section.IsActive)
	assert.Len(t, b.InactiveSections[0].InactiveCategories, 2)
	for _, n := range append(b.ActiveSections, b.InactiveSections...) {
		assert.NotZero(t, n.Section.ID)
	}

	resp, err = app.Test(httptest.NewRequest("PATCH", "/sections/1/activate?show_inactive=true", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	b = decodeBoard(t, resp)
	require.Len(t, b.ActiveSections, 2)
	assert.Empty(t, b.InactiveSections)

	resp, err = app.Test(httptest.NewRequest("PATCH", "/categories/20/deactivate?show_inactive=true", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	b = decodeBoard(t, resp)
	node, ok := b.Section(2)
	require.True(t, ok)
	assert.Empty(t, node.ActiveCategories)
	require.Len(t, node.InactiveCategories, 1)
	assert.Equal(t, "Süt", node.InactiveCategories[0].Name)

	resp, err = app.Test(httptest.NewRequest("PATCH", "/categories/20/activate", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	b = decodeBoard(t, resp)
	node, ok = b.Section(2)
	require.True(t, ok)
	require.Len(t, node.ActiveCategories, 1)
	assert.True(t, node.ActiveCategories[0].IsActive)
}
