package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	authsvc "github.com/livingwaters/fundraiser-backend/internal/auth"
	"github.com/livingwaters/fundraiser-backend/internal/broadcast"
	"github.com/livingwaters/fundraiser-backend/internal/journal"
	ordersvc "github.com/livingwaters/fundraiser-backend/internal/orders"
	productsvc "github.com/livingwaters/fundraiser-backend/internal/products"
	"github.com/livingwaters/fundraiser-backend/internal/store"
	"github.com/livingwaters/fundraiser-backend/pkg/config"
	"github.com/livingwaters/fundraiser-backend/pkg/model"
	"github.com/livingwaters/fundraiser-backend/pkg/session"
)

const testAdminPassword = "open-sesame"

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "development", Port: "3000"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret-router-test-secret",
			Issuer:            "fundraiser-api",
			ExpirationMinutes: 60,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    8192,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		Push: config.PushConfig{SendQueueSize: 8},
	}
}

func newTestRouter(t *testing.T) (http.Handler, *store.Store) {
	return newTestRouterWithJournal(t, nil)
}

func newTestRouterWithJournal(t *testing.T, jrnl *journal.Journal) (http.Handler, *store.Store) {
	t.Helper()

	cfg := testConfig()
	st := store.New()
	hub := broadcast.NewHub(cfg.Push.SendQueueSize, nil)

	var audit ordersvc.AuditLog
	if jrnl != nil {
		audit = jrnl
	}
	orders, err := ordersvc.NewService(ordersvc.ServiceParams{Store: st, Publisher: hub, Audit: audit})
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	products, err := productsvc.NewService(productsvc.ServiceParams{Store: st, Publisher: hub})
	if err != nil {
		t.Fatalf("products service: %v", err)
	}
	auth, err := authsvc.NewService(authsvc.ServiceParams{
		JWT:             cfg.JWT,
		Password:        cfg.Password,
		Sessions:        session.NewMemoryStore(),
		InitialPassword: testAdminPassword,
	})
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}

	router := NewRouter(Deps{
		Config:   cfg,
		Store:    st,
		Hub:      hub,
		Orders:   orders,
		Products: products,
		Auth:     auth,
		Journal:  jrnl,
		Now:      func() time.Time { return time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) },
	})
	return router, st
}

func newTestJournal(t *testing.T) *journal.Journal {
	t.Helper()
	jrnl, err := journal.New(context.Background(), config.JournalConfig{
		Driver: "sqlite",
		DSN:    "file:router_journal_" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	t.Cleanup(func() { _ = jrnl.Close() })
	return jrnl
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAdmin(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{"password": testAdminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if envelope.Data.Token == "" {
		t.Fatal("login returned empty token")
	}
	return envelope.Data.Token
}

func seedProducts(t *testing.T, router http.Handler) {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/products/sync", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body %s", rec.Code, rec.Body.String())
	}
}

func orderBody() map[string]any {
	return map[string]any{
		"customerName":    "Dana Fields",
		"customerContact": "555-0101",
		"deliveryOption":  "Pickup",
		"donationAmount":  25,
		"items": []map[string]any{
			{"productId": "lemon-ginger", "size": "7-Pack (2oz shots)", "quantity": 2},
		},
	}
}

func TestHealthLive(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestCreateOrderFlow(t *testing.T) {
	router, st := newTestRouter(t)
	seedProducts(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/orders", "", orderBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data model.Order `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode order: %v", err)
	}
	// 2 units * $50 + $25 donation
	if envelope.Data.TotalPrice != 125 {
		t.Errorf("totalPrice = %d, want 125", envelope.Data.TotalPrice)
	}
	if len(st.Orders()) != 1 {
		t.Errorf("store holds %d orders, want 1", len(st.Orders()))
	}

	list := doJSON(t, router, http.MethodGet, "/api/orders", "", nil)
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
}

func TestCreateOrderRejectsEmptyCartWithoutDonation(t *testing.T) {
	router, _ := newTestRouter(t)
	seedProducts(t, router)

	body := orderBody()
	body["items"] = []map[string]any{}
	body["donationAmount"] = 0
	rec := doJSON(t, router, http.MethodPost, "/api/orders", "", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestPatchOrderRequiresAdmin(t *testing.T) {
	router, st := newTestRouter(t)
	seedProducts(t, router)
	doJSON(t, router, http.MethodPost, "/api/orders", "", orderBody())
	orderID := st.Orders()[0].ID

	patch := map[string]any{"isFulfilled": true}
	path := fmt.Sprintf("/api/orders/%s", orderID)

	if rec := doJSON(t, router, http.MethodPatch, path, "", patch); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated patch status = %d, want 401", rec.Code)
	}
	if rec := doJSON(t, router, http.MethodPatch, path, "garbage-token", patch); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token patch status = %d, want 401", rec.Code)
	}

	token := loginAdmin(t, router)
	rec := doJSON(t, router, http.MethodPatch, path, token, patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	if order, _ := st.GetOrder(orderID); !order.IsFulfilled {
		t.Error("order not fulfilled after admin patch")
	}
}

func TestPatchUnknownOrderReturns404(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodPatch, "/api/orders/order-nope", token, map[string]any{"isFulfilled": true})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", rec.Code, rec.Body.String())
	}
}

func TestSyncProductsIsIdempotent(t *testing.T) {
	router, st := newTestRouter(t)
	seedProducts(t, router)
	if len(st.Products()) != 6 {
		t.Fatalf("products = %d, want 6", len(st.Products()))
	}

	seedProducts(t, router)
	if len(st.Products()) != 6 {
		t.Errorf("products after resync = %d, want 6", len(st.Products()))
	}
}

func TestSyncProductsIgnoresPostedCatalog(t *testing.T) {
	router, st := newTestRouter(t)

	posted := []map[string]any{{"id": "rogue", "name": "Rogue Shot", "available": true}}
	rec := doJSON(t, router, http.MethodPost, "/api/products/sync", "", posted)
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(st.Products()) != 6 {
		t.Fatalf("products = %d, want the server catalog's 6", len(st.Products()))
	}
	if _, ok := st.GetProduct("rogue"); ok {
		t.Error("posted catalog entry must not reach the store")
	}
}

func TestSyncProductsRejectsMalformedBody(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/products/sync", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestJournalEndpoint(t *testing.T) {
	jrnl := newTestJournal(t)
	router, _ := newTestRouterWithJournal(t, jrnl)
	seedProducts(t, router)
	doJSON(t, router, http.MethodPost, "/api/orders", "", orderBody())

	if rec := doJSON(t, router, http.MethodGet, "/api/admin/journal", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}

	token := loginAdmin(t, router)
	rec := doJSON(t, router, http.MethodGet, "/api/admin/journal", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data []journal.OrderRecord `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode journal: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("journal records = %d, want 1", len(envelope.Data))
	}
	if envelope.Data[0].Action != "created" || envelope.Data[0].Customer != "Dana Fields" {
		t.Errorf("record = %+v", envelope.Data[0])
	}

	if rec := doJSON(t, router, http.MethodGet, "/api/admin/journal?limit=0", token, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("limit=0 status = %d, want 400", rec.Code)
	}
}

func TestJournalEndpointWithoutJournal(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/admin/journal", token, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503; body %s", rec.Code, rec.Body.String())
	}
}

func TestProductPatchRequiresAdmin(t *testing.T) {
	router, st := newTestRouter(t)
	seedProducts(t, router)

	patch := map[string]any{"available": false}
	if rec := doJSON(t, router, http.MethodPatch, "/api/products/lemon-ginger", "", patch); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated patch status = %d, want 401", rec.Code)
	}

	token := loginAdmin(t, router)
	rec := doJSON(t, router, http.MethodPatch, "/api/products/lemon-ginger", token, patch)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin patch status = %d, body %s", rec.Code, rec.Body.String())
	}
	if product, _ := st.GetProduct("lemon-ginger"); product.Available {
		t.Error("product still available after patch")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	router, _ := newTestRouter(t)
	token := loginAdmin(t, router)

	if rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout status = %d", rec.Code)
	}
	rec := doJSON(t, router, http.MethodPatch, "/api/orders/order-x", token, map[string]any{"isFulfilled": true})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status after logout = %d, want 401", rec.Code)
	}
}

func TestScheduleEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/schedule", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope struct {
		Data []struct {
			Date  time.Time `json:"date"`
			Group string    `json:"group"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode schedule: %v", err)
	}
	if len(envelope.Data) != 8 {
		t.Fatalf("schedule entries = %d, want 8", len(envelope.Data))
	}
	if envelope.Data[0].Group != string(model.GroupPathfinders) {
		t.Errorf("first group = %s", envelope.Data[0].Group)
	}

	if rec := doJSON(t, router, http.MethodGet, "/api/schedule?weeks=99", "", nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("oversized weeks status = %d, want 400", rec.Code)
	}
}

func TestReportsRequireAdmin(t *testing.T) {
	router, _ := newTestRouter(t)
	seedProducts(t, router)
	doJSON(t, router, http.MethodPost, "/api/orders", "", orderBody())

	paths := []string{
		"/api/admin/reports/production",
		"/api/admin/reports/shopping-list",
		"/api/admin/reports/sales",
		"/api/admin/reports/delivery-route",
	}
	for _, path := range paths {
		if rec := doJSON(t, router, http.MethodGet, path, "", nil); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s unauthenticated status = %d, want 401", path, rec.Code)
		}
	}

	token := loginAdmin(t, router)
	for _, path := range paths {
		if rec := doJSON(t, router, http.MethodGet, path, token, nil); rec.Code != http.StatusOK {
			t.Errorf("%s admin status = %d, body %s", path, rec.Code, rec.Body.String())
		}
	}
}
