package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/shopstream/backend/config"
	"github.com/shopstream/backend/internal/domain"
	"github.com/shopstream/backend/internal/infrastructure/sqlite"
	"github.com/shopstream/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	exitCode := m.Run()
	os.Exit(exitCode)
}

// setupTestRouter wires a router against a fresh on-disk store with
// snapshots disabled. Returns the store so tests can seed data
// directly.
func setupTestRouter(t *testing.T) (*gin.Engine, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.NewStore(filepath.Join(t.TempDir(), "products.db"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Search: config.SearchConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		RateLimit: config.RateLimitConfig{
			PerIP: 10000,
		},
	}

	catalog := usecase.NewCatalogService(store.Products(), nil, usecase.CatalogServiceConfig{
		DefaultCurrency: "GBP",
	})
	search := usecase.NewSearchService(catalog, usecase.SearchServiceConfig{
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	})
	handler := NewHandler(search, catalog, store.Products(), store.Users(), store.Orders(), store.Categories())

	return SetupRouter(cfg, handler), store
}

func doRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func asAdmin(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return doRequest(router, method, path, body, map[string]string{"X-User-Role": "admin"})
}

func decodeSearch(t *testing.T, w *httptest.ResponseRecorder) *domain.SearchResponse {
	t.Helper()
	var resp domain.SearchResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding search response: %v\nbody: %s", err, w.Body.String())
	}
	return &resp
}

func productPayload(id, title string) string {
	return fmt.Sprintf(`{"id":%q,"title":%q,"vendor":"Acme","product_type":"Kitchen","quantity":3,"min_price":9.99,"max_price":9.99,"currency":"GBP"}`, id, title)
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "GET", "/health", "", nil)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}

		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decoding body: %v", err)
		}
		if body["status"] != "healthy" {
			t.Errorf("status field = %v, want healthy", body["status"])
		}
	})
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("empty catalog returns shaped empty response", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "GET", "/api/v1/search", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		resp := decodeSearch(t, w)
		if resp.Total != 0 || len(resp.Results) != 0 {
			t.Errorf("response not empty: %+v", resp)
		}
	})

	t.Run("finds created product by query", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		if w := asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug")); w.Code != http.StatusCreated {
			t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
		}

		resp := decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=mug", "", nil))
		if resp.Total != 1 || len(resp.Results) != 1 {
			t.Fatalf("Total = %d, want 1", resp.Total)
		}
		doc := resp.Results[0]
		if doc.ID != "7" || doc.Title != "Blue Mug" || doc.MinPrice != 9.99 || doc.Currency != "GBP" {
			t.Errorf("document = %+v", doc)
		}
	})

	t.Run("type filter excludes non-matching products", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"))

		resp := decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=mug&filterByType=Kitchen", "", nil))
		if resp.Total != 1 {
			t.Errorf("Kitchen filter Total = %d, want 1", resp.Total)
		}

		resp = decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=mug&filterByType=Bathroom", "", nil))
		if resp.Total != 0 {
			t.Errorf("Bathroom filter Total = %d, want 0", resp.Total)
		}
	})

	t.Run("malformed numeric params default instead of erroring", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"))

		w := doRequest(router, "GET", "/api/v1/search?page=banana&pageSize=-3&minPrice=abc", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		resp := decodeSearch(t, w)
		if resp.Page != 1 || resp.PageSize != 20 {
			t.Errorf("paging = %d/%d, want 1/20", resp.Page, resp.PageSize)
		}
		if resp.Total != 1 {
			t.Errorf("Total = %d, want 1 (minPrice ignored)", resp.Total)
		}
	})
}

func TestAdminProductEndpoints(t *testing.T) {
	t.Run("requires admin role", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := doRequest(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"), nil)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
		w = doRequest(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"),
			map[string]string{"X-User-Role": "vendor"})
		if w.Code != http.StatusForbidden {
			t.Errorf("vendor status = %d, want 403", w.Code)
		}
	})

	t.Run("duplicate create conflicts", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		if w := asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug")); w.Code != http.StatusCreated {
			t.Fatalf("first create status = %d", w.Code)
		}
		if w := asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug")); w.Code != http.StatusConflict {
			t.Errorf("second create status = %d, want 409", w.Code)
		}
	})

	t.Run("missing id rejected", func(t *testing.T) {
		router, _ := setupTestRouter(t)

		w := asAdmin(router, "POST", "/api/v1/admin/products", `{"title":"No ID"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("update is visible in search after invalidation", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"))

		// Load the catalog, then write through the API.
		doRequest(router, "GET", "/api/v1/search", "", nil)

		if w := asAdmin(router, "PUT", "/api/v1/admin/products", productPayload("7", "Big Blue Mug")); w.Code != http.StatusOK {
			t.Fatalf("update status = %d: %s", w.Code, w.Body.String())
		}

		resp := decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=mug", "", nil))
		if len(resp.Results) != 1 || resp.Results[0].Title != "Big Blue Mug" {
			t.Errorf("results = %+v, want updated title", resp.Results)
		}
	})

	t.Run("delete removes product from search", func(t *testing.T) {
		router, _ := setupTestRouter(t)
		asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"))
		doRequest(router, "GET", "/api/v1/search", "", nil)

		if w := asAdmin(router, "DELETE", "/api/v1/admin/products/7", ""); w.Code != http.StatusOK {
			t.Fatalf("delete status = %d", w.Code)
		}
		resp := decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=mug", "", nil))
		if resp.Total != 0 {
			t.Errorf("Total = %d, want 0 after delete", resp.Total)
		}

		if w := asAdmin(router, "DELETE", "/api/v1/admin/products/7", ""); w.Code != http.StatusNotFound {
			t.Errorf("second delete status = %d, want 404", w.Code)
		}
	})
}

func TestApprovalWorkflow(t *testing.T) {
	router, _ := setupTestRouter(t)
	vendorHeaders := map[string]string{"X-User-Role": "vendor", "X-User-Email": "acme@example.com"}

	// Vendor submission enters pending and stays out of search.
	w := doRequest(router, "POST", "/api/v1/vendor/products", productPayload("42", "Steel Whisk"), vendorHeaders)
	if w.Code != http.StatusCreated {
		t.Fatalf("vendor create status = %d: %s", w.Code, w.Body.String())
	}
	resp := decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=whisk", "", nil))
	if resp.Total != 0 {
		t.Fatalf("pending product visible in search: %+v", resp.Results)
	}

	// It shows up in the admin approvals queue.
	w = asAdmin(router, "GET", "/api/v1/admin/approvals", "")
	var queue struct {
		Products []domain.ProductRow `json:"products"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &queue); err != nil {
		t.Fatalf("decoding approvals: %v", err)
	}
	if len(queue.Products) != 1 || queue.Products[0].ID != "42" {
		t.Fatalf("approvals queue = %+v, want product 42", queue.Products)
	}

	// Approving makes it searchable.
	w = asAdmin(router, "PUT", "/api/v1/admin/approvals", `{"id":"42","action":"approve"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("approve status = %d: %s", w.Code, w.Body.String())
	}
	resp = decodeSearch(t, doRequest(router, "GET", "/api/v1/search?q=whisk", "", nil))
	if resp.Total != 1 {
		t.Errorf("approved product not searchable: Total = %d", resp.Total)
	}

	// Unknown action rejected.
	w = asAdmin(router, "PUT", "/api/v1/admin/approvals", `{"id":"42","action":"promote"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad action status = %d, want 400", w.Code)
	}
}

func TestGetProductEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t)
	asAdmin(router, "POST", "/api/v1/admin/products", productPayload("7", "Blue Mug"))
	doRequest(router, "POST", "/api/v1/vendor/products", productPayload("42", "Steel Whisk"),
		map[string]string{"X-User-Role": "vendor"})

	t.Run("approved product found", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/products/7", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var row domain.ProductRow
		if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
			t.Fatalf("decoding row: %v", err)
		}
		if row.Title != "Blue Mug" {
			t.Errorf("Title = %q", row.Title)
		}
	})

	t.Run("pending product hidden", func(t *testing.T) {
		if w := doRequest(router, "GET", "/api/v1/products/42", "", nil); w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})

	t.Run("unknown product 404", func(t *testing.T) {
		if w := doRequest(router, "GET", "/api/v1/products/999", "", nil); w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestOrderEndpoints(t *testing.T) {
	router, _ := setupTestRouter(t)

	orderBody := `{"user_email":"shopper@example.com","items":[
		{"ID":"7","TITLE":"Blue Mug","VENDOR":"Acme","quantity":2,"price":9.99},
		{"ID":"8","TITLE":"Red Towel","VENDOR":"SoftGoods","quantity":1,"price":4.50}
	]}`

	w := doRequest(router, "POST", "/api/v1/orders", orderBody, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order status = %d: %s", w.Code, w.Body.String())
	}
	var order domain.Order
	if err := json.Unmarshal(w.Body.Bytes(), &order); err != nil {
		t.Fatalf("decoding order: %v", err)
	}
	if order.ID == "" {
		t.Error("order ID not assigned")
	}
	if order.Total != 2*9.99+4.50 {
		t.Errorf("Total = %v, want %v", order.Total, 2*9.99+4.50)
	}
	if order.Status != domain.OrderStatusPending {
		t.Errorf("Status = %q, want pending", order.Status)
	}

	t.Run("list by email", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/orders?email=shopper@example.com", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body struct {
			Orders []domain.Order `json:"orders"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decoding orders: %v", err)
		}
		if len(body.Orders) != 1 || body.Orders[0].ID != order.ID {
			t.Errorf("orders = %+v", body.Orders)
		}
	})

	t.Run("listing all requires admin", func(t *testing.T) {
		if w := doRequest(router, "GET", "/api/v1/orders", "", nil); w.Code != http.StatusBadRequest {
			t.Errorf("anonymous status = %d, want 400", w.Code)
		}
		if w := asAdmin(router, "GET", "/api/v1/orders", ""); w.Code != http.StatusOK {
			t.Errorf("admin status = %d, want 200", w.Code)
		}
	})

	t.Run("vendor order listing filters by vendor", func(t *testing.T) {
		vendorHeaders := map[string]string{"X-User-Role": "vendor"}

		w := doRequest(router, "GET", "/api/v1/vendor/orders?vendor=Acme", "", vendorHeaders)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		var body struct {
			Orders []domain.Order `json:"orders"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decoding orders: %v", err)
		}
		if len(body.Orders) != 1 {
			t.Errorf("Acme orders = %d, want 1", len(body.Orders))
		}

		w = doRequest(router, "GET", "/api/v1/vendor/orders?vendor=Nobody", "", vendorHeaders)
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decoding orders: %v", err)
		}
		if len(body.Orders) != 0 {
			t.Errorf("Nobody orders = %d, want 0", len(body.Orders))
		}
	})

	t.Run("empty items rejected", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/orders", `{"user_email":"shopper@example.com","items":[]}`, nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestCategoryEndpoints(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := asAdmin(router, "POST", "/api/v1/admin/categories", `{"name":"Kitchen"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}

	w = asAdmin(router, "GET", "/api/v1/admin/categories", "")
	var body struct {
		Categories []domain.Category `json:"categories"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding categories: %v", err)
	}
	if len(body.Categories) != 1 || body.Categories[0].Name != "Kitchen" {
		t.Errorf("categories = %+v", body.Categories)
	}

	// Duplicate names are rejected.
	if w := asAdmin(router, "POST", "/api/v1/admin/categories", `{"name":"Kitchen"}`); w.Code != http.StatusBadRequest {
		t.Errorf("duplicate status = %d, want 400", w.Code)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	router, store := setupTestRouter(t)

	w := asAdmin(router, "GET", "/api/v1/admin/users", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"users":[]`) {
		t.Errorf("empty directory body = %s", w.Body.String())
	}

	if err := store.Users().Upsert(context.Background(), domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	w = asAdmin(router, "GET", "/api/v1/admin/users", "")
	var body struct {
		Users []domain.User `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding users: %v", err)
	}
	if len(body.Users) != 1 || body.Users[0].Email != "admin@example.com" {
		t.Errorf("users = %+v", body.Users)
	}
}
