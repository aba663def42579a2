package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shopstream/backend/internal/domain"
	"github.com/shopstream/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search     *usecase.SearchService
	catalog    *usecase.CatalogService
	products   domain.ProductRepository
	users      domain.UserRepository
	orders     domain.OrderRepository
	categories domain.CategoryRepository
}

// NewHandler creates a new HTTP handler
func NewHandler(
	search *usecase.SearchService,
	catalog *usecase.CatalogService,
	products domain.ProductRepository,
	users domain.UserRepository,
	orders domain.OrderRepository,
	categories domain.CategoryRepository,
) *Handler {
	return &Handler{
		search:     search,
		catalog:    catalog,
		products:   products,
		users:      users,
		orders:     orders,
		categories: categories,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"service":       "shopstream-backend",
		"version":       "1.0.0",
		"catalogLoaded": h.catalog.Loaded(),
	})
}

// Search handles storefront search requests. Malformed numeric
// parameters fall back to defaults instead of erroring so a bad
// query string never breaks the storefront.
func (h *Handler) Search(c *gin.Context) {
	req := domain.SearchRequest{
		Query:       c.Query("q"),
		Vendor:      c.Query("filterByVendor"),
		ProductType: c.Query("filterByType"),
		SortBy:      c.Query("sortBy"),
		InStockOnly: c.Query("inStock") == "true",
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		req.Page = page
	}
	if pageSize, err := strconv.Atoi(c.Query("pageSize")); err == nil {
		req.PageSize = pageSize
	}
	if min, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		req.MinPrice = &min
	}
	if max, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		req.MaxPrice = &max
	}

	resp, err := h.search.Search(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProduct returns a single approved product row by ID.
func (h *Handler) GetProduct(c *gin.Context) {
	row, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if row.Status != domain.ProductStatusApproved {
		h.respondError(c, domain.ErrProductNotFound)
		return
	}
	c.JSON(http.StatusOK, row)
}

// CreateProduct creates a product directly in the approved state.
func (h *Handler) CreateProduct(c *gin.Context) {
	row, ok := h.bindProduct(c)
	if !ok {
		return
	}
	row.Status = domain.ProductStatusApproved

	if err := h.products.Insert(c.Request.Context(), *row); err != nil {
		h.respondError(c, err)
		return
	}
	h.catalog.Invalidate()
	c.JSON(http.StatusCreated, row)
}

// UpdateProduct replaces an existing product row.
func (h *Handler) UpdateProduct(c *gin.Context) {
	row, ok := h.bindProduct(c)
	if !ok {
		return
	}

	existing, err := h.products.GetByID(c.Request.Context(), row.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if row.Status == "" {
		row.Status = existing.Status
	}

	if err := h.products.Update(c.Request.Context(), *row); err != nil {
		h.respondError(c, err)
		return
	}
	h.catalog.Invalidate()
	c.JSON(http.StatusOK, row)
}

// DeleteProduct removes a product row.
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.catalog.Invalidate()
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// ListApprovals returns products awaiting review.
func (h *Handler) ListApprovals(c *gin.Context) {
	rows, err := h.products.List(c.Request.Context(), domain.ProductStatusPending)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if rows == nil {
		rows = []domain.ProductRow{}
	}
	c.JSON(http.StatusOK, gin.H{"products": rows})
}

type approvalRequest struct {
	ID     string `json:"id" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// UpdateApproval approves or rejects a pending product.
func (h *Handler) UpdateApproval(c *gin.Context) {
	var req approvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id and action are required"})
		return
	}

	var status string
	switch req.Action {
	case "approve":
		status = domain.ProductStatusApproved
	case "reject":
		status = domain.ProductStatusRejected
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be approve or reject"})
		return
	}

	if err := h.products.SetStatus(c.Request.Context(), req.ID, status); err != nil {
		h.respondError(c, err)
		return
	}
	h.catalog.Invalidate()
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "status": status})
}

// ListUsers returns the user directory.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListCategories returns all product categories.
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateCategory adds a new product category.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	category, err := h.categories.Insert(c.Request.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// CreateVendorProduct submits a vendor product for review. The row
// enters the pending state and stays out of the catalog until an
// admin approves it.
func (h *Handler) CreateVendorProduct(c *gin.Context) {
	row, ok := h.bindProduct(c)
	if !ok {
		return
	}
	row.Status = domain.ProductStatusPending
	if vendor := c.GetHeader("X-User-Email"); vendor != "" && row.Vendor == "" {
		row.Vendor = vendor
	}

	if err := h.products.Insert(c.Request.Context(), *row); err != nil {
		h.respondError(c, err)
		return
	}
	h.catalog.Invalidate()
	c.JSON(http.StatusCreated, row)
}

// ListVendorOrders returns orders containing at least one item from
// the given vendor.
func (h *Handler) ListVendorOrders(c *gin.Context) {
	vendor := c.Query("vendor")
	if vendor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vendor query parameter is required"})
		return
	}

	all, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	matched := []domain.Order{}
	for _, order := range all {
		if order.ContainsVendor(vendor) {
			matched = append(matched, order)
		}
	}
	c.JSON(http.StatusOK, gin.H{"orders": matched})
}

type orderRequest struct {
	UserEmail string             `json:"user_email" binding:"required"`
	Items     []domain.OrderItem `json:"items" binding:"required"`
}

// CreateOrder places a new order.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_email and items are required"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order must contain at least one item"})
		return
	}

	var total float64
	for _, item := range req.Items {
		if item.Quantity <= 0 || item.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item quantities must be positive and prices non-negative"})
			return
		}
		total += item.Price * float64(item.Quantity)
	}

	order := domain.Order{
		ID:        uuid.New().String(),
		UserEmail: req.UserEmail,
		Items:     req.Items,
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.orders.Insert(c.Request.Context(), order); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListOrders returns orders for one user, or every order when the
// caller is an admin and no email filter is given.
func (h *Handler) ListOrders(c *gin.Context) {
	email := c.Query("email")
	ctx := c.Request.Context()

	var (
		orders []domain.Order
		err    error
	)
	if email == "" {
		if c.GetHeader("X-User-Role") != domain.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email query parameter is required"})
			return
		}
		orders, err = h.orders.ListAll(ctx)
	} else {
		orders, err = h.orders.ListForUser(ctx, email)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) bindProduct(c *gin.Context) (*domain.ProductRow, bool) {
	var row domain.ProductRow
	if err := c.ShouldBindJSON(&row); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product payload"})
		return nil, false
	}
	row.ID = strings.TrimSpace(row.ID)
	if row.ID == "" || strings.TrimSpace(row.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product id and title are required"})
		return nil, false
	}
	return &row, true
}

// respondError maps domain errors onto HTTP statuses.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateProduct):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
