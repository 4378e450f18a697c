package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// CatalogStore defines the database methods needed by catalog handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CatalogStore interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]database.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (database.Category, error)
	CreateCategory(ctx context.Context, arg database.CreateCategoryParams) (database.Category, error)
	UpdateCategory(ctx context.Context, arg database.UpdateCategoryParams) (database.Category, error)
	ListProducts(ctx context.Context, arg database.ListProductsParams) ([]database.Product, error)
	SearchProducts(ctx context.Context, arg database.SearchProductsParams) ([]database.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (database.Product, error)
	CreateProduct(ctx context.Context, arg database.CreateProductParams) (database.Product, error)
	UpdateProduct(ctx context.Context, arg database.UpdateProductParams) (database.Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) (int64, error)
}

// CatalogHandler handles category and product endpoints.
type CatalogHandler struct {
	store CatalogStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// RegisterCategoryRoutes registers category endpoints.
func (h *CatalogHandler) RegisterCategoryRoutes(r chi.Router) {
	r.Get("/", h.ListCategories)
	r.Post("/", h.CreateCategory)
	r.Patch("/{id}", h.UpdateCategory)
}

// RegisterProductRoutes registers product endpoints.
func (h *CatalogHandler) RegisterProductRoutes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Get("/search", h.SearchProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/{id}", h.GetProduct)
	r.Patch("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeactivateProduct)
}

// --- Request / Response types ---

type categoryRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parent_id"`
	IsActive *bool  `json:"is_active"`
}

type categoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ParentID  *string   `json:"parent_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type productRequest struct {
	Name       string `json:"name"`
	Sku        string `json:"sku"`
	CategoryID string `json:"category_id"`
	SalePrice  string `json:"sale_price"`
	CostPrice  string `json:"cost_price"`
	IsActive   *bool  `json:"is_active"`
}

type productResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Sku        *string   `json:"sku"`
	CategoryID uuid.UUID `json:"category_id"`
	SalePrice  string    `json:"sale_price"`
	CostPrice  *string   `json:"cost_price"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// --- Category handlers ---

// ListCategories handles GET /categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	categories, err := h.store.ListCategories(r.Context(), activeOnly)
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = toCategoryResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateCategory handles POST /categories.
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	parentID := pgtype.UUID{}
	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parent_id"})
			return
		}
		parentID = pgtype.UUID{Bytes: pid, Valid: true}
	}

	category, err := h.store.CreateCategory(r.Context(), database.CreateCategoryParams{
		Name:     req.Name,
		ParentID: parentID,
	})
	if err != nil {
		log.Printf("ERROR: create category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory handles PATCH /categories/{id}.
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category ID"})
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	current, err := h.store.GetCategory(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "category not found"})
			return
		}
		log.Printf("ERROR: get category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	parentID := current.ParentID
	if req.ParentID != "" {
		pid, err := uuid.Parse(req.ParentID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parent_id"})
			return
		}
		parentID = pgtype.UUID{Bytes: pid, Valid: true}
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.store.UpdateCategory(r.Context(), database.UpdateCategoryParams{
		ID:       id,
		Name:     name,
		ParentID: parentID,
		IsActive: isActive,
	})
	if err != nil {
		log.Printf("ERROR: update category: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

// --- Product handlers ---

// ListProducts handles GET /products with optional category and active
// filters.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	offset := 0
	if s := r.URL.Query().Get("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	params := database.ListProductsParams{
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      int32(limit),
		Offset:     int32(offset),
	}
	if s := r.URL.Query().Get("category_id"); s != "" {
		cid, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		params.CategoryID = pgtype.UUID{Bytes: cid, Valid: true}
	}

	products, err := h.store.ListProducts(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchProducts handles GET /products/search?q=: active products
// matching name or SKU, for the till's lookup box.
func (h *CatalogHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
		return
	}

	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > 100 {
		limit = 100
	}

	products, err := h.store.SearchProducts(r.Context(), database.SearchProductsParams{
		Query: q,
		Limit: int32(limit),
	})
	if err != nil {
		log.Printf("ERROR: search products: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /products/{id}.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	product, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.CategoryID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "category_id is required"})
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
		return
	}

	price, err := decimal.NewFromString(req.SalePrice)
	if err != nil || price.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_price"})
		return
	}

	sku := pgtype.Text{}
	if req.Sku != "" {
		sku = pgtype.Text{String: req.Sku, Valid: true}
	}

	var salePrice pgtype.Numeric
	_ = salePrice.Scan(price.StringFixed(2))

	costPrice := pgtype.Numeric{}
	if req.CostPrice != "" {
		cost, err := decimal.NewFromString(req.CostPrice)
		if err != nil || cost.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cost_price"})
			return
		}
		_ = costPrice.Scan(cost.StringFixed(2))
	}

	product, err := h.store.CreateProduct(r.Context(), database.CreateProductParams{
		CategoryID: categoryID,
		Name:       req.Name,
		Sku:        sku,
		SalePrice:  salePrice,
		CostPrice:  costPrice,
	})
	if err != nil {
		log.Printf("ERROR: create product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(product))
}

// UpdateProduct handles PATCH /products/{id}. Price changes never touch
// existing order items; those keep the unit price captured at order time.
func (h *CatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	current, err := h.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
			return
		}
		log.Printf("ERROR: get product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	sku := current.Sku
	if req.Sku != "" {
		sku = pgtype.Text{String: req.Sku, Valid: true}
	}
	categoryID := current.CategoryID
	if req.CategoryID != "" {
		cid, err := uuid.Parse(req.CategoryID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid category_id"})
			return
		}
		categoryID = cid
	}
	salePrice := current.SalePrice
	if req.SalePrice != "" {
		price, err := decimal.NewFromString(req.SalePrice)
		if err != nil || price.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale_price"})
			return
		}
		_ = salePrice.Scan(price.StringFixed(2))
	}
	costPrice := current.CostPrice
	if req.CostPrice != "" {
		cost, err := decimal.NewFromString(req.CostPrice)
		if err != nil || cost.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cost_price"})
			return
		}
		_ = costPrice.Scan(cost.StringFixed(2))
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.store.UpdateProduct(r.Context(), database.UpdateProductParams{
		ID:         id,
		CategoryID: categoryID,
		Name:       name,
		Sku:        sku,
		SalePrice:  salePrice,
		CostPrice:  costPrice,
		IsActive:   isActive,
	})
	if err != nil {
		log.Printf("ERROR: update product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(updated))
}

// DeactivateProduct handles DELETE /products/{id}: soft delete so
// historical order items keep their product reference.
func (h *CatalogHandler) DeactivateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid product ID"})
		return
	}

	updated, err := h.store.DeactivateProduct(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: deactivate product: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if updated == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "product not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func toCategoryResponse(c database.Category) categoryResponse {
	resp := categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
	if c.ParentID.Valid {
		s := uuid.UUID(c.ParentID.Bytes).String()
		resp.ParentID = &s
	}
	return resp
}

func toProductResponse(p database.Product) productResponse {
	resp := productResponse{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		SalePrice:  numericToString(p.SalePrice),
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.Sku.Valid {
		resp.Sku = &p.Sku.String
	}
	if p.CostPrice.Valid {
		s := numericToString(p.CostPrice)
		resp.CostPrice = &s
	}
	return resp
}
