package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// ExpenseStore defines the database methods needed by expense handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ExpenseStore interface {
	ListUtilityTypes(ctx context.Context) ([]database.UtilityType, error)
	CreateUtilityType(ctx context.Context, name string) (database.UtilityType, error)
	CreateUtilityBill(ctx context.Context, arg database.CreateUtilityBillParams) (database.UtilityBill, error)
	ListUtilityBills(ctx context.Context, arg database.ListUtilityBillsParams) ([]database.UtilityBill, error)
	DeleteUtilityBill(ctx context.Context, id uuid.UUID) (int64, error)
	ListUnits(ctx context.Context) ([]database.Unit, error)
	CreateUnit(ctx context.Context, arg database.CreateUnitParams) (database.Unit, error)
	ListRawMaterials(ctx context.Context) ([]database.RawMaterial, error)
	CreateRawMaterial(ctx context.Context, arg database.CreateRawMaterialParams) (database.RawMaterial, error)
	CreatePurchase(ctx context.Context, arg database.CreatePurchaseParams) (database.RawMaterialPurchase, error)
	ListPurchases(ctx context.Context, arg database.ListPurchasesParams) ([]database.RawMaterialPurchase, error)
	CreateOtherExpense(ctx context.Context, arg database.CreateOtherExpenseParams) (database.OtherExpense, error)
	ListOtherExpenses(ctx context.Context, arg database.ListOtherExpensesParams) ([]database.OtherExpense, error)
	DeleteOtherExpense(ctx context.Context, id uuid.UUID) (int64, error)
}

// ExpenseHandler handles utility bills, raw material purchases, and
// miscellaneous expense endpoints.
type ExpenseHandler struct {
	store ExpenseStore
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(store ExpenseStore) *ExpenseHandler {
	return &ExpenseHandler{store: store}
}

// RegisterRoutes registers expense endpoints on the given Chi router.
func (h *ExpenseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/utility-types", h.ListUtilityTypes)
	r.Post("/utility-types", h.CreateUtilityType)
	r.Get("/utility-bills", h.ListUtilityBills)
	r.Post("/utility-bills", h.CreateUtilityBill)
	r.Delete("/utility-bills/{id}", h.DeleteUtilityBill)
	r.Get("/units", h.ListUnits)
	r.Post("/units", h.CreateUnit)
	r.Get("/raw-materials", h.ListRawMaterials)
	r.Post("/raw-materials", h.CreateRawMaterial)
	r.Get("/purchases", h.ListPurchases)
	r.Post("/purchases", h.CreatePurchase)
	r.Get("/other", h.ListOtherExpenses)
	r.Post("/other", h.CreateOtherExpense)
	r.Delete("/other/{id}", h.DeleteOtherExpense)
}

// --- Request / Response types ---

type nameRequest struct {
	Name string `json:"name"`
}

type namedResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type utilityBillRequest struct {
	UtilityTypeID string `json:"utility_type_id"`
	Amount        string `json:"amount"`
	BillDate      string `json:"bill_date"`
	Note          string `json:"note"`
}

type utilityBillResponse struct {
	ID            uuid.UUID `json:"id"`
	UtilityTypeID uuid.UUID `json:"utility_type_id"`
	Amount        string    `json:"amount"`
	BillDate      *string   `json:"bill_date"`
	Note          *string   `json:"note"`
	CreatedAt     time.Time `json:"created_at"`
}

type unitRequest struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type unitResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Symbol *string   `json:"symbol"`
}

type rawMaterialRequest struct {
	Name          string `json:"name"`
	DefaultUnitID string `json:"default_unit_id"`
}

type rawMaterialResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	DefaultUnitID uuid.UUID `json:"default_unit_id"`
}

type purchaseRequest struct {
	MaterialID   string `json:"material_id"`
	UnitID       string `json:"unit_id"`
	Quantity     string `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	PurchaseDate string `json:"purchase_date"`
	Vendor       string `json:"vendor"`
	Note         string `json:"note"`
}

type purchaseResponse struct {
	ID           uuid.UUID `json:"id"`
	MaterialID   uuid.UUID `json:"material_id"`
	UnitID       uuid.UUID `json:"unit_id"`
	Quantity     string    `json:"quantity"`
	UnitPrice    string    `json:"unit_price"`
	PurchaseDate *string   `json:"purchase_date"`
	Vendor       *string   `json:"vendor"`
	Note         *string   `json:"note"`
	CreatedAt    time.Time `json:"created_at"`
}

type otherExpenseRequest struct {
	Title       string `json:"title"`
	Amount      string `json:"amount"`
	ExpenseDate string `json:"expense_date"`
	Note        string `json:"note"`
}

type otherExpenseResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Amount      string    `json:"amount"`
	ExpenseDate *string   `json:"expense_date"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

// --- Utility handlers ---

// ListUtilityTypes handles GET /expenses/utility-types.
func (h *ExpenseHandler) ListUtilityTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListUtilityTypes(r.Context())
	if err != nil {
		log.Printf("ERROR: list utility types: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]namedResponse, len(types))
	for i, t := range types {
		resp[i] = namedResponse{ID: t.ID, Name: t.Name}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateUtilityType handles POST /expenses/utility-types.
func (h *ExpenseHandler) CreateUtilityType(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	t, err := h.store.CreateUtilityType(r.Context(), req.Name)
	if err != nil {
		log.Printf("ERROR: create utility type: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, namedResponse{ID: t.ID, Name: t.Name})
}

// CreateUtilityBill handles POST /expenses/utility-bills.
func (h *ExpenseHandler) CreateUtilityBill(w http.ResponseWriter, r *http.Request) {
	var req utilityBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	typeID, err := uuid.Parse(req.UtilityTypeID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid utility_type_id"})
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}
	billDate, ok := parseDateParam(req.BillDate)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid bill_date format, use YYYY-MM-DD"})
		return
	}

	bill, err := h.store.CreateUtilityBill(r.Context(), database.CreateUtilityBillParams{
		UtilityTypeID: typeID,
		Amount:        amount,
		BillDate:      billDate,
		Note:          optionalText(req.Note),
	})
	if err != nil {
		log.Printf("ERROR: create utility bill: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toUtilityBillResponse(bill))
}

// ListUtilityBills handles GET /expenses/utility-bills.
func (h *ExpenseHandler) ListUtilityBills(w http.ResponseWriter, r *http.Request) {
	params := database.ListUtilityBillsParams{}
	var ok bool
	if params.Limit, params.Offset, ok = parsePagination(r); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pagination"})
		return
	}
	if s := r.URL.Query().Get("utility_type_id"); s != "" {
		tid, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid utility_type_id"})
			return
		}
		params.UtilityTypeID = pgtype.UUID{Bytes: tid, Valid: true}
	}
	if params.StartDate, params.EndDate, ok = parseDateRange(r); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	bills, err := h.store.ListUtilityBills(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list utility bills: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]utilityBillResponse, len(bills))
	for i, b := range bills {
		resp[i] = toUtilityBillResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteUtilityBill handles DELETE /expenses/utility-bills/{id}.
func (h *ExpenseHandler) DeleteUtilityBill(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid utility bill ID"})
		return
	}

	deleted, err := h.store.DeleteUtilityBill(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: delete utility bill: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if deleted == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "utility bill not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Units and raw materials ---

// ListUnits handles GET /expenses/units.
func (h *ExpenseHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	units, err := h.store.ListUnits(r.Context())
	if err != nil {
		log.Printf("ERROR: list units: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]unitResponse, len(units))
	for i, u := range units {
		resp[i] = toUnitResponse(u)
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateUnit handles POST /expenses/units.
func (h *ExpenseHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	var req unitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	unit, err := h.store.CreateUnit(r.Context(), database.CreateUnitParams{
		Name:   req.Name,
		Symbol: optionalText(req.Symbol),
	})
	if err != nil {
		log.Printf("ERROR: create unit: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toUnitResponse(unit))
}

// ListRawMaterials handles GET /expenses/raw-materials.
func (h *ExpenseHandler) ListRawMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.store.ListRawMaterials(r.Context())
	if err != nil {
		log.Printf("ERROR: list raw materials: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]rawMaterialResponse, len(materials))
	for i, m := range materials {
		resp[i] = rawMaterialResponse{ID: m.ID, Name: m.Name, DefaultUnitID: m.DefaultUnitID}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateRawMaterial handles POST /expenses/raw-materials.
func (h *ExpenseHandler) CreateRawMaterial(w http.ResponseWriter, r *http.Request) {
	var req rawMaterialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	unitID, err := uuid.Parse(req.DefaultUnitID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid default_unit_id"})
		return
	}

	material, err := h.store.CreateRawMaterial(r.Context(), database.CreateRawMaterialParams{
		Name:          req.Name,
		DefaultUnitID: unitID,
	})
	if err != nil {
		log.Printf("ERROR: create raw material: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, rawMaterialResponse{
		ID:            material.ID,
		Name:          material.Name,
		DefaultUnitID: material.DefaultUnitID,
	})
}

// --- Purchases ---

// CreatePurchase handles POST /expenses/purchases.
func (h *ExpenseHandler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	materialID, err := uuid.Parse(req.MaterialID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid material_id"})
		return
	}
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid unit_id"})
		return
	}
	qty, err := decimal.NewFromString(req.Quantity)
	if err != nil || qty.LessThanOrEqual(decimal.Zero) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be positive"})
		return
	}
	var quantity pgtype.Numeric
	_ = quantity.Scan(qty.Round(3).StringFixed(3))

	unitPrice, ok := parseAmount(req.UnitPrice)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unit_price must be positive"})
		return
	}
	purchaseDate, ok := parseDateParam(req.PurchaseDate)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid purchase_date format, use YYYY-MM-DD"})
		return
	}

	purchase, err := h.store.CreatePurchase(r.Context(), database.CreatePurchaseParams{
		MaterialID:   materialID,
		UnitID:       unitID,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		PurchaseDate: purchaseDate,
		Vendor:       optionalText(req.Vendor),
		Note:         optionalText(req.Note),
	})
	if err != nil {
		log.Printf("ERROR: create purchase: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toPurchaseResponse(purchase))
}

// ListPurchases handles GET /expenses/purchases.
func (h *ExpenseHandler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	params := database.ListPurchasesParams{}
	var ok bool
	if params.Limit, params.Offset, ok = parsePagination(r); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pagination"})
		return
	}
	if s := r.URL.Query().Get("material_id"); s != "" {
		mid, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid material_id"})
			return
		}
		params.MaterialID = pgtype.UUID{Bytes: mid, Valid: true}
	}
	if params.StartDate, params.EndDate, ok = parseDateRange(r); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	purchases, err := h.store.ListPurchases(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list purchases: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]purchaseResponse, len(purchases))
	for i, p := range purchases {
		resp[i] = toPurchaseResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- Other expenses ---

// CreateOtherExpense handles POST /expenses/other.
func (h *ExpenseHandler) CreateOtherExpense(w http.ResponseWriter, r *http.Request) {
	var req otherExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	amount, ok := parseAmount(req.Amount)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
		return
	}
	expenseDate, ok := parseDateParam(req.ExpenseDate)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expense_date format, use YYYY-MM-DD"})
		return
	}

	expense, err := h.store.CreateOtherExpense(r.Context(), database.CreateOtherExpenseParams{
		Title:       req.Title,
		Amount:      amount,
		ExpenseDate: expenseDate,
		Note:        optionalText(req.Note),
	})
	if err != nil {
		log.Printf("ERROR: create other expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toOtherExpenseResponse(expense))
}

// ListOtherExpenses handles GET /expenses/other.
func (h *ExpenseHandler) ListOtherExpenses(w http.ResponseWriter, r *http.Request) {
	params := database.ListOtherExpensesParams{}
	var ok bool
	if params.Limit, params.Offset, ok = parsePagination(r); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pagination"})
		return
	}
	if params.StartDate, params.EndDate, ok = parseDateRange(r); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date format, use YYYY-MM-DD"})
		return
	}

	expenses, err := h.store.ListOtherExpenses(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list other expenses: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]otherExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toOtherExpenseResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteOtherExpense handles DELETE /expenses/other/{id}.
func (h *ExpenseHandler) DeleteOtherExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid expense ID"})
		return
	}

	deleted, err := h.store.DeleteOtherExpense(r.Context(), id)
	if err != nil {
		log.Printf("ERROR: delete other expense: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if deleted == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "expense not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Helpers ---

func parseAmount(s string) (pgtype.Numeric, bool) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.LessThanOrEqual(decimal.Zero) {
		return pgtype.Numeric{}, false
	}
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n, true
}

func parseDateParam(s string) (pgtype.Date, bool) {
	if s == "" {
		return pgtype.Date{}, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return pgtype.Date{}, false
	}
	return pgtype.Date{Time: t, Valid: true}, true
}

func parsePagination(r *http.Request) (limit, offset int32, ok bool) {
	limit = 20
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 {
			return 0, 0, false
		}
		limit = int32(v)
	}
	if limit > 100 {
		limit = 100
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return 0, 0, false
		}
		offset = int32(v)
	}
	return limit, offset, true
}

func parseDateRange(r *http.Request) (start, end pgtype.Date, ok bool) {
	start, ok = parseDateParam(r.URL.Query().Get("start_date"))
	if !ok {
		return pgtype.Date{}, pgtype.Date{}, false
	}
	end, ok = parseDateParam(r.URL.Query().Get("end_date"))
	if !ok {
		return pgtype.Date{}, pgtype.Date{}, false
	}
	return start, end, true
}

func optionalText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

func optionalDateString(d pgtype.Date) *string {
	if !d.Valid {
		return nil
	}
	s := d.Time.Format("2006-01-02")
	return &s
}

func toUtilityBillResponse(b database.UtilityBill) utilityBillResponse {
	resp := utilityBillResponse{
		ID:            b.ID,
		UtilityTypeID: b.UtilityTypeID,
		Amount:        numericToString(b.Amount),
		BillDate:      optionalDateString(b.BillDate),
		CreatedAt:     b.CreatedAt,
	}
	if b.Note.Valid {
		resp.Note = &b.Note.String
	}
	return resp
}

func toUnitResponse(u database.Unit) unitResponse {
	resp := unitResponse{ID: u.ID, Name: u.Name}
	if u.Symbol.Valid {
		resp.Symbol = &u.Symbol.String
	}
	return resp
}

func toPurchaseResponse(p database.RawMaterialPurchase) purchaseResponse {
	resp := purchaseResponse{
		ID:           p.ID,
		MaterialID:   p.MaterialID,
		UnitID:       p.UnitID,
		Quantity:     numericToString3(p.Quantity),
		UnitPrice:    numericToString(p.UnitPrice),
		PurchaseDate: optionalDateString(p.PurchaseDate),
		CreatedAt:    p.CreatedAt,
	}
	if p.Vendor.Valid {
		resp.Vendor = &p.Vendor.String
	}
	if p.Note.Valid {
		resp.Note = &p.Note.String
	}
	return resp
}

func toOtherExpenseResponse(e database.OtherExpense) otherExpenseResponse {
	resp := otherExpenseResponse{
		ID:          e.ID,
		Title:       e.Title,
		Amount:      numericToString(e.Amount),
		ExpenseDate: optionalDateString(e.ExpenseDate),
		CreatedAt:   e.CreatedAt,
	}
	if e.Note.Valid {
		resp.Note = &e.Note.String
	}
	return resp
}
