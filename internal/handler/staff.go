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

// StaffStore defines the database methods needed by staff handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type StaffStore interface {
	ListStaffRoles(ctx context.Context) ([]database.StaffRole, error)
	CreateStaffRole(ctx context.Context, name string) (database.StaffRole, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]database.Staff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (database.Staff, error)
	CreateStaff(ctx context.Context, arg database.CreateStaffParams) (database.Staff, error)
	UpdateStaff(ctx context.Context, arg database.UpdateStaffParams) (database.Staff, error)
	CreateSalaryPayment(ctx context.Context, arg database.CreateSalaryPaymentParams) (database.StaffSalaryPayment, error)
	ListSalaryPayments(ctx context.Context, arg database.ListSalaryPaymentsParams) ([]database.StaffSalaryPayment, error)
}

// StaffHandler handles staff roster and payroll endpoints.
type StaffHandler struct {
	store StaffStore
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(store StaffStore) *StaffHandler {
	return &StaffHandler{store: store}
}

// RegisterRoutes registers staff endpoints on the given Chi router.
func (h *StaffHandler) RegisterRoutes(r chi.Router) {
	r.Get("/roles", h.ListRoles)
	r.Post("/roles", h.CreateRole)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Get("/salary-payments", h.ListSalaryPayments)
	r.Post("/{id}/salary-payments", h.CreateSalaryPayment)
}

// --- Request / Response types ---

type staffRoleRequest struct {
	Name string `json:"name"`
}

type staffRoleResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type staffRequest struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	RoleID        string `json:"role_id"`
	MonthlySalary string `json:"monthly_salary"`
	JoinedAt      string `json:"joined_at"`
	IsActive      *bool  `json:"is_active"`
}

type staffResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         *string   `json:"phone"`
	RoleID        uuid.UUID `json:"role_id"`
	MonthlySalary string    `json:"monthly_salary"`
	IsActive      bool      `json:"is_active"`
	JoinedAt      *string   `json:"joined_at"`
	CreatedAt     time.Time `json:"created_at"`
}

type salaryPaymentRequest struct {
	Amount  string `json:"amount"`
	PayDate string `json:"pay_date"`
	Month   string `json:"month"`
	Note    string `json:"note"`
}

type salaryPaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	StaffID   uuid.UUID `json:"staff_id"`
	Amount    string    `json:"amount"`
	PayDate   *string   `json:"pay_date"`
	Month     *string   `json:"month"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// --- Handlers ---

// ListRoles handles GET /staff/roles.
func (h *StaffHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.store.ListStaffRoles(r.Context())
	if err != nil {
		log.Printf("ERROR: list staff roles: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]staffRoleResponse, len(roles))
	for i, role := range roles {
		resp[i] = staffRoleResponse{ID: role.ID, Name: role.Name}
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateRole handles POST /staff/roles.
func (h *StaffHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req staffRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	role, err := h.store.CreateStaffRole(r.Context(), req.Name)
	if err != nil {
		log.Printf("ERROR: create staff role: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, staffRoleResponse{ID: role.ID, Name: role.Name})
}

// List handles GET /staff.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	staff, err := h.store.ListStaff(r.Context(), activeOnly)
	if err != nil {
		log.Printf("ERROR: list staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]staffResponse, len(staff))
	for i, s := range staff {
		resp[i] = toStaffResponse(s)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /staff/{id}.
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid staff ID"})
		return
	}

	staff, err := h.store.GetStaff(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "staff not found"})
			return
		}
		log.Printf("ERROR: get staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toStaffResponse(staff))
}

// Create handles POST /staff.
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	roleID, err := uuid.Parse(req.RoleID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role_id"})
		return
	}

	salary, err := decimal.NewFromString(req.MonthlySalary)
	if err != nil || salary.IsNegative() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid monthly_salary"})
		return
	}
	var monthlySalary pgtype.Numeric
	_ = monthlySalary.Scan(salary.StringFixed(2))

	joinedAt := pgtype.Date{}
	if req.JoinedAt != "" {
		t, err := time.Parse("2006-01-02", req.JoinedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid joined_at format, use YYYY-MM-DD"})
			return
		}
		joinedAt = pgtype.Date{Time: t, Valid: true}
	}

	phone := pgtype.Text{}
	if req.Phone != "" {
		phone = pgtype.Text{String: req.Phone, Valid: true}
	}

	staff, err := h.store.CreateStaff(r.Context(), database.CreateStaffParams{
		Name:          req.Name,
		Phone:         phone,
		RoleID:        roleID,
		MonthlySalary: monthlySalary,
		JoinedAt:      joinedAt,
	})
	if err != nil {
		log.Printf("ERROR: create staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toStaffResponse(staff))
}

// Update handles PATCH /staff/{id}.
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid staff ID"})
		return
	}

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	current, err := h.store.GetStaff(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "staff not found"})
			return
		}
		log.Printf("ERROR: get staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	name := current.Name
	if req.Name != "" {
		name = req.Name
	}
	phone := current.Phone
	if req.Phone != "" {
		phone = pgtype.Text{String: req.Phone, Valid: true}
	}
	roleID := current.RoleID
	if req.RoleID != "" {
		rid, err := uuid.Parse(req.RoleID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role_id"})
			return
		}
		roleID = rid
	}
	monthlySalary := current.MonthlySalary
	if req.MonthlySalary != "" {
		salary, err := decimal.NewFromString(req.MonthlySalary)
		if err != nil || salary.IsNegative() {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid monthly_salary"})
			return
		}
		_ = monthlySalary.Scan(salary.StringFixed(2))
	}
	joinedAt := current.JoinedAt
	if req.JoinedAt != "" {
		t, err := time.Parse("2006-01-02", req.JoinedAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid joined_at format, use YYYY-MM-DD"})
			return
		}
		joinedAt = pgtype.Date{Time: t, Valid: true}
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated, err := h.store.UpdateStaff(r.Context(), database.UpdateStaffParams{
		ID:            id,
		Name:          name,
		Phone:         phone,
		RoleID:        roleID,
		MonthlySalary: monthlySalary,
		IsActive:      isActive,
		JoinedAt:      joinedAt,
	})
	if err != nil {
		log.Printf("ERROR: update staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, toStaffResponse(updated))
}

// CreateSalaryPayment handles POST /staff/{id}/salary-payments.
func (h *StaffHandler) CreateSalaryPayment(w http.ResponseWriter, r *http.Request) {
	staffID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid staff ID"})
		return
	}

	var req salaryPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	staff, err := h.store.GetStaff(r.Context(), staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "staff not found"})
			return
		}
		log.Printf("ERROR: get staff: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	// Amount defaults to the staff member's monthly salary.
	var amountNum pgtype.Numeric
	if req.Amount == "" {
		amountNum = staff.MonthlySalary
	} else {
		amount, err := decimal.NewFromString(req.Amount)
		if err != nil || amount.LessThanOrEqual(decimal.Zero) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount must be positive"})
			return
		}
		_ = amountNum.Scan(amount.StringFixed(2))
	}

	payDate := pgtype.Date{}
	if req.PayDate != "" {
		t, err := time.Parse("2006-01-02", req.PayDate)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pay_date format, use YYYY-MM-DD"})
			return
		}
		payDate = pgtype.Date{Time: t, Valid: true}
	}
	if req.Month == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "month is required"})
		return
	}
	monthTime, err := time.Parse("2006-01", req.Month)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid month format, use YYYY-MM"})
		return
	}
	// Stored as the first day of the salary month.
	month := pgtype.Date{Time: monthTime, Valid: true}
	note := pgtype.Text{}
	if req.Note != "" {
		note = pgtype.Text{String: req.Note, Valid: true}
	}

	payment, err := h.store.CreateSalaryPayment(r.Context(), database.CreateSalaryPaymentParams{
		StaffID: staffID,
		Amount:  amountNum,
		PayDate: payDate,
		Month:   month,
		Note:    note,
	})
	if err != nil {
		log.Printf("ERROR: create salary payment: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, toSalaryPaymentResponse(payment))
}

// ListSalaryPayments handles GET /staff/salary-payments with optional
// staff and date range filters.
func (h *StaffHandler) ListSalaryPayments(w http.ResponseWriter, r *http.Request) {
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

	params := database.ListSalaryPaymentsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}
	if s := r.URL.Query().Get("staff_id"); s != "" {
		sid, err := uuid.Parse(s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid staff_id"})
			return
		}
		params.StaffID = pgtype.UUID{Bytes: sid, Valid: true}
	}
	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid start_date format, use YYYY-MM-DD"})
			return
		}
		params.StartDate = pgtype.Date{Time: t, Valid: true}
	}
	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid end_date format, use YYYY-MM-DD"})
			return
		}
		params.EndDate = pgtype.Date{Time: t, Valid: true}
	}

	payments, err := h.store.ListSalaryPayments(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list salary payments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]salaryPaymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = toSalaryPaymentResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func toStaffResponse(s database.Staff) staffResponse {
	resp := staffResponse{
		ID:            s.ID,
		Name:          s.Name,
		RoleID:        s.RoleID,
		MonthlySalary: numericToString(s.MonthlySalary),
		IsActive:      s.IsActive,
		CreatedAt:     s.CreatedAt,
	}
	if s.Phone.Valid {
		resp.Phone = &s.Phone.String
	}
	if s.JoinedAt.Valid {
		d := s.JoinedAt.Time.Format("2006-01-02")
		resp.JoinedAt = &d
	}
	return resp
}

func toSalaryPaymentResponse(p database.StaffSalaryPayment) salaryPaymentResponse {
	resp := salaryPaymentResponse{
		ID:        p.ID,
		StaffID:   p.StaffID,
		Amount:    numericToString(p.Amount),
		CreatedAt: p.CreatedAt,
	}
	if p.PayDate.Valid {
		d := p.PayDate.Time.Format("2006-01-02")
		resp.PayDate = &d
	}
	if p.Month.Valid {
		m := p.Month.Time.Format("2006-01")
		resp.Month = &m
	}
	if p.Note.Valid {
		resp.Note = &p.Note.String
	}
	return resp
}
