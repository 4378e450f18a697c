package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/ruchira-pos/api/internal/handler"
	"github.com/ruchira-pos/api/internal/middleware"
)

// --- Mock StaffStore ---

type mockStaffStore struct {
	listStaffRolesFn      func(ctx context.Context) ([]database.StaffRole, error)
	createStaffRoleFn     func(ctx context.Context, name string) (database.StaffRole, error)
	listStaffFn           func(ctx context.Context, activeOnly bool) ([]database.Staff, error)
	getStaffFn            func(ctx context.Context, id uuid.UUID) (database.Staff, error)
	createStaffFn         func(ctx context.Context, arg database.CreateStaffParams) (database.Staff, error)
	updateStaffFn         func(ctx context.Context, arg database.UpdateStaffParams) (database.Staff, error)
	createSalaryPaymentFn func(ctx context.Context, arg database.CreateSalaryPaymentParams) (database.StaffSalaryPayment, error)
	listSalaryPaymentsFn  func(ctx context.Context, arg database.ListSalaryPaymentsParams) ([]database.StaffSalaryPayment, error)
}

func (m *mockStaffStore) ListStaffRoles(ctx context.Context) ([]database.StaffRole, error) {
	if m.listStaffRolesFn != nil {
		return m.listStaffRolesFn(ctx)
	}
	return []database.StaffRole{}, nil
}

func (m *mockStaffStore) CreateStaffRole(ctx context.Context, name string) (database.StaffRole, error) {
	if m.createStaffRoleFn != nil {
		return m.createStaffRoleFn(ctx, name)
	}
	return database.StaffRole{}, nil
}

func (m *mockStaffStore) ListStaff(ctx context.Context, activeOnly bool) ([]database.Staff, error) {
	if m.listStaffFn != nil {
		return m.listStaffFn(ctx, activeOnly)
	}
	return []database.Staff{}, nil
}

func (m *mockStaffStore) GetStaff(ctx context.Context, id uuid.UUID) (database.Staff, error) {
	if m.getStaffFn != nil {
		return m.getStaffFn(ctx, id)
	}
	return database.Staff{}, pgx.ErrNoRows
}

func (m *mockStaffStore) CreateStaff(ctx context.Context, arg database.CreateStaffParams) (database.Staff, error) {
	if m.createStaffFn != nil {
		return m.createStaffFn(ctx, arg)
	}
	return database.Staff{}, nil
}

func (m *mockStaffStore) UpdateStaff(ctx context.Context, arg database.UpdateStaffParams) (database.Staff, error) {
	if m.updateStaffFn != nil {
		return m.updateStaffFn(ctx, arg)
	}
	return database.Staff{}, nil
}

func (m *mockStaffStore) CreateSalaryPayment(ctx context.Context, arg database.CreateSalaryPaymentParams) (database.StaffSalaryPayment, error) {
	if m.createSalaryPaymentFn != nil {
		return m.createSalaryPaymentFn(ctx, arg)
	}
	return database.StaffSalaryPayment{}, nil
}

func (m *mockStaffStore) ListSalaryPayments(ctx context.Context, arg database.ListSalaryPaymentsParams) ([]database.StaffSalaryPayment, error) {
	if m.listSalaryPaymentsFn != nil {
		return m.listSalaryPaymentsFn(ctx, arg)
	}
	return []database.StaffSalaryPayment{}, nil
}

func setupStaffRouter(store *mockStaffStore) *chi.Mux {
	h := handler.NewStaffHandler(store)
	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Route("/staff", h.RegisterRoutes)
	return r
}

func testStaff(t *testing.T, id uuid.UUID) database.Staff {
	t.Helper()
	return database.Staff{
		ID:            id,
		Name:          "Sunil Fernando",
		Phone:         pgtype.Text{String: "0712345678", Valid: true},
		RoleID:        uuid.New(),
		MonthlySalary: testNumeric(t, "45000.00"),
		IsActive:      true,
		JoinedAt:      pgtype.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Valid: true},
	}
}

// --- Tests ---

func TestStaffCreate(t *testing.T) {
	claims := testClaims()
	roleID := uuid.New()

	var created database.CreateStaffParams
	store := &mockStaffStore{
		createStaffFn: func(ctx context.Context, arg database.CreateStaffParams) (database.Staff, error) {
			created = arg
			return database.Staff{
				ID: uuid.New(), Name: arg.Name, Phone: arg.Phone, RoleID: arg.RoleID,
				MonthlySalary: arg.MonthlySalary, IsActive: true, JoinedAt: arg.JoinedAt,
			}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doAuthRequest(t, router, "POST", "/staff", map[string]interface{}{
		"name":           "Sunil Fernando",
		"phone":          "0712345678",
		"role_id":        roleID.String(),
		"monthly_salary": "45000.00",
		"joined_at":      "2025-06-01",
	}, claims)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if created.RoleID != roleID {
		t.Errorf("role_id: got %s, want %s", created.RoleID, roleID)
	}
	if got := numericString(t, created.MonthlySalary); got != "45000.00" {
		t.Errorf("monthly_salary: got %s, want 45000.00", got)
	}

	resp := decodeJSONResponse(t, rr)
	if resp["name"] != "Sunil Fernando" {
		t.Errorf("name: got %v, want Sunil Fernando", resp["name"])
	}
	if resp["monthly_salary"] != "45000.00" {
		t.Errorf("monthly_salary: got %v, want 45000.00", resp["monthly_salary"])
	}
}

func TestStaffCreate_Validation(t *testing.T) {
	claims := testClaims()

	tests := []struct {
		name    string
		body    map[string]interface{}
		wantErr string
	}{
		{
			name:    "missing name",
			body:    map[string]interface{}{"role_id": uuid.New().String(), "monthly_salary": "45000.00"},
			wantErr: "name is required",
		},
		{
			name:    "bad role id",
			body:    map[string]interface{}{"name": "Sunil", "role_id": "not-a-uuid", "monthly_salary": "45000.00"},
			wantErr: "invalid role_id",
		},
		{
			name:    "negative salary",
			body:    map[string]interface{}{"name": "Sunil", "role_id": uuid.New().String(), "monthly_salary": "-100"},
			wantErr: "invalid monthly_salary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			store := &mockStaffStore{
				createStaffFn: func(ctx context.Context, arg database.CreateStaffParams) (database.Staff, error) {
					called = true
					return database.Staff{}, nil
				},
			}
			router := setupStaffRouter(store)

			rr := doAuthRequest(t, router, "POST", "/staff", tt.body, claims)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			resp := decodeJSONResponse(t, rr)
			if resp["error"] != tt.wantErr {
				t.Errorf("error: got %v, want %q", resp["error"], tt.wantErr)
			}
			if called {
				t.Error("staff row was created despite invalid input")
			}
		})
	}
}

func TestStaffUpdate_PartialMerge(t *testing.T) {
	claims := testClaims()
	staffID := uuid.New()
	current := testStaff(t, staffID)

	var updated database.UpdateStaffParams
	store := &mockStaffStore{
		getStaffFn: func(ctx context.Context, id uuid.UUID) (database.Staff, error) {
			return current, nil
		},
		updateStaffFn: func(ctx context.Context, arg database.UpdateStaffParams) (database.Staff, error) {
			updated = arg
			s := current
			s.MonthlySalary = arg.MonthlySalary
			return s, nil
		},
	}
	router := setupStaffRouter(store)

	// Salary-only patch keeps the rest of the row.
	rr := doAuthRequest(t, router, "PATCH", "/staff/"+staffID.String(), map[string]interface{}{
		"monthly_salary": "52000.00",
	}, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if got := numericString(t, updated.MonthlySalary); got != "52000.00" {
		t.Errorf("monthly_salary: got %s, want 52000.00", got)
	}
	if updated.Name != "Sunil Fernando" {
		t.Errorf("name: got %q, want Sunil Fernando", updated.Name)
	}
	if updated.Phone.String != "0712345678" {
		t.Errorf("phone: got %q, want 0712345678", updated.Phone.String)
	}
	if updated.RoleID != current.RoleID {
		t.Errorf("role_id: got %s, want %s", updated.RoleID, current.RoleID)
	}
	if !updated.IsActive {
		t.Error("is_active was not preserved")
	}
}

func TestSalaryPaymentDefaultsToMonthlySalary(t *testing.T) {
	claims := testClaims()
	staffID := uuid.New()

	var created database.CreateSalaryPaymentParams
	store := &mockStaffStore{
		getStaffFn: func(ctx context.Context, id uuid.UUID) (database.Staff, error) {
			return testStaff(t, staffID), nil
		},
		createSalaryPaymentFn: func(ctx context.Context, arg database.CreateSalaryPaymentParams) (database.StaffSalaryPayment, error) {
			created = arg
			return database.StaffSalaryPayment{
				ID: uuid.New(), StaffID: arg.StaffID, Amount: arg.Amount,
				PayDate: arg.PayDate, Month: arg.Month, Note: arg.Note,
			}, nil
		},
	}
	router := setupStaffRouter(store)

	// No amount in the request: the staff member's monthly salary applies.
	rr := doAuthRequest(t, router, "POST", "/staff/"+staffID.String()+"/salary-payments", map[string]interface{}{
		"month":    "2026-08",
		"pay_date": "2026-08-28",
	}, claims)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusCreated, rr.Body.String())
	}
	if got := numericString(t, created.Amount); got != "45000.00" {
		t.Errorf("amount: got %s, want 45000.00", got)
	}
	if created.StaffID != staffID {
		t.Errorf("staff_id: got %s, want %s", created.StaffID, staffID)
	}
	want := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !created.Month.Valid || !created.Month.Time.Equal(want) {
		t.Errorf("month: got %v, want %s", created.Month, want)
	}

	resp := decodeJSONResponse(t, rr)
	if resp["amount"] != "45000.00" {
		t.Errorf("amount: got %v, want 45000.00", resp["amount"])
	}
}

func TestSalaryPaymentValidation(t *testing.T) {
	claims := testClaims()
	staffID := uuid.New()

	tests := []struct {
		name    string
		body    map[string]interface{}
		wantErr string
	}{
		{
			name:    "missing month",
			body:    map[string]interface{}{"amount": "45000.00"},
			wantErr: "month is required",
		},
		{
			name:    "bad month format",
			body:    map[string]interface{}{"amount": "45000.00", "month": "August 2026"},
			wantErr: "invalid month format, use YYYY-MM",
		},
		{
			name:    "negative amount",
			body:    map[string]interface{}{"amount": "-500", "month": "2026-08"},
			wantErr: "amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			store := &mockStaffStore{
				getStaffFn: func(ctx context.Context, id uuid.UUID) (database.Staff, error) {
					return testStaff(t, staffID), nil
				},
				createSalaryPaymentFn: func(ctx context.Context, arg database.CreateSalaryPaymentParams) (database.StaffSalaryPayment, error) {
					called = true
					return database.StaffSalaryPayment{}, nil
				},
			}
			router := setupStaffRouter(store)

			rr := doAuthRequest(t, router, "POST", "/staff/"+staffID.String()+"/salary-payments", tt.body, claims)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			resp := decodeJSONResponse(t, rr)
			if resp["error"] != tt.wantErr {
				t.Errorf("error: got %v, want %q", resp["error"], tt.wantErr)
			}
			if called {
				t.Error("salary payment was created despite invalid input")
			}
		})
	}
}

func TestSalaryPayment_StaffNotFound(t *testing.T) {
	claims := testClaims()
	store := &mockStaffStore{}
	router := setupStaffRouter(store)

	rr := doAuthRequest(t, router, "POST", "/staff/"+uuid.New().String()+"/salary-payments", map[string]interface{}{
		"month": "2026-08",
	}, claims)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusNotFound, rr.Body.String())
	}
	resp := decodeJSONResponse(t, rr)
	if resp["error"] != "staff not found" {
		t.Errorf("error: got %v, want staff not found", resp["error"])
	}
}

func TestSalaryPaymentList_Filters(t *testing.T) {
	claims := testClaims()
	staffID := uuid.New()

	var gotParams database.ListSalaryPaymentsParams
	store := &mockStaffStore{
		listSalaryPaymentsFn: func(ctx context.Context, arg database.ListSalaryPaymentsParams) ([]database.StaffSalaryPayment, error) {
			gotParams = arg
			return []database.StaffSalaryPayment{
				{ID: uuid.New(), StaffID: staffID, Amount: testNumeric(t, "45000.00")},
			}, nil
		},
	}
	router := setupStaffRouter(store)

	rr := doAuthRequest(t, router, "GET",
		"/staff/salary-payments?staff_id="+staffID.String()+"&start_date=2026-08-01&end_date=2026-08-31", nil, claims)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}
	if !gotParams.StaffID.Valid || uuid.UUID(gotParams.StaffID.Bytes) != staffID {
		t.Error("staff_id filter was not applied")
	}
	if !gotParams.StartDate.Valid || !gotParams.EndDate.Valid {
		t.Error("date range filter was not applied")
	}

	var resp []map[string]interface{}
	if err := decodeJSONList(rr, &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("payments: got %d, want 1", len(resp))
	}
	if resp[0]["amount"] != "45000.00" {
		t.Errorf("amount: got %v, want 45000.00", resp[0]["amount"])
	}
}
