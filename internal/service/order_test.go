package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/ruchira-pos/api/internal/database"
	"github.com/ruchira-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// --- Mocks ---

type mockTx struct {
	committed  bool
	rolledBack bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	m.committed = true
	return nil
}
func (m *mockTx) Rollback(ctx context.Context) error {
	if !m.committed {
		m.rolledBack = true
	}
	return nil
}
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

type mockTxBeginner struct {
	txs []*mockTx
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &mockTx{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

type mockOrderStore struct {
	getNextOrderSequenceFn          func(ctx context.Context, prefix string) (int32, error)
	getProductForOrderFn            func(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error)
	getPaymentMethodFn              func(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error)
	getCustomerFn                   func(ctx context.Context, id uuid.UUID) (database.Customer, error)
	getPrimaryCustomerAddressFn     func(ctx context.Context, customerID uuid.UUID) (database.CustomerAddress, error)
	createOrderFn                   func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	getOrderFn                      func(ctx context.Context, id uuid.UUID) (database.Order, error)
	getOrderForUpdateFn             func(ctx context.Context, id uuid.UUID) (database.Order, error)
	updateOrderDetailsFn            func(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error)
	updateOrderTotalsFn             func(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error)
	updateOrderPaymentTotalsFn      func(ctx context.Context, arg database.UpdateOrderPaymentTotalsParams) (database.Order, error)
	deleteOrderFn                   func(ctx context.Context, id uuid.UUID) (int64, error)
	createOrderItemFn               func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
	listOrderItemsByOrderFn         func(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error)
	deleteOrderItemsByOrderFn       func(ctx context.Context, orderID uuid.UUID) error
	createPaymentFn                 func(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error)
	sumPaymentsByOrderFn            func(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error)
	deletePaymentFn                 func(ctx context.Context, arg database.DeletePaymentParams) (int64, error)
	getCustomerOutstandingBalanceFn func(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error)
}

func (m *mockOrderStore) GetNextOrderSequence(ctx context.Context, prefix string) (int32, error) {
	return m.getNextOrderSequenceFn(ctx, prefix)
}
func (m *mockOrderStore) GetProductForOrder(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error) {
	return m.getProductForOrderFn(ctx, id)
}
func (m *mockOrderStore) GetPaymentMethod(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error) {
	return m.getPaymentMethodFn(ctx, id)
}
func (m *mockOrderStore) GetCustomer(ctx context.Context, id uuid.UUID) (database.Customer, error) {
	return m.getCustomerFn(ctx, id)
}
func (m *mockOrderStore) GetPrimaryCustomerAddress(ctx context.Context, customerID uuid.UUID) (database.CustomerAddress, error) {
	return m.getPrimaryCustomerAddressFn(ctx, customerID)
}
func (m *mockOrderStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockOrderStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	return m.getOrderFn(ctx, id)
}
func (m *mockOrderStore) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error) {
	return m.getOrderForUpdateFn(ctx, id)
}
func (m *mockOrderStore) UpdateOrderDetails(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error) {
	return m.updateOrderDetailsFn(ctx, arg)
}
func (m *mockOrderStore) UpdateOrderTotals(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
	return m.updateOrderTotalsFn(ctx, arg)
}
func (m *mockOrderStore) UpdateOrderPaymentTotals(ctx context.Context, arg database.UpdateOrderPaymentTotalsParams) (database.Order, error) {
	return m.updateOrderPaymentTotalsFn(ctx, arg)
}
func (m *mockOrderStore) DeleteOrder(ctx context.Context, id uuid.UUID) (int64, error) {
	return m.deleteOrderFn(ctx, id)
}
func (m *mockOrderStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	return m.createOrderItemFn(ctx, arg)
}
func (m *mockOrderStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	return m.listOrderItemsByOrderFn(ctx, orderID)
}
func (m *mockOrderStore) DeleteOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) error {
	return m.deleteOrderItemsByOrderFn(ctx, orderID)
}
func (m *mockOrderStore) CreatePayment(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
	return m.createPaymentFn(ctx, arg)
}
func (m *mockOrderStore) SumPaymentsByOrder(ctx context.Context, orderID uuid.UUID) (pgtype.Numeric, error) {
	return m.sumPaymentsByOrderFn(ctx, orderID)
}
func (m *mockOrderStore) DeletePayment(ctx context.Context, arg database.DeletePaymentParams) (int64, error) {
	return m.deletePaymentFn(ctx, arg)
}
func (m *mockOrderStore) GetCustomerOutstandingBalance(ctx context.Context, customerID uuid.UUID) (pgtype.Numeric, error) {
	return m.getCustomerOutstandingBalanceFn(ctx, customerID)
}

// --- Helpers ---

func num(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		t.Fatalf("scan numeric %q: %v", s, err)
	}
	return n
}

func numStr(t *testing.T, n pgtype.Numeric) string {
	t.Helper()
	val, err := n.Value()
	if err != nil {
		t.Fatalf("numeric value: %v", err)
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		t.Fatalf("parse numeric %v: %v", val, err)
	}
	return d.StringFixed(2)
}

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	at, err := time.Parse(time.RFC3339, "2026-03-15T10:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return func() time.Time { return at }
}

func newService(pool TxBeginner, store OrderStore) *OrderService {
	return &OrderService{
		pool:     pool,
		newStore: func(db database.DBTX) OrderStore { return store },
		now:      time.Now,
	}
}

// --- Tests ---

func TestCreateOrder(t *testing.T) {
	productID := uuid.New()
	methodID := uuid.New()

	var createdOrder database.CreateOrderParams
	var createdItems []database.CreateOrderItemParams
	var createdPayments []database.CreatePaymentParams

	store := &mockOrderStore{
		getNextOrderSequenceFn: func(ctx context.Context, prefix string) (int32, error) {
			if prefix != "ORD-20260315" {
				t.Errorf("prefix = %q, want ORD-20260315", prefix)
			}
			return 7, nil
		},
		getProductForOrderFn: func(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error) {
			return database.GetProductForOrderRow{
				ID:        productID,
				Name:      "Kottu Roti",
				SalePrice: num(t, "10.00"),
				IsActive:  true,
			}, nil
		},
		getPaymentMethodFn: func(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error) {
			return database.PaymentMethod{ID: methodID, Name: "Cash", IsActive: true}, nil
		},
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			createdOrder = arg
			return database.Order{
				ID: uuid.New(), OrderNo: arg.OrderNo, Status: arg.Status,
				Subtotal: arg.Subtotal, DiscountAmount: arg.DiscountAmount,
				GrandTotal: arg.GrandTotal, PaidTotal: arg.PaidTotal, DueTotal: arg.DueTotal,
			}, nil
		},
		createOrderItemFn: func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
			createdItems = append(createdItems, arg)
			return database.OrderItem{ID: uuid.New(), OrderID: arg.OrderID}, nil
		},
		createPaymentFn: func(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
			createdPayments = append(createdPayments, arg)
			return database.Payment{ID: uuid.New(), OrderID: arg.OrderID, Amount: arg.Amount}, nil
		},
	}

	pool := &mockTxBeginner{}
	svc := newService(pool, store)
	svc.now = fixedClock(t)

	result, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: productID.String(), Qty: "3"},
		},
		Payments: []PaymentRequest{
			{PaymentMethodID: methodID.String(), Amount: "30.00"},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if createdOrder.OrderNo != "ORD-20260315-0007" {
		t.Errorf("order no = %q, want ORD-20260315-0007", createdOrder.OrderNo)
	}
	if createdOrder.Status != enum.OrderStatusPending {
		t.Errorf("status = %q, want pending", createdOrder.Status)
	}
	if got := numStr(t, createdOrder.Subtotal); got != "30.00" {
		t.Errorf("subtotal = %s, want 30.00", got)
	}
	if got := numStr(t, createdOrder.GrandTotal); got != "30.00" {
		t.Errorf("grand total = %s, want 30.00", got)
	}
	if got := numStr(t, createdOrder.PaidTotal); got != "30.00" {
		t.Errorf("paid total = %s, want 30.00", got)
	}
	if got := numStr(t, createdOrder.DueTotal); got != "0.00" {
		t.Errorf("due total = %s, want 0.00", got)
	}
	if len(createdItems) != 1 {
		t.Fatalf("items created = %d, want 1", len(createdItems))
	}
	if got := numStr(t, createdItems[0].LineTotal); got != "30.00" {
		t.Errorf("line total = %s, want 30.00", got)
	}
	if len(createdPayments) != 1 {
		t.Fatalf("payments created = %d, want 1", len(createdPayments))
	}
	if got := PaymentStatus(result.Order); got != enum.PaymentStatusPaid {
		t.Errorf("payment status = %q, want PAID", got)
	}
	if len(pool.txs) != 1 || !pool.txs[0].committed {
		t.Error("expected a single committed transaction")
	}
}

func TestCreateOrderItemDiscountClamped(t *testing.T) {
	productID := uuid.New()

	var createdOrder database.CreateOrderParams
	var createdItem database.CreateOrderItemParams

	store := &mockOrderStore{
		getNextOrderSequenceFn: func(ctx context.Context, prefix string) (int32, error) { return 1, nil },
		getProductForOrderFn: func(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error) {
			return database.GetProductForOrderRow{ID: productID, SalePrice: num(t, "20.00"), IsActive: true}, nil
		},
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			createdOrder = arg
			return database.Order{ID: uuid.New()}, nil
		},
		createOrderItemFn: func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
			createdItem = arg
			return database.OrderItem{ID: uuid.New()}, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	// Fixed discount 100 on a 20.00 line clamps to the line gross.
	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items: []OrderItemRequest{
			{ProductID: productID.String(), Qty: "1", DiscountType: enum.DiscountTypeFixed, DiscountValue: "100"},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if got := numStr(t, createdItem.DiscountAmount); got != "20.00" {
		t.Errorf("item discount = %s, want 20.00", got)
	}
	if got := numStr(t, createdItem.LineTotal); got != "0.00" {
		t.Errorf("line total = %s, want 0.00", got)
	}
	if got := numStr(t, createdOrder.GrandTotal); got != "0.00" {
		t.Errorf("grand total = %s, want 0.00", got)
	}
	if got := numStr(t, createdOrder.DueTotal); got != "0.00" {
		t.Errorf("due total = %s, want 0.00", got)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	productID := uuid.New()
	activeStore := func() *mockOrderStore {
		return &mockOrderStore{
			getNextOrderSequenceFn: func(ctx context.Context, prefix string) (int32, error) { return 1, nil },
			getProductForOrderFn: func(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error) {
				return database.GetProductForOrderRow{ID: productID, SalePrice: num(t, "10.00"), IsActive: true}, nil
			},
		}
	}

	tests := []struct {
		name    string
		store   *mockOrderStore
		req     CreateOrderRequest
		wantErr error
	}{
		{
			name:    "empty items",
			store:   activeStore(),
			req:     CreateOrderRequest{},
			wantErr: ErrEmptyItems,
		},
		{
			name:  "invalid source",
			store: activeStore(),
			req: CreateOrderRequest{
				Source: "drive-thru",
				Items:  []OrderItemRequest{{ProductID: productID.String(), Qty: "1"}},
			},
			wantErr: ErrInvalidSource,
		},
		{
			name:  "zero qty",
			store: activeStore(),
			req: CreateOrderRequest{
				Items: []OrderItemRequest{{ProductID: productID.String(), Qty: "0"}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name:  "negative discount",
			store: activeStore(),
			req: CreateOrderRequest{
				Items: []OrderItemRequest{
					{ProductID: productID.String(), Qty: "1", DiscountType: enum.DiscountTypeFixed, DiscountValue: "-5"},
				},
			},
			wantErr: ErrNegativeDiscount,
		},
		{
			name:  "unknown discount type",
			store: activeStore(),
			req: CreateOrderRequest{
				Items: []OrderItemRequest{
					{ProductID: productID.String(), Qty: "1", DiscountType: "bogo", DiscountValue: "1"},
				},
			},
			wantErr: ErrInvalidDiscount,
		},
		{
			name: "inactive product",
			store: &mockOrderStore{
				getNextOrderSequenceFn: func(ctx context.Context, prefix string) (int32, error) { return 1, nil },
				getProductForOrderFn: func(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error) {
					return database.GetProductForOrderRow{ID: productID, SalePrice: num(t, "10.00"), IsActive: false}, nil
				},
			},
			req: CreateOrderRequest{
				Items: []OrderItemRequest{{ProductID: productID.String(), Qty: "1"}},
			},
			wantErr: ErrProductInactive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := &mockTxBeginner{}
			svc := newService(pool, tt.store)
			_, err := svc.CreateOrder(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			for _, tx := range pool.txs {
				if tx.committed {
					t.Error("transaction committed on validation failure")
				}
			}
		})
	}
}

func TestCreateOrderRetriesOnOrderNoConflict(t *testing.T) {
	productID := uuid.New()
	attempts := 0

	store := &mockOrderStore{
		getNextOrderSequenceFn: func(ctx context.Context, prefix string) (int32, error) { return 42, nil },
		getProductForOrderFn: func(ctx context.Context, id uuid.UUID) (database.GetProductForOrderRow, error) {
			return database.GetProductForOrderRow{ID: productID, SalePrice: num(t, "10.00"), IsActive: true}, nil
		},
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			attempts++
			if attempts == 1 {
				return database.Order{}, &pgconn.PgError{Code: "23505", ConstraintName: "orders_order_no_key"}
			}
			return database.Order{ID: uuid.New(), OrderNo: arg.OrderNo}, nil
		},
		createOrderItemFn: func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
			return database.OrderItem{ID: uuid.New()}, nil
		},
	}

	pool := &mockTxBeginner{}
	svc := newService(pool, store)

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		Items: []OrderItemRequest{{ProductID: productID.String(), Qty: "1"}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if attempts != 2 {
		t.Errorf("create attempts = %d, want 2", attempts)
	}
	if len(pool.txs) != 2 {
		t.Fatalf("transactions = %d, want 2", len(pool.txs))
	}
	if !pool.txs[0].rolledBack {
		t.Error("first transaction not rolled back")
	}
	if !pool.txs[1].committed {
		t.Error("second transaction not committed")
	}
}

func TestAddPayment(t *testing.T) {
	orderID := uuid.New()
	methodID := uuid.New()

	var updateParams database.UpdateOrderPaymentTotalsParams

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{
				ID: orderID, Status: enum.OrderStatusPending,
				GrandTotal: num(t, "30.00"), PaidTotal: num(t, "0.00"), DueTotal: num(t, "30.00"),
			}, nil
		},
		getPaymentMethodFn: func(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error) {
			return database.PaymentMethod{ID: methodID, Name: "Cash", IsActive: true}, nil
		},
		createPaymentFn: func(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
			return database.Payment{ID: uuid.New(), OrderID: arg.OrderID, Amount: arg.Amount}, nil
		},
		sumPaymentsByOrderFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			return num(t, "30.00"), nil
		},
		updateOrderPaymentTotalsFn: func(ctx context.Context, arg database.UpdateOrderPaymentTotalsParams) (database.Order, error) {
			updateParams = arg
			return database.Order{
				ID: orderID, GrandTotal: num(t, "30.00"),
				PaidTotal: arg.PaidTotal, DueTotal: arg.DueTotal,
			}, nil
		},
	}

	pool := &mockTxBeginner{}
	svc := newService(pool, store)

	result, err := svc.AddPayment(context.Background(), orderID, PaymentRequest{
		PaymentMethodID: methodID.String(),
		Amount:          "30.00",
	})
	if err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if got := numStr(t, updateParams.PaidTotal); got != "30.00" {
		t.Errorf("paid total = %s, want 30.00", got)
	}
	if got := numStr(t, updateParams.DueTotal); got != "0.00" {
		t.Errorf("due total = %s, want 0.00", got)
	}
	if got := PaymentStatus(result.Order); got != enum.PaymentStatusPaid {
		t.Errorf("payment status = %q, want PAID", got)
	}
	if !pool.txs[0].committed {
		t.Error("transaction not committed")
	}
}

func TestAddPaymentOverpaymentFloorsDue(t *testing.T) {
	orderID := uuid.New()
	methodID := uuid.New()

	var updateParams database.UpdateOrderPaymentTotalsParams

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{ID: orderID, Status: enum.OrderStatusPending, GrandTotal: num(t, "30.00")}, nil
		},
		getPaymentMethodFn: func(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error) {
			return database.PaymentMethod{ID: methodID, IsActive: true}, nil
		},
		createPaymentFn: func(ctx context.Context, arg database.CreatePaymentParams) (database.Payment, error) {
			return database.Payment{ID: uuid.New()}, nil
		},
		sumPaymentsByOrderFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			return num(t, "50.00"), nil
		},
		updateOrderPaymentTotalsFn: func(ctx context.Context, arg database.UpdateOrderPaymentTotalsParams) (database.Order, error) {
			updateParams = arg
			return database.Order{ID: orderID, PaidTotal: arg.PaidTotal, DueTotal: arg.DueTotal}, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	_, err := svc.AddPayment(context.Background(), orderID, PaymentRequest{
		PaymentMethodID: methodID.String(),
		Amount:          "50.00",
	})
	if err != nil {
		t.Fatalf("AddPayment: %v", err)
	}
	if got := numStr(t, updateParams.PaidTotal); got != "50.00" {
		t.Errorf("paid total = %s, want 50.00", got)
	}
	if got := numStr(t, updateParams.DueTotal); got != "0.00" {
		t.Errorf("due total = %s, want 0.00 (floored)", got)
	}
}

func TestAddPaymentCancelledOrder(t *testing.T) {
	orderID := uuid.New()
	methodID := uuid.New()

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{ID: orderID, Status: enum.OrderStatusCancelled}, nil
		},
	}

	pool := &mockTxBeginner{}
	svc := newService(pool, store)

	_, err := svc.AddPayment(context.Background(), orderID, PaymentRequest{
		PaymentMethodID: methodID.String(),
		Amount:          "10.00",
	})
	if !errors.Is(err, ErrOrderCancelled) {
		t.Errorf("err = %v, want ErrOrderCancelled", err)
	}
	if !pool.txs[0].rolledBack {
		t.Error("transaction not rolled back")
	}
}

func TestAddPaymentInactiveMethod(t *testing.T) {
	orderID := uuid.New()
	methodID := uuid.New()

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{ID: orderID, Status: enum.OrderStatusPending}, nil
		},
		getPaymentMethodFn: func(ctx context.Context, id uuid.UUID) (database.PaymentMethod, error) {
			return database.PaymentMethod{ID: methodID, IsActive: false}, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	_, err := svc.AddPayment(context.Background(), orderID, PaymentRequest{
		PaymentMethodID: methodID.String(),
		Amount:          "10.00",
	})
	if !errors.Is(err, ErrMethodInactive) {
		t.Errorf("err = %v, want ErrMethodInactive", err)
	}
}

func TestDeletePaymentNotFound(t *testing.T) {
	orderID := uuid.New()

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{ID: orderID, Status: enum.OrderStatusPending}, nil
		},
		deletePaymentFn: func(ctx context.Context, arg database.DeletePaymentParams) (int64, error) {
			return 0, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	_, err := svc.DeletePayment(context.Background(), orderID, uuid.New())
	if !errors.Is(err, ErrPaymentNotFound) {
		t.Errorf("err = %v, want ErrPaymentNotFound", err)
	}
}

func TestRecalcTotals(t *testing.T) {
	orderID := uuid.New()

	var updateParams database.UpdateOrderTotalsParams

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{
				ID:            orderID,
				Status:        enum.OrderStatusPending,
				DiscountType:  pgtype.Text{String: enum.DiscountTypePercent, Valid: true},
				DiscountValue: num(t, "10.00"),
				TaxAmount:     num(t, "0.00"),
			}, nil
		},
		listOrderItemsByOrderFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{
				{LineTotal: num(t, "60.00")},
				{LineTotal: num(t, "30.00")},
			}, nil
		},
		sumPaymentsByOrderFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			return num(t, "50.00"), nil
		},
		updateOrderTotalsFn: func(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
			updateParams = arg
			return database.Order{
				ID: orderID, Subtotal: arg.Subtotal, DiscountAmount: arg.DiscountAmount,
				GrandTotal: arg.GrandTotal, PaidTotal: arg.PaidTotal, DueTotal: arg.DueTotal,
			}, nil
		},
	}

	pool := &mockTxBeginner{}
	svc := newService(pool, store)

	order, err := svc.RecalcTotals(context.Background(), orderID)
	if err != nil {
		t.Fatalf("RecalcTotals: %v", err)
	}

	// 90 subtotal, 10% off = 81 grand, 50 paid, 31 due.
	if got := numStr(t, updateParams.Subtotal); got != "90.00" {
		t.Errorf("subtotal = %s, want 90.00", got)
	}
	if got := numStr(t, updateParams.DiscountAmount); got != "9.00" {
		t.Errorf("discount = %s, want 9.00", got)
	}
	if got := numStr(t, updateParams.GrandTotal); got != "81.00" {
		t.Errorf("grand total = %s, want 81.00", got)
	}
	if got := numStr(t, updateParams.DueTotal); got != "31.00" {
		t.Errorf("due total = %s, want 31.00", got)
	}
	if got := PaymentStatus(order); got != enum.PaymentStatusPartial {
		t.Errorf("payment status = %q, want PARTIAL", got)
	}
	if !pool.txs[0].committed {
		t.Error("transaction not committed")
	}
}

func TestRecalcTotalsOrderDiscountClamped(t *testing.T) {
	orderID := uuid.New()

	var updateParams database.UpdateOrderTotalsParams

	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return database.Order{
				ID:            orderID,
				DiscountType:  pgtype.Text{String: enum.DiscountTypeFixed, Valid: true},
				DiscountValue: num(t, "100.00"),
				TaxAmount:     num(t, "0.00"),
			}, nil
		},
		listOrderItemsByOrderFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{{LineTotal: num(t, "90.00")}}, nil
		},
		sumPaymentsByOrderFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			return num(t, "0.00"), nil
		},
		updateOrderTotalsFn: func(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
			updateParams = arg
			return database.Order{ID: orderID}, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	if _, err := svc.RecalcTotals(context.Background(), orderID); err != nil {
		t.Fatalf("RecalcTotals: %v", err)
	}
	if got := numStr(t, updateParams.DiscountAmount); got != "90.00" {
		t.Errorf("discount = %s, want 90.00 (clamped to subtotal)", got)
	}
	if got := numStr(t, updateParams.GrandTotal); got != "0.00" {
		t.Errorf("grand total = %s, want 0.00", got)
	}
}

func TestCustomerOutstandingBalance(t *testing.T) {
	customerID := uuid.New()

	store := &mockOrderStore{
		getCustomerOutstandingBalanceFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			if id != customerID {
				t.Errorf("customer id = %s, want %s", id, customerID)
			}
			return num(t, "125.50"), nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	balance, err := svc.CustomerOutstandingBalance(context.Background(), store, customerID)
	if err != nil {
		t.Fatalf("CustomerOutstandingBalance: %v", err)
	}
	if balance.StringFixed(2) != "125.50" {
		t.Errorf("balance = %s, want 125.50", balance.StringFixed(2))
	}
}

func TestDeleteOrderNotFound(t *testing.T) {
	store := &mockOrderStore{
		deleteOrderFn: func(ctx context.Context, id uuid.UUID) (int64, error) { return 0, nil },
	}

	svc := newService(&mockTxBeginner{}, store)

	err := svc.DeleteOrder(context.Background(), uuid.New())
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("err = %v, want ErrOrderNotFound", err)
	}
}

func TestUpdateOrderPartialPatch(t *testing.T) {
	orderID := uuid.New()
	customerID := uuid.New()

	current := database.Order{
		ID:            orderID,
		CustomerID:    pgtype.UUID{Bytes: customerID, Valid: true},
		Source:        enum.OrderSourceOnline,
		Status:        enum.OrderStatusPending,
		DiscountType:  pgtype.Text{String: enum.DiscountTypePercent, Valid: true},
		DiscountValue: num(t, "10"),
		TaxAmount:     num(t, "5.00"),
		Notes:         pgtype.Text{String: "table 4", Valid: true},
	}

	var updatedArg database.UpdateOrderDetailsParams
	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return current, nil
		},
		updateOrderDetailsFn: func(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error) {
			updatedArg = arg
			order := current
			order.Notes = arg.Notes
			return order, nil
		},
		listOrderItemsByOrderFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{{LineTotal: num(t, "100.00")}}, nil
		},
		sumPaymentsByOrderFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			return num(t, "0"), nil
		},
		updateOrderTotalsFn: func(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
			order := current
			order.Subtotal = arg.Subtotal
			order.DiscountAmount = arg.DiscountAmount
			order.GrandTotal = arg.GrandTotal
			order.PaidTotal = arg.PaidTotal
			order.DueTotal = arg.DueTotal
			return order, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	// A notes-only patch keeps customer, source, discount and tax intact.
	result, err := svc.UpdateOrder(context.Background(), orderID, UpdateOrderRequest{Notes: "table 9"})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	if !updatedArg.CustomerID.Valid || uuid.UUID(updatedArg.CustomerID.Bytes) != customerID {
		t.Error("customer_id was not preserved")
	}
	if updatedArg.Source != enum.OrderSourceOnline {
		t.Errorf("source = %q, want online", updatedArg.Source)
	}
	if updatedArg.DiscountType.String != enum.DiscountTypePercent {
		t.Errorf("discount type = %q, want percent", updatedArg.DiscountType.String)
	}
	if got := numStr(t, updatedArg.TaxAmount); got != "5.00" {
		t.Errorf("tax amount = %s, want 5.00", got)
	}
	if updatedArg.Notes.String != "table 9" {
		t.Errorf("notes = %q, want table 9", updatedArg.Notes.String)
	}

	// 100.00 items, 10% discount still applied, 5.00 tax.
	if got := numStr(t, result.Order.GrandTotal); got != "95.00" {
		t.Errorf("grand total = %s, want 95.00", got)
	}
	if got := numStr(t, result.Order.DiscountAmount); got != "10.00" {
		t.Errorf("discount amount = %s, want 10.00", got)
	}
}

func TestUpdateOrderOverridesDiscount(t *testing.T) {
	orderID := uuid.New()

	current := database.Order{
		ID:            orderID,
		Source:        enum.OrderSourceStore,
		Status:        enum.OrderStatusPending,
		DiscountType:  pgtype.Text{String: enum.DiscountTypeFixed, Valid: true},
		DiscountValue: num(t, "20.00"),
	}

	var updatedArg database.UpdateOrderDetailsParams
	store := &mockOrderStore{
		getOrderForUpdateFn: func(ctx context.Context, id uuid.UUID) (database.Order, error) {
			return current, nil
		},
		updateOrderDetailsFn: func(ctx context.Context, arg database.UpdateOrderDetailsParams) (database.Order, error) {
			updatedArg = arg
			order := current
			order.DiscountType = arg.DiscountType
			order.DiscountValue = arg.DiscountValue
			return order, nil
		},
		listOrderItemsByOrderFn: func(ctx context.Context, id uuid.UUID) ([]database.OrderItem, error) {
			return []database.OrderItem{{LineTotal: num(t, "50.00")}}, nil
		},
		sumPaymentsByOrderFn: func(ctx context.Context, id uuid.UUID) (pgtype.Numeric, error) {
			return num(t, "0"), nil
		},
		updateOrderTotalsFn: func(ctx context.Context, arg database.UpdateOrderTotalsParams) (database.Order, error) {
			order := current
			order.GrandTotal = arg.GrandTotal
			return order, nil
		},
	}

	svc := newService(&mockTxBeginner{}, store)

	result, err := svc.UpdateOrder(context.Background(), orderID, UpdateOrderRequest{
		DiscountType:  enum.DiscountTypePercent,
		DiscountValue: "50",
	})
	if err != nil {
		t.Fatalf("UpdateOrder: %v", err)
	}

	if updatedArg.DiscountType.String != enum.DiscountTypePercent {
		t.Errorf("discount type = %q, want percent", updatedArg.DiscountType.String)
	}
	if got := numStr(t, result.Order.GrandTotal); got != "25.00" {
		t.Errorf("grand total = %s, want 25.00", got)
	}
}
