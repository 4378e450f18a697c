package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	FullName       string
	Role           string
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Customer struct {
	ID        uuid.UUID
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CustomerAddress struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	AddressLine string
	IsPrimary   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	ParentID  pgtype.UUID
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Sku        pgtype.Text
	SalePrice  pgtype.Numeric
	CostPrice  pgtype.Numeric
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type PaymentMethod struct {
	ID        uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Order struct {
	ID                uuid.UUID
	OrderNo           string
	CustomerID        pgtype.UUID
	CustomerAddressID pgtype.UUID
	Source            string
	Status            string
	Subtotal          pgtype.Numeric
	DiscountType      pgtype.Text
	DiscountValue     pgtype.Numeric
	DiscountAmount    pgtype.Numeric
	TaxAmount         pgtype.Numeric
	GrandTotal        pgtype.Numeric
	PaidTotal         pgtype.Numeric
	DueTotal          pgtype.Numeric
	Notes             pgtype.Text
	OrderedAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	Qty            pgtype.Numeric
	UnitPrice      pgtype.Numeric
	DiscountType   pgtype.Text
	DiscountValue  pgtype.Numeric
	DiscountAmount pgtype.Numeric
	LineTotal      pgtype.Numeric
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Payment struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          pgtype.Numeric
	ReferenceNo     pgtype.Text
	PaidAt          time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type StaffRole struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Staff struct {
	ID            uuid.UUID
	Name          string
	Phone         pgtype.Text
	RoleID        uuid.UUID
	MonthlySalary pgtype.Numeric
	IsActive      bool
	JoinedAt      pgtype.Date
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type StaffSalaryPayment struct {
	ID        uuid.UUID
	StaffID   uuid.UUID
	Amount    pgtype.Numeric
	PayDate   pgtype.Date
	Month     pgtype.Date
	Note      pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UtilityType struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UtilityBill struct {
	ID            uuid.UUID
	UtilityTypeID uuid.UUID
	Amount        pgtype.Numeric
	BillDate      pgtype.Date
	Note          pgtype.Text
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Unit struct {
	ID        uuid.UUID
	Name      string
	Symbol    pgtype.Text
	CreatedAt time.Time
	UpdatedAt time.Time
}

type RawMaterial struct {
	ID            uuid.UUID
	Name          string
	DefaultUnitID uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type RawMaterialPurchase struct {
	ID           uuid.UUID
	MaterialID   uuid.UUID
	UnitID       uuid.UUID
	Quantity     pgtype.Numeric
	UnitPrice    pgtype.Numeric
	PurchaseDate pgtype.Date
	Vendor       pgtype.Text
	Note         pgtype.Text
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type OtherExpense struct {
	ID          uuid.UUID
	Title       string
	Amount      pgtype.Numeric
	ExpenseDate pgtype.Date
	Note        pgtype.Text
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
