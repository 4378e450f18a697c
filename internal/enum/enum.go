package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	OrderSourceOnline = "online"
	OrderSourceStore  = "store"
)

// ── Discounts (CHECK constrained in DB) ──

const (
	DiscountTypeFixed   = "fixed"
	DiscountTypePercent = "percent"
)

// ── Derived labels (never persisted) ──

const (
	PaymentStatusPaid    = "PAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusDue     = "DUE"
)

// ── Roles ──

const (
	UserRoleAdmin   = "ADMIN"
	UserRoleManager = "MANAGER"
	UserRoleCashier = "CASHIER"
)
