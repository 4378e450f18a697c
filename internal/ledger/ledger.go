// Package ledger holds the order money arithmetic: line totals, order
// totals, and payment aggregation. Everything here is pure decimal math
// over already-validated inputs; persistence and validation live in the
// service layer.
package ledger

import (
	"github.com/ruchira-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// DiscountAmount computes the discount for a fixed or percent discount
// against the given base (item gross or order subtotal). Fixed discounts
// are clamped to [0, base]; percent values are clamped to [0, 100] before
// applying. An empty discountType means no discount. Result is rounded
// to 2 decimal places and never negative.
func DiscountAmount(discountType string, value, base decimal.Decimal) decimal.Decimal {
	switch discountType {
	case enum.DiscountTypeFixed:
		if value.IsNegative() {
			return decimal.Zero.Round(2)
		}
		if value.GreaterThan(base) {
			return base.Round(2)
		}
		return value.Round(2)
	case enum.DiscountTypePercent:
		pct := value
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		return base.Mul(pct).Div(hundred).Round(2)
	}
	return decimal.Zero.Round(2)
}

// LineResult is the computed money state of one order item.
type LineResult struct {
	Gross          decimal.Decimal
	DiscountAmount decimal.Decimal
	LineTotal      decimal.Decimal
}

// Line computes gross, discount amount, and net line total for a single
// order item. Quantity may carry up to 3 decimal places for fractional
// units; gross is quantized to 2 before the discount applies.
//
//	gross      = round(qty * unit_price, 2)
//	line_total = max(0, gross - discount_amount), 2dp
func Line(qty, unitPrice decimal.Decimal, discountType string, discountValue decimal.Decimal) LineResult {
	gross := qty.Mul(unitPrice).Round(2)
	disc := DiscountAmount(discountType, discountValue, gross)
	total := gross.Sub(disc)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return LineResult{
		Gross:          gross,
		DiscountAmount: disc,
		LineTotal:      total.Round(2),
	}
}

// OrderResult is the computed money state of an order.
type OrderResult struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	GrandTotal     decimal.Decimal
	PaidTotal      decimal.Decimal
	DueTotal       decimal.Decimal
}

// Order derives an order's totals from its current line totals, the
// order-level discount, tax, and the sum of its payments. Item discounts
// are already inside lineTotals; the order discount applies to the
// discounted subtotal (stacking order matters and must not be reversed).
//
//	grand_total = max(0, subtotal - discount_amount + tax_amount), 2dp
//	due_total   = max(0, grand_total - paid_total), 2dp
func Order(lineTotals []decimal.Decimal, discountType string, discountValue, taxAmount, paidTotal decimal.Decimal) OrderResult {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = subtotal.Round(2)

	disc := DiscountAmount(discountType, discountValue, subtotal)

	grand := subtotal.Sub(disc).Add(taxAmount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}
	grand = grand.Round(2)

	due := grand.Sub(paidTotal)
	if due.IsNegative() {
		due = decimal.Zero
	}

	return OrderResult{
		Subtotal:       subtotal,
		DiscountAmount: disc,
		GrandTotal:     grand,
		PaidTotal:      paidTotal.Round(2),
		DueTotal:       due.Round(2),
	}
}

// Due recomputes paid/due from an unchanged grand total. Used when a
// payment is added or removed without touching items.
func Due(grandTotal, paidTotal decimal.Decimal) decimal.Decimal {
	due := grandTotal.Sub(paidTotal)
	if due.IsNegative() {
		due = decimal.Zero
	}
	return due.Round(2)
}

// PaymentStatus derives the PAID / PARTIAL / DUE label from current
// totals. Pure function of its inputs, never stored.
func PaymentStatus(paidTotal, dueTotal decimal.Decimal) string {
	if dueTotal.LessThanOrEqual(decimal.Zero) {
		return enum.PaymentStatusPaid
	}
	if paidTotal.GreaterThan(decimal.Zero) {
		return enum.PaymentStatusPartial
	}
	return enum.PaymentStatusDue
}
