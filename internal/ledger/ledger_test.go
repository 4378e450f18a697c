package ledger

import (
	"testing"

	"github.com/ruchira-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func assertDec(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got.String(), want)
	}
}

func TestLineNoDiscount(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		unitPrice string
		wantGross string
	}{
		{"simple", "3", "10.00", "30.00"},
		{"single unit", "1", "99.99", "99.99"},
		{"fractional qty", "1.250", "80.00", "100.00"},
		{"fractional rounding", "0.333", "10.00", "3.33"},
		{"zero price", "5", "0.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Line(dec(tt.qty), dec(tt.unitPrice), "", decimal.Zero)
			assertDec(t, "gross", res.Gross, tt.wantGross)
			assertDec(t, "discount", res.DiscountAmount, "0.00")
			assertDec(t, "line_total", res.LineTotal, tt.wantGross)
		})
	}
}

func TestLineFixedDiscount(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		unitPrice string
		value     string
		wantDisc  string
		wantTotal string
	}{
		{"within gross", "2", "50.00", "20.00", "20.00", "80.00"},
		{"exactly gross", "2", "50.00", "100.00", "100.00", "0.00"},
		{"exceeds gross clamps", "2", "50.00", "150.00", "100.00", "0.00"},
		{"negative clamps to zero", "2", "50.00", "-5.00", "0.00", "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Line(dec(tt.qty), dec(tt.unitPrice), enum.DiscountTypeFixed, dec(tt.value))
			assertDec(t, "discount", res.DiscountAmount, tt.wantDisc)
			assertDec(t, "line_total", res.LineTotal, tt.wantTotal)
		})
	}
}

func TestLinePercentDiscount(t *testing.T) {
	tests := []struct {
		name      string
		qty       string
		unitPrice string
		value     string
		wantDisc  string
		wantTotal string
	}{
		{"ten percent", "2", "50.00", "10", "10.00", "90.00"},
		{"hundred percent", "2", "50.00", "100", "100.00", "0.00"},
		{"over hundred clamps", "2", "50.00", "150", "100.00", "0.00"},
		{"negative clamps to zero", "2", "50.00", "-10", "0.00", "100.00"},
		{"rounds half up", "1", "10.05", "50", "5.03", "5.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Line(dec(tt.qty), dec(tt.unitPrice), enum.DiscountTypePercent, dec(tt.value))
			assertDec(t, "discount", res.DiscountAmount, tt.wantDisc)
			assertDec(t, "line_total", res.LineTotal, tt.wantTotal)
		})
	}
}

func TestOrderTotals(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		res := Order(nil, "", decimal.Zero, decimal.Zero, decimal.Zero)
		assertDec(t, "subtotal", res.Subtotal, "0.00")
		assertDec(t, "grand_total", res.GrandTotal, "0.00")
		assertDec(t, "due_total", res.DueTotal, "0.00")
	})

	t.Run("basic order, no discount, no payments", func(t *testing.T) {
		res := Order([]decimal.Decimal{dec("30.00")}, "", decimal.Zero, decimal.Zero, decimal.Zero)
		assertDec(t, "subtotal", res.Subtotal, "30.00")
		assertDec(t, "grand_total", res.GrandTotal, "30.00")
		assertDec(t, "paid_total", res.PaidTotal, "0.00")
		assertDec(t, "due_total", res.DueTotal, "30.00")
		if got := PaymentStatus(res.PaidTotal, res.DueTotal); got != enum.PaymentStatusDue {
			t.Errorf("payment status = %s, want DUE", got)
		}
	})

	t.Run("fully paid", func(t *testing.T) {
		res := Order([]decimal.Decimal{dec("30.00")}, "", decimal.Zero, decimal.Zero, dec("30.00"))
		assertDec(t, "paid_total", res.PaidTotal, "30.00")
		assertDec(t, "due_total", res.DueTotal, "0.00")
		if got := PaymentStatus(res.PaidTotal, res.DueTotal); got != enum.PaymentStatusPaid {
			t.Errorf("payment status = %s, want PAID", got)
		}
	})

	t.Run("partial payment", func(t *testing.T) {
		res := Order([]decimal.Decimal{dec("30.00")}, "", decimal.Zero, decimal.Zero, dec("10.00"))
		assertDec(t, "due_total", res.DueTotal, "20.00")
		if got := PaymentStatus(res.PaidTotal, res.DueTotal); got != enum.PaymentStatusPartial {
			t.Errorf("payment status = %s, want PARTIAL", got)
		}
	})

	t.Run("order fixed discount exceeding subtotal clamps", func(t *testing.T) {
		res := Order([]decimal.Decimal{dec("90.00")}, enum.DiscountTypeFixed, dec("100.00"), decimal.Zero, decimal.Zero)
		assertDec(t, "discount", res.DiscountAmount, "90.00")
		assertDec(t, "grand_total", res.GrandTotal, "0.00")
	})

	t.Run("order percent discount on discounted subtotal", func(t *testing.T) {
		// Item discounts apply first; the order discount then hits the
		// already-discounted subtotal.
		item := Line(dec("2"), dec("50.00"), enum.DiscountTypePercent, dec("10"))
		assertDec(t, "line_total", item.LineTotal, "90.00")

		res := Order([]decimal.Decimal{item.LineTotal}, enum.DiscountTypePercent, dec("10"), decimal.Zero, decimal.Zero)
		assertDec(t, "discount", res.DiscountAmount, "9.00")
		assertDec(t, "grand_total", res.GrandTotal, "81.00")
	})

	t.Run("tax added after discount", func(t *testing.T) {
		res := Order([]decimal.Decimal{dec("100.00")}, enum.DiscountTypeFixed, dec("20.00"), dec("8.00"), decimal.Zero)
		assertDec(t, "grand_total", res.GrandTotal, "88.00")
	})

	t.Run("overpayment floors due at zero", func(t *testing.T) {
		res := Order([]decimal.Decimal{dec("30.00")}, "", decimal.Zero, decimal.Zero, dec("50.00"))
		assertDec(t, "due_total", res.DueTotal, "0.00")
		if got := PaymentStatus(res.PaidTotal, res.DueTotal); got != enum.PaymentStatusPaid {
			t.Errorf("payment status = %s, want PAID", got)
		}
	})
}

// Recomputing from unchanged inputs must yield identical totals.
func TestOrderIdempotent(t *testing.T) {
	lines := []decimal.Decimal{dec("90.00"), dec("15.50")}
	first := Order(lines, enum.DiscountTypePercent, dec("5"), dec("2.00"), dec("40.00"))
	second := Order(lines, enum.DiscountTypePercent, dec("5"), dec("2.00"), dec("40.00"))

	if !first.Subtotal.Equal(second.Subtotal) ||
		!first.DiscountAmount.Equal(second.DiscountAmount) ||
		!first.GrandTotal.Equal(second.GrandTotal) ||
		!first.DueTotal.Equal(second.DueTotal) {
		t.Errorf("recalculation not idempotent: %+v vs %+v", first, second)
	}
}

func TestDue(t *testing.T) {
	assertDec(t, "due", Due(dec("100.00"), dec("40.00")), "60.00")
	assertDec(t, "due overpaid", Due(dec("100.00"), dec("120.00")), "0.00")
	assertDec(t, "due unpaid", Due(dec("100.00"), decimal.Zero), "100.00")
}

func TestDiscountAmountUnknownType(t *testing.T) {
	got := DiscountAmount("bogus", dec("10.00"), dec("100.00"))
	assertDec(t, "discount", got, "0.00")
}
