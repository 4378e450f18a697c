// Package receipt renders plain-text print jobs for 32-column thermal
// printers: the customer receipt and the kitchen ticket.
package receipt

import (
	"fmt"
	"strings"
	"time"
)

const width = 32

// Data is everything a print job needs, already formatted as strings.
type Data struct {
	StoreName      string
	OrderNo        string
	Source         string
	OrderedAt      time.Time
	Notes          string
	Items          []Item
	Payments       []Payment
	Subtotal       string
	DiscountAmount string
	TaxAmount      string
	GrandTotal     string
	PaidTotal      string
	DueTotal       string
}

type Item struct {
	Name      string
	Qty       string
	UnitPrice string
	LineTotal string
}

type Payment struct {
	Method string
	Amount string
}

// Customer renders the full customer receipt with totals and payments.
func Customer(d Data) string {
	var b strings.Builder

	writeCentered(&b, d.StoreName)
	writeCentered(&b, d.OrderNo)
	writeCentered(&b, d.OrderedAt.Format("2006-01-02 15:04"))
	writeDivider(&b)

	for _, item := range d.Items {
		b.WriteString(item.Name)
		b.WriteByte('\n')
		writeRow(&b, fmt.Sprintf("  %s x %s", d.trimQty(item.Qty), item.UnitPrice), item.LineTotal)
	}

	writeDivider(&b)
	writeRow(&b, "Subtotal", d.Subtotal)
	if d.DiscountAmount != "0.00" {
		writeRow(&b, "Discount", "-"+d.DiscountAmount)
	}
	if d.TaxAmount != "0.00" {
		writeRow(&b, "Tax", d.TaxAmount)
	}
	writeRow(&b, "TOTAL", d.GrandTotal)
	writeDivider(&b)

	for _, p := range d.Payments {
		writeRow(&b, p.Method, p.Amount)
	}
	if len(d.Payments) > 0 {
		writeRow(&b, "Paid", d.PaidTotal)
	}
	if d.DueTotal != "0.00" {
		writeRow(&b, "Due", d.DueTotal)
	}

	writeDivider(&b)
	writeCentered(&b, "Thank you!")

	return b.String()
}

// KitchenTicket renders the item list for the kitchen. No money fields.
func KitchenTicket(d Data) string {
	var b strings.Builder

	writeCentered(&b, "KITCHEN")
	writeCentered(&b, d.OrderNo)
	writeCentered(&b, strings.ToUpper(d.Source))
	writeDivider(&b)

	for _, item := range d.Items {
		writeRow(&b, item.Name, d.trimQty(item.Qty))
	}

	if d.Notes != "" {
		writeDivider(&b)
		b.WriteString("NOTE: ")
		b.WriteString(d.Notes)
		b.WriteByte('\n')
	}

	return b.String()
}

// trimQty drops trailing zeros so "2.000" prints as "2" but "0.250"
// prints as "0.25".
func (Data) trimQty(qty string) string {
	if !strings.Contains(qty, ".") {
		return qty
	}
	qty = strings.TrimRight(qty, "0")
	return strings.TrimSuffix(qty, ".")
}

func writeCentered(b *strings.Builder, s string) {
	if len(s) >= width {
		b.WriteString(s)
	} else {
		pad := (width - len(s)) / 2
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(s)
	}
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, left, right string) {
	gap := width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(right)
	b.WriteByte('\n')
}

func writeDivider(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", width))
	b.WriteByte('\n')
}
