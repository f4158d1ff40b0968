// Package ledger recomputes an order's aggregate financial fields from
// its child records. Recomputation is always a full pass over the
// current items/payments rather than a delta: idempotent, drift-free,
// and O(items) per save. The store runs these inside the same
// transaction as the child mutation so concurrent writers to one order
// are serialized.
package ledger

import (
	"github.com/shopspring/decimal"

	"legalcrm/internal/models"
)

// Totals are the item-derived financial fields of an order.
type Totals struct {
	Amount decimal.Decimal
	Cost   decimal.Decimal
	Margin decimal.Decimal
}

// ComputeTotals sums price, cost and margin over all items attached to
// an order.
func ComputeTotals(items []models.ServiceItem) Totals {
	t := Totals{
		Amount: decimal.Zero,
		Cost:   decimal.Zero,
		Margin: decimal.Zero,
	}
	for i := range items {
		t.Amount = t.Amount.Add(items[i].Price)
		t.Cost = t.Cost.Add(items[i].Cost)
		t.Margin = t.Margin.Add(items[i].Margin)
	}
	return t
}

// SumPayments totals all payment amounts registered against an order.
func SumPayments(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for i := range payments {
		total = total.Add(payments[i].Amount)
	}
	return total
}

// DerivePaymentStatus classifies total_paid against total_amount:
// PAID when paid >= amount, PARTIAL when 0 < paid < amount, else
// PENDING. A zero-amount order with no payments is PENDING; a
// zero-amount order with any positive payment is trivially PAID.
func DerivePaymentStatus(totalPaid, totalAmount decimal.Decimal) models.PaymentStatus {
	switch {
	case totalPaid.IsZero() && totalAmount.IsZero():
		return models.PaymentStatusPending
	case totalPaid.GreaterThanOrEqual(totalAmount):
		return models.PaymentStatusPaid
	case totalPaid.IsPositive():
		return models.PaymentStatusPartial
	default:
		return models.PaymentStatusPending
	}
}
