package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"legalcrm/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeTotals(t *testing.T) {
	items := []models.ServiceItem{
		{Price: dec("100.00"), Cost: dec("40.00"), Margin: dec("60.00")},
		{Price: dec("59.90"), Cost: dec("19.90"), Margin: dec("40.00")},
	}

	totals := ComputeTotals(items)
	assert.True(t, dec("159.90").Equal(totals.Amount), "amount: %s", totals.Amount)
	assert.True(t, dec("59.90").Equal(totals.Cost), "cost: %s", totals.Cost)
	assert.True(t, dec("100.00").Equal(totals.Margin), "margin: %s", totals.Margin)
}

func TestComputeTotalsEmpty(t *testing.T) {
	totals := ComputeTotals(nil)
	assert.True(t, totals.Amount.IsZero())
	assert.True(t, totals.Cost.IsZero())
	assert.True(t, totals.Margin.IsZero())
}

func TestComputeTotalsIdempotent(t *testing.T) {
	items := []models.ServiceItem{
		{Price: dec("10.50"), Cost: dec("3.25"), Margin: dec("7.25")},
	}

	first := ComputeTotals(items)
	second := ComputeTotals(items)
	assert.True(t, first.Amount.Equal(second.Amount))
	assert.True(t, first.Cost.Equal(second.Cost))
	assert.True(t, first.Margin.Equal(second.Margin))
}

func TestSumPayments(t *testing.T) {
	payments := []models.Payment{
		{Amount: dec("50.00")},
		{Amount: dec("25.50")},
		{Amount: dec("-10.00")}, // corrections are negative payments
	}

	assert.True(t, dec("65.50").Equal(SumPayments(payments)))
	assert.True(t, SumPayments(nil).IsZero())
}

func TestDerivePaymentStatus(t *testing.T) {
	tests := []struct {
		name     string
		paid     string
		amount   string
		expected models.PaymentStatus
	}{
		{"no payments", "0", "100", models.PaymentStatusPending},
		{"partial", "40", "100", models.PaymentStatusPartial},
		{"exact", "100", "100", models.PaymentStatusPaid},
		{"overpaid", "120", "100", models.PaymentStatusPaid},
		{"zero amount no payments", "0", "0", models.PaymentStatusPending},
		{"zero amount with payment", "10", "0", models.PaymentStatusPaid},
		{"negative paid", "-10", "100", models.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := DerivePaymentStatus(dec(tt.paid), dec(tt.amount))
			assert.Equal(t, tt.expected, status)
		})
	}
}
