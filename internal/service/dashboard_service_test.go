package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"legalcrm/internal/models"
)

func TestDashboardCacheKeyPerCurrency(t *testing.T) {
	seen := map[string]bool{}
	for _, currency := range models.Currencies {
		key := dashboardCacheKey(currency)
		assert.False(t, seen[key], "key %q reused across currencies", key)
		seen[key] = true
	}

	assert.Equal(t, "dashboard:stats:EUR", dashboardCacheKey(models.CurrencyEUR))
	assert.Equal(t, "dashboard:stats:USD", dashboardCacheKey(models.CurrencyUSD))
}
