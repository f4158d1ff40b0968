package service

import (
	"regexp"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legalcrm/internal/errs"
	"legalcrm/internal/models"
)

func TestNewFriendlyID(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	id := NewFriendlyID("Juan Perez", now)
	assert.True(t, strings.HasPrefix(id, "JUANP_20240115_"), "got %s", id)
	assert.Regexp(t, regexp.MustCompile(`^JUANP_20240115_[0-9A-F]{4}$`), id)

	// short names are not padded
	id = NewFriendlyID("Ana", now)
	assert.True(t, strings.HasPrefix(id, "ANA_20240115_"), "got %s", id)
}

func TestNewFriendlyIDAccentedNames(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	// truncation must not split a multibyte letter in half
	id := NewFriendlyID("Andrés García", now)
	assert.True(t, utf8.ValidString(id), "got %q", id)
	assert.True(t, strings.HasPrefix(id, "ANDRÉ_20240115_"), "got %s", id)

	id = NewFriendlyID("María García", now)
	assert.True(t, utf8.ValidString(id), "got %q", id)
	assert.True(t, strings.HasPrefix(id, "MARÍA_20240115_"), "got %s", id)
}

func TestNewFriendlyIDVariesSuffix(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		seen[NewFriendlyID("Juan Perez", now)] = true
	}
	assert.Greater(t, len(seen), 1, "suffix should be random")
}

func TestBuildItemDefaults(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	item, err := buildItem(&ServiceItemRequest{
		TitularName: "Maria Gonzalez",
		Cost:        decimal.RequireFromString("40.00"),
		Price:       decimal.RequireFromString("100.00"),
	}, now)
	require.NoError(t, err)

	assert.Equal(t, models.ServiceTypeLegalization, item.ServiceType)
	assert.Equal(t, models.StatusInit, item.Status)
	assert.Equal(t, models.DestinationInternational, item.DeliveryDestination)
	assert.Equal(t, models.ResponsibleOfficeCuba, item.Responsible)
	assert.Equal(t, models.LogisticsNA, item.LogisticsStatus)
	assert.Equal(t, models.LocationOfficeHavana, item.CurrentLocation)
	assert.Equal(t, models.PriorityNormal, item.Priority)
	assert.True(t, decimal.RequireFromString("60.00").Equal(item.Margin))

	// normal priority gets the 15-day window
	require.NotNil(t, item.Deadline)
	assert.Equal(t, now.AddDate(0, 0, 15), *item.Deadline)
}

func TestBuildItemExpressDeadline(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	item, err := buildItem(&ServiceItemRequest{Priority: models.PriorityExpress}, now)
	require.NoError(t, err)
	require.NotNil(t, item.Deadline)
	assert.Equal(t, now.AddDate(0, 0, 3), *item.Deadline)
}

func TestBuildItemExplicitDeadlineKept(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	explicit := now.AddDate(0, 0, 30)

	item, err := buildItem(&ServiceItemRequest{Deadline: &explicit}, now)
	require.NoError(t, err)
	require.NotNil(t, item.Deadline)
	assert.Equal(t, explicit, *item.Deadline)
}

func TestBuildItemRejectsUnknownEnums(t *testing.T) {
	now := time.Now()

	_, err := buildItem(&ServiceItemRequest{ServiceType: "TELEPORT"}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = buildItem(&ServiceItemRequest{LegalizationType: "NOTARY"}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = buildItem(&ServiceItemRequest{Priority: "URGENT"}, now)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestPrefixValidation(t *testing.T) {
	err := errs.NewValidationError("price", "required")

	prefixed := prefixValidation(err, "items[2]")

	var vErr *errs.ValidationError
	require.ErrorAs(t, prefixed, &vErr)
	assert.Equal(t, "required", vErr.Fields["items[2].price"])

	// non-validation errors pass through untouched
	other := errs.NewNotFoundError("order", 1)
	assert.Equal(t, error(other), prefixValidation(other, "items[0]"))
}

func TestItemProgress(t *testing.T) {
	s := &OrderService{}
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	item := &models.ServiceItem{
		LegalizationType:    models.LegalizationMinjus,
		DeliveryDestination: models.DestinationHavana,
		Status:              models.StatusMinjusOut,
		Deadline:            &past,
	}

	phases, overdue := s.ItemProgress(item, now)
	assert.Equal(t, []models.ItemStatus{
		models.StatusInit, models.StatusMinjusOut, models.StatusReadyPickup, models.StatusDelivered,
	}, phases)
	assert.True(t, overdue)
}
