package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeMargin(t *testing.T) {
	item := &ServiceItem{
		Price: decimal.RequireFromString("150.00"),
		Cost:  decimal.RequireFromString("60.50"),
	}
	item.RecomputeMargin()
	assert.True(t, decimal.RequireFromString("89.50").Equal(item.Margin))

	// negative margins are allowed, the data is kept honest
	item.Cost = decimal.RequireFromString("200.00")
	item.RecomputeMargin()
	assert.True(t, item.Margin.IsNegative())
}

func TestItemStatusTerminal(t *testing.T) {
	assert.True(t, StatusReady.Terminal())
	assert.True(t, StatusDelivered.Terminal())
	assert.False(t, StatusInit.Terminal())
	assert.False(t, StatusLegalized.Terminal())
	assert.False(t, StatusReadyPickup.Terminal())
}

func TestDocumentAbbreviation(t *testing.T) {
	assert.Equal(t, "AP", DocCriminalRecord.Abbreviation())
	assert.Equal(t, "NAC", DocBirth.Abbreviation())
	assert.Equal(t, "DOC", DocumentType("UNKNOWN").Abbreviation())
}

func TestMetaValueJSONRoundTrip(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	meta := Metadata{
		"payment_id": MetaNumber(42),
		"method":     MetaString("CASH"),
		"sent_at":    MetaTime(ts),
	}

	data, err := json.Marshal(meta)
	require.NoError(t, err)

	// stored form is plain JSON values, no type tags
	var plain map[string]any
	require.NoError(t, json.Unmarshal(data, &plain))
	assert.Equal(t, float64(42), plain["payment_id"])
	assert.Equal(t, "CASH", plain["method"])

	var decoded Metadata
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MetaKindNumber, decoded["payment_id"].Kind)
	assert.Equal(t, float64(42), decoded["payment_id"].Num)
	assert.Equal(t, MetaKindString, decoded["method"].Kind)
	assert.Equal(t, "CASH", decoded["method"].Str)
	assert.Equal(t, MetaKindTime, decoded["sent_at"].Kind)
	assert.True(t, ts.Equal(decoded["sent_at"].Time))
}

func TestMetadataScanValue(t *testing.T) {
	meta := Metadata{"item_id": MetaNumber(7)}

	v, err := meta.Value()
	require.NoError(t, err)

	var scanned Metadata
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, float64(7), scanned["item_id"].Num)

	// nil metadata stores as an empty object
	var empty Metadata
	v, err = empty.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), v)
}

func TestPhaseDatesScanValue(t *testing.T) {
	ts := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	pd := PhaseDates{"MINJUS_OUT": ts}

	v, err := pd.Value()
	require.NoError(t, err)

	var scanned PhaseDates
	require.NoError(t, scanned.Scan(v))
	assert.True(t, ts.Equal(scanned["MINJUS_OUT"]))

	// NULL column leaves the map nil
	var fromNull PhaseDates
	require.NoError(t, fromNull.Scan(nil))
	assert.Nil(t, fromNull)
}
