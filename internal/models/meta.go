package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// MetaKind enumerates the value kinds allowed in activity metadata.
type MetaKind int

const (
	MetaKindString MetaKind = iota
	MetaKindNumber
	MetaKindTime
)

// MetaValue is a tagged value for activity metadata: a string, a number
// or a timestamp. It keeps the open-ended shape of the metadata bag
// without degrading to untyped blobs.
type MetaValue struct {
	Kind MetaKind
	Str  string
	Num  float64
	Time time.Time
}

func MetaString(s string) MetaValue  { return MetaValue{Kind: MetaKindString, Str: s} }
func MetaNumber(n float64) MetaValue { return MetaValue{Kind: MetaKindNumber, Num: n} }
func MetaTime(t time.Time) MetaValue { return MetaValue{Kind: MetaKindTime, Time: t} }

// MarshalJSON emits the underlying value, so stored metadata reads as
// plain JSON ({"payment_id": 42, "method": "CASH"}).
func (v MetaValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case MetaKindNumber:
		return json.Marshal(v.Num)
	case MetaKindTime:
		return json.Marshal(v.Time.Format(time.RFC3339))
	default:
		return json.Marshal(v.Str)
	}
}

// UnmarshalJSON classifies the raw value: JSON numbers become numbers,
// RFC3339 strings become timestamps, everything else stays a string.
func (v *MetaValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch val := raw.(type) {
	case float64:
		*v = MetaNumber(val)
	case string:
		if t, err := time.Parse(time.RFC3339, val); err == nil {
			*v = MetaTime(t)
		} else {
			*v = MetaString(val)
		}
	case bool:
		if val {
			*v = MetaString("true")
		} else {
			*v = MetaString("false")
		}
	case nil:
		*v = MetaString("")
	default:
		return fmt.Errorf("unsupported metadata value type %T", raw)
	}
	return nil
}

// Metadata is the structured context attached to an activity entry,
// stored as a JSONB column.
type Metadata map[string]MetaValue

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(src any) error {
	return scanJSON(src, m)
}

// PhaseDates records the timestamp at which an item entered each
// workflow phase, keyed by status code. Stored as a JSONB column.
type PhaseDates map[string]time.Time

func (p PhaseDates) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

func (p *PhaseDates) Scan(src any) error {
	return scanJSON(src, p)
}

func scanJSON(src, dst any) error {
	switch data := src.(type) {
	case []byte:
		return json.Unmarshal(data, dst)
	case string:
		return json.Unmarshal([]byte(data), dst)
	case nil:
		return nil
	default:
		return fmt.Errorf("cannot scan %T into JSON map", src)
	}
}
