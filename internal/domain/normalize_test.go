package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() RawRecord {
	return RawRecord{
		CallID:       "C-1001",
		CallTS:       "2024-10-12 19:45:10",
		ResponseTS:   "2024-10-12 19:57:10",
		Lat:          "15.4909",
		Lon:          "73.8278",
		Category:     "  Crime ",
		Jurisdiction: " Panaji ",
	}
}

func TestNormalizeRecord(t *testing.T) {
	t.Run("derived fields are consistent with the timestamp", func(t *testing.T) {
		rec := NormalizeRecord(validRaw())

		assert.True(t, rec.ValidTime)
		assert.Equal(t, time.Date(2024, 10, 12, 19, 45, 10, 0, time.UTC), rec.CallTime)
		assert.Equal(t, time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC), rec.Date)
		assert.Equal(t, 19, rec.Hour)
		assert.Equal(t, "Saturday", rec.Weekday)
		assert.Equal(t, 10, rec.Month)
		assert.Equal(t, 2024, rec.Year)
		assert.True(t, rec.IsWeekend)
	})

	t.Run("category lower-cased, jurisdiction keeps case", func(t *testing.T) {
		rec := NormalizeRecord(validRaw())

		assert.Equal(t, "crime", rec.Category)
		assert.Equal(t, "Panaji", rec.Jurisdiction)
	})

	t.Run("bad timestamp keeps the row", func(t *testing.T) {
		raw := validRaw()
		raw.CallTS = "not-a-date"
		rec := NormalizeRecord(raw)

		assert.False(t, rec.ValidTime)
		assert.True(t, rec.Date.IsZero())
		assert.Empty(t, rec.Weekday)
		assert.Equal(t, 0, rec.Hour)
		assert.Equal(t, "C-1001", rec.ID)
	})

	t.Run("has_coords requires both coordinates", func(t *testing.T) {
		tests := []struct {
			name     string
			lat, lon string
			want     bool
		}{
			{"both numeric", "15.49", "73.82", true},
			{"negative values", "-15.49", "-73.82", true},
			{"blank lat", "", "73.82", false},
			{"non-numeric lon", "15.49", "east", false},
			{"NaN lat", "NaN", "73.82", false},
			{"infinite lon", "15.49", "+Inf", false},
			{"both blank", "", "", false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				raw := validRaw()
				raw.Lat, raw.Lon = tt.lat, tt.lon
				assert.Equal(t, tt.want, NormalizeRecord(raw).HasCoords)
			})
		}
	})

	t.Run("response time in minutes", func(t *testing.T) {
		rec := NormalizeRecord(validRaw())
		require.NotNil(t, rec.ResponseTimeMin)
		assert.InDelta(t, 12.0, *rec.ResponseTimeMin, 1e-9)
	})

	t.Run("negative response time treated as missing", func(t *testing.T) {
		raw := validRaw()
		raw.ResponseTS = "2024-10-12 19:00:00"
		assert.Nil(t, NormalizeRecord(raw).ResponseTimeMin)
	})

	t.Run("absent response timestamp", func(t *testing.T) {
		raw := validRaw()
		raw.ResponseTS = ""
		assert.Nil(t, NormalizeRecord(raw).ResponseTimeMin)
	})

	t.Run("blank id gets deterministic fallback", func(t *testing.T) {
		raw := validRaw()
		raw.CallID = ""

		rec1 := NormalizeRecord(raw)
		rec2 := NormalizeRecord(raw)

		assert.NotEmpty(t, rec1.ID)
		assert.True(t, len(rec1.ID) > 5)
		assert.Equal(t, rec1.ID, rec2.ID)
	})

	t.Run("rfc3339 timestamp", func(t *testing.T) {
		raw := validRaw()
		raw.CallTS = "2024-10-12T19:45:10Z"
		rec := NormalizeRecord(raw)

		assert.True(t, rec.ValidTime)
		assert.Equal(t, 19, rec.Hour)
	})
}

func TestNormalizeTable(t *testing.T) {
	allColumns := []string{
		ColCallID, ColCallTS, ColCallerLat, ColCallerLon, ColCategory, ColJurisdiction,
	}

	t.Run("valid table", func(t *testing.T) {
		table := RawTable{
			Columns: allColumns,
			Rows:    []RawRecord{validRaw(), validRaw()},
		}
		records, err := NormalizeTable(table)

		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("missing required columns", func(t *testing.T) {
		table := RawTable{Columns: []string{ColCallID, ColCategory}}
		_, err := NormalizeTable(table)

		var schemaErr *SchemaError
		require.ErrorAs(t, err, &schemaErr)
		assert.Contains(t, schemaErr.Missing, ColCallTS)
		assert.Contains(t, schemaErr.Missing, ColCallerLat)
		assert.Contains(t, schemaErr.Missing, ColCallerLon)
		assert.Contains(t, schemaErr.Missing, ColJurisdiction)
		assert.NotContains(t, schemaErr.Missing, ColCallID)
	})

	t.Run("empty table with valid header", func(t *testing.T) {
		records, err := NormalizeTable(RawTable{Columns: allColumns})

		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestDateOf(t *testing.T) {
	ts := time.Date(2024, 10, 12, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC), DateOf(ts))
}
