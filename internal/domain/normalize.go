package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are tried in order when parsing call and response
// timestamps. The helpline export writes "2006-01-02 15:04:05"; the rest
// cover common re-exports of the same data.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// NormalizeTable validates a raw table's schema and normalizes every row.
// A missing required column returns a *SchemaError and no records. Row-level
// problems never drop rows: bad timestamps leave ValidTime false with zero
// calendar fields, bad coordinates leave HasCoords false.
func NormalizeTable(table RawTable) ([]CallRecord, error) {
	var missing []string
	for _, col := range RequiredColumns {
		if !slices.Contains(table.Columns, col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make([]CallRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, NormalizeRecord(row))
	}
	return records, nil
}

// NormalizeRecord converts one raw row into a CallRecord, deriving all
// calendar and validity fields.
func NormalizeRecord(raw RawRecord) CallRecord {
	rec := CallRecord{
		ID:           strings.TrimSpace(raw.CallID),
		Category:     strings.ToLower(strings.TrimSpace(raw.Category)),
		Jurisdiction: strings.TrimSpace(raw.Jurisdiction),
	}

	if t, ok := parseTimestamp(raw.CallTS); ok {
		rec.CallTime = t
		rec.ValidTime = true
		rec.Date = DateOf(t)
		rec.Hour = t.Hour()
		rec.Weekday = t.Weekday().String()
		rec.Month = int(t.Month())
		rec.Year = t.Year()
		rec.IsWeekend = t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
	}

	lat, latOK := parseCoord(raw.Lat)
	lon, lonOK := parseCoord(raw.Lon)
	if latOK && lonOK {
		rec.Lat = lat
		rec.Lon = lon
		rec.HasCoords = true
	}

	if rec.ValidTime {
		if resp, ok := parseTimestamp(raw.ResponseTS); ok {
			minutes := resp.Sub(rec.CallTime).Minutes()
			// Negative response times indicate clock skew in the source
			// system and are treated as missing.
			if minutes >= 0 {
				rec.ResponseTimeMin = &minutes
			}
		}
	}

	if rec.ID == "" {
		rec.ID = generateID(raw)
	}
	return rec
}

// DateOf truncates a timestamp to its calendar date at midnight UTC,
// the canonical key for all per-day count tables.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseCoord parses a coordinate string, rejecting non-finite values.
func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// generateID produces a deterministic ID from a row's key fields for
// exports that leave call_id blank. Re-loading the same file yields the
// same IDs, keeping downstream references stable.
func generateID(raw RawRecord) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%s",
		raw.CallTS, raw.Lat, raw.Lon, raw.Category, raw.Jurisdiction)
	hash := sha256.Sum256([]byte(input))
	return "call-" + hex.EncodeToString(hash[:8])
}
