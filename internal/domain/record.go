package domain

import (
	"fmt"
	"strings"
	"time"
)

// Required call-log columns. Column names follow the 112 helpline export
// format; the loader passes headers through verbatim apart from trimming.
const (
	ColCallID       = "call_id"
	ColCallTS       = "call_ts"
	ColCallerLat    = "caller_lat"
	ColCallerLon    = "caller_lon"
	ColCategory     = "category"
	ColJurisdiction = "jurisdiction"

	// ColResponseTS is optional; when present it drives response_time_min.
	ColResponseTS = "response_ts"
)

// RequiredColumns lists the columns a raw table must carry to be normalized.
var RequiredColumns = []string{
	ColCallID, ColCallTS, ColCallerLat, ColCallerLon, ColCategory, ColJurisdiction,
}

// RawRecord is one untyped row as read from a CSV or XLSX export.
// All fields are strings; parsing and validation happen in normalization.
type RawRecord struct {
	CallID       string
	CallTS       string
	ResponseTS   string
	Lat          string
	Lon          string
	Category     string
	Jurisdiction string
}

// RawTable is an unvalidated tabular record set plus the header it was read with.
type RawTable struct {
	Columns []string
	Rows    []RawRecord
}

// CallRecord is the normalized form of one emergency call. Every derived
// field is computed once during normalization from the raw fields and is
// never re-derived downstream.
type CallRecord struct {
	ID           string `json:"id"`
	Category     string `json:"category"`
	Jurisdiction string `json:"jurisdiction"`

	CallTime  time.Time `json:"call_time,omitzero"`
	ValidTime bool      `json:"valid_time"`

	Lat       float64 `json:"lat,omitempty"`
	Lon       float64 `json:"lon,omitempty"`
	HasCoords bool    `json:"has_coords"`

	// Derived calendar fields; zero-valued when ValidTime is false.
	Date      time.Time `json:"date,omitzero"` // midnight UTC
	Hour      int       `json:"hour"`
	Weekday   string    `json:"weekday,omitempty"`
	Month     int       `json:"month"`
	Year      int       `json:"year"`
	IsWeekend bool      `json:"is_weekend"`

	// ResponseTimeMin is nil when response_ts is absent, unparseable,
	// or earlier than the call timestamp.
	ResponseTimeMin *float64 `json:"response_time_min,omitempty"`

	// FestivalName is assigned by TagFestivals; empty until tagged.
	FestivalName string `json:"festival_name,omitempty"`
}

// SchemaError reports required columns missing from a raw table.
// It is fatal to the load attempt that produced the table.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
