// Package domain models 112 helpline call logs and the festival-overlay
// analytics computed from them.
//
// # Input Data
//
// Call logs arrive as CSV or XLSX exports with one row per call. Required
// columns: call_id, call_ts, caller_lat, caller_lon, category, jurisdiction.
// Optional: response_ts. A missing required column is a schema error and
// fails the load; everything else degrades per row:
//
//	Timestamps: "2006-01-02 15:04:05" and common re-export variants. A row
//	with an unparseable call_ts is kept with ValidTime=false and zero-valued
//	calendar fields; it is never dropped silently.
//
//	Coordinates: numeric strings. Blank, non-numeric, or non-finite values
//	leave HasCoords=false. HasCoords is true iff both latitude and
//	longitude parse to finite numbers.
//
//	Category is trimmed and lower-cased so matching is case-insensitive;
//	jurisdiction is trimmed only, preserving display case.
//
//	Response times: response_ts minus call_ts in minutes. Negative values
//	indicate clock skew in the source system and are stored as missing.
//
// # Festival Tagging
//
// A festival interval is a named closed date range [Start, End]. Each
// record is assigned to the first interval in catalog order whose range
// contains its call date, or "Non-Festival". Containment is date-granular
// so a call any time on the last festival day is inside, matching the
// whole-day stepping of the scorer. Catalog order is the feed's document
// order; the first-match tie-break for overlapping intervals is defined
// but arbitrary.
//
// # Significance Scoring
//
// For each festival interval, each day's call count (for one category) is
// compared against a weekday baseline: the mean daily count for that
// weekday across the category's entire history. Two heuristics carry over
// from the original analysis and are deliberate behavior, not bugs:
//
//   - A weekday with no history falls back to the overall daily mean.
//   - A zero baseline is adjusted to 1 before computing the percentage
//     deviation, which inflates percentages for sparse categories.
//
// The peak day is the one with the highest percentage deviation among days
// meeting the absolute min-calls floor; days below the floor are never
// candidates. Ties resolve to the earliest day. An interval is significant
// when its peak deviation meets the threshold percentage.
//
// # ID Generation
//
// Rows without a call_id get a deterministic ID hashed from the row's key
// fields, so re-loading the same export yields the same IDs. See generateID.
package domain
