package domain

import (
	"math"
	"strings"
	"time"
)

// Default significance scoring parameters.
const (
	DefaultScoreCategory     = "crime"
	DefaultScoreThresholdPct = 30.0
	DefaultScoreMinCalls     = 5
)

// ScoreParams configures significance scoring.
type ScoreParams struct {
	Category     string  `json:"category"`
	ThresholdPct float64 `json:"threshold_pct"`
	MinCalls     int     `json:"min_calls"`
}

// DefaultScoreParams returns the standard scoring configuration.
func DefaultScoreParams() ScoreParams {
	return ScoreParams{
		Category:     DefaultScoreCategory,
		ThresholdPct: DefaultScoreThresholdPct,
		MinCalls:     DefaultScoreMinCalls,
	}
}

// SignificanceResult flags one festival interval as significant, reporting
// the day inside the interval with the highest percentage deviation above
// its weekday baseline among days meeting the min-calls floor.
type SignificanceResult struct {
	Name      string    `json:"name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	PeakDay   time.Time `json:"peak_day"`
	PeakPct   float64   `json:"peak_pct"`
	PeakCount int       `json:"peak_count"`
}

// ScoreFestivals computes per-interval significance over the full record
// set. Pure and deterministic: identical inputs yield identical results.
// Intervals with no qualifying day produce no result (absence, not a zero
// record); empty records or a category with no matches yield an empty list.
//
// Baselines come from a per-date count table built over all records in the
// category, not just the interval, so festival days are compared against the
// category's whole history.
func ScoreFestivals(intervals []FestivalInterval, records []CallRecord, params ScoreParams) []SignificanceResult {
	category := strings.ToLower(strings.TrimSpace(params.Category))

	counts := categoryCountsByDate(records, category)
	if len(counts) == 0 {
		return nil
	}

	overallMean := meanCounts(counts)
	weekdayMeans := weekdayMeanCounts(counts)

	var results []SignificanceResult
	for _, f := range intervals {
		start := DateOf(f.Start)
		end := DateOf(f.End)

		peakPct := math.Inf(-1)
		peakCount := 0
		var peakDay time.Time
		found := false

		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			dayCount := counts[d]

			baseline, ok := weekdayMeans[d.Weekday()]
			if !ok {
				baseline = overallMean
			}
			// A zero baseline would divide by zero; adjusting to 1 inflates
			// percentages for sparse categories. Documented quirk, kept as-is.
			baselineAdj := baseline
			if baselineAdj <= 0 {
				baselineAdj = 1
			}

			pct := (float64(dayCount) - baselineAdj) / baselineAdj * 100

			// Strict > keeps the earliest qualifying day on ties. Days below
			// the min-calls floor are never peak candidates, whatever their
			// percentage.
			if dayCount >= params.MinCalls && pct > peakPct {
				peakPct = pct
				peakCount = dayCount
				peakDay = d
				found = true
			}
		}

		if found && peakPct >= params.ThresholdPct {
			results = append(results, SignificanceResult{
				Name:      f.Name,
				Start:     f.Start,
				End:       f.End,
				PeakDay:   peakDay,
				PeakPct:   peakPct,
				PeakCount: peakCount,
			})
		}
	}
	return results
}

// categoryCountsByDate builds the per-calendar-date count table for one
// category. Rows with invalid timestamps have no date and are skipped.
func categoryCountsByDate(records []CallRecord, category string) map[time.Time]int {
	counts := make(map[time.Time]int)
	for _, rec := range records {
		if !rec.ValidTime || rec.Category != category {
			continue
		}
		counts[rec.Date]++
	}
	return counts
}

func meanCounts(counts map[time.Time]int) float64 {
	if len(counts) == 0 {
		return 0
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return float64(total) / float64(len(counts))
}

// weekdayMeanCounts averages the count table per weekday. Weekdays with no
// dates in the table are absent from the result, triggering the
// overall-mean fallback.
func weekdayMeanCounts(counts map[time.Time]int) map[time.Weekday]float64 {
	sums := make(map[time.Weekday]int)
	days := make(map[time.Weekday]int)
	for d, c := range counts {
		sums[d.Weekday()] += c
		days[d.Weekday()]++
	}
	means := make(map[time.Weekday]float64, len(sums))
	for wd, sum := range sums {
		means[wd] = float64(sum) / float64(days[wd])
	}
	return means
}
