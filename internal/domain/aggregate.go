package domain

import (
	"math"
	"sort"
	"time"
)

// DayCount is one row of the calls-per-day series.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// HourCount is one row of the calls-per-hour distribution.
type HourCount struct {
	Hour  int `json:"hour"`
	Count int `json:"count"`
}

// HourFestivalCount is one cell of the hourly distribution stacked by
// festival tag. Records must have been tagged before aggregation.
type HourFestivalCount struct {
	Hour     int    `json:"hour"`
	Festival string `json:"festival"`
	Count    int    `json:"count"`
}

// CategoryShare is one bucket of the category distribution.
type CategoryShare struct {
	Category string  `json:"category"`
	Count    int     `json:"count"`
	Pct      float64 `json:"pct"`
}

// KPIBundle holds the headline numbers for a filtered record set.
type KPIBundle struct {
	TotalCalls    int     `json:"total_calls"`
	AvgPerDay     float64 `json:"avg_per_day"`
	WithCoordsPct float64 `json:"with_coords_pct"`
}

// CountsByDay groups records by calendar date, sorted ascending. Days with
// no calls are omitted; rows with invalid timestamps are skipped.
func CountsByDay(records []CallRecord) []DayCount {
	counts := make(map[time.Time]int)
	for _, rec := range records {
		if rec.ValidTime {
			counts[rec.Date]++
		}
	}

	series := make([]DayCount, 0, len(counts))
	for d, c := range counts {
		series = append(series, DayCount{Date: d, Count: c})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date.Before(series[j].Date) })
	return series
}

// CountsByHour groups records by hour of day. Always returns exactly 24
// rows, hours 0-23, zero-filled for hours with no calls.
func CountsByHour(records []CallRecord) []HourCount {
	var counts [24]int
	for _, rec := range records {
		if rec.ValidTime {
			counts[rec.Hour]++
		}
	}

	series := make([]HourCount, 24)
	for h := range series {
		series[h] = HourCount{Hour: h, Count: counts[h]}
	}
	return series
}

// CountsByHourAndFestival groups records by (hour, festival tag) for the
// stacked hourly view. Only non-empty cells are returned, ordered by hour
// then festival name for stable output.
func CountsByHourAndFestival(records []CallRecord) []HourFestivalCount {
	type cell struct {
		hour     int
		festival string
	}
	counts := make(map[cell]int)
	for _, rec := range records {
		if !rec.ValidTime {
			continue
		}
		counts[cell{rec.Hour, rec.FestivalName}]++
	}

	cells := make([]HourFestivalCount, 0, len(counts))
	for key, c := range counts {
		cells = append(cells, HourFestivalCount{Hour: key.hour, Festival: key.festival, Count: c})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Hour != cells[j].Hour {
			return cells[i].Hour < cells[j].Hour
		}
		return cells[i].Festival < cells[j].Festival
	})
	return cells
}

// CategoryDistribution counts records per category with each bucket's
// percentage share. Records with a blank category form their own bucket, so
// shares always sum to 100 across all buckets. Sorted by count descending,
// then name, for stable output.
func CategoryDistribution(records []CallRecord) []CategoryShare {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Category]++
	}

	total := len(records)
	shares := make([]CategoryShare, 0, len(counts))
	for cat, c := range counts {
		shares = append(shares, CategoryShare{
			Category: cat,
			Count:    c,
			Pct:      float64(c) / float64(total) * 100,
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Category < shares[j].Category
	})
	return shares
}

// ComputeKPIs derives the headline numbers: total rows, average rows per
// day over the covered span (at least one day), and the share of rows with
// valid coordinates. Zero-valued for an empty record set.
func ComputeKPIs(records []CallRecord) KPIBundle {
	kpis := KPIBundle{TotalCalls: len(records)}
	if len(records) == 0 {
		return kpis
	}

	var minDate, maxDate time.Time
	withCoords := 0
	for _, rec := range records {
		if rec.HasCoords {
			withCoords++
		}
		if !rec.ValidTime {
			continue
		}
		if minDate.IsZero() || rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if maxDate.IsZero() || rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}

	if !minDate.IsZero() {
		days := int(maxDate.Sub(minDate).Hours()/24) + 1
		if days < 1 {
			days = 1
		}
		kpis.AvgPerDay = round2(float64(len(records)) / float64(days))
	}
	kpis.WithCoordsPct = round2(float64(withCoords) / float64(len(records)) * 100)
	return kpis
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
