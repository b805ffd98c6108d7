package domain

import "time"

// NonFestival is the sentinel tag for records outside every festival interval.
const NonFestival = "Non-Festival"

// FestivalInterval is a named closed date interval [Start, End], End inclusive.
type FestivalInterval struct {
	Name  string    `json:"name"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewFestivalInterval builds an interval, clamping End to Start when the
// source feed reports an inverted range.
func NewFestivalInterval(name string, start, end time.Time) FestivalInterval {
	if end.Before(start) {
		end = start
	}
	return FestivalInterval{Name: name, Start: start, End: end}
}

// Contains reports whether t falls inside the interval, boundaries
// included. Containment is date-granular: a timestamp anywhere on the
// interval's last day is inside, even when the interval bound is midnight.
// This keeps tagging consistent with the scorer, which walks whole days.
func (f FestivalInterval) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(f.Start)) && !d.After(DateOf(f.End))
}

// OverlapWindow restricts a catalog to the intervals overlapping
// [from, to], preserving catalog order. The tagging tie-break depends on
// that order, so this never reorders or merges. Overlap is date-granular,
// like Contains.
func OverlapWindow(catalog []FestivalInterval, from, to time.Time) []FestivalInterval {
	fromDate, toDate := DateOf(from), DateOf(to)
	var active []FestivalInterval
	for _, f := range catalog {
		if !fromDate.After(DateOf(f.End)) && !toDate.Before(DateOf(f.Start)) {
			active = append(active, f)
		}
	}
	return active
}

// TagFestivals assigns each record's FestivalName by interval containment
// of its call timestamp: the first containing interval in catalog order
// wins. Records with invalid timestamps are tagged NonFestival
// unconditionally. Returns a tagged copy; the input slice is not mutated.
//
// O(records × intervals); fine because callers restrict the catalog to one
// analysis window first, which is typically well under 50 intervals.
func TagFestivals(records []CallRecord, intervals []FestivalInterval) []CallRecord {
	tagged := make([]CallRecord, len(records))
	for i, rec := range records {
		rec.FestivalName = NonFestival
		if rec.ValidTime {
			for _, f := range intervals {
				if f.Contains(rec.CallTime) {
					rec.FestivalName = f.Name
					break
				}
			}
		}
		tagged[i] = rec
	}
	return tagged
}
