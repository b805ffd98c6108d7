package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func recordAt(ts time.Time, category string) CallRecord {
	return CallRecord{
		ID:        "r-" + ts.Format("20060102150405"),
		Category:  category,
		CallTime:  ts,
		ValidTime: true,
		Date:      DateOf(ts),
		Hour:      ts.Hour(),
	}
}

func TestNewFestivalInterval(t *testing.T) {
	t.Run("normal interval", func(t *testing.T) {
		f := NewFestivalInterval("Diwali", day(2024, 10, 31), day(2024, 11, 2))
		assert.Equal(t, day(2024, 10, 31), f.Start)
		assert.Equal(t, day(2024, 11, 2), f.End)
	})

	t.Run("inverted interval clamps end to start", func(t *testing.T) {
		f := NewFestivalInterval("Oddity", day(2024, 11, 2), day(2024, 10, 31))
		assert.Equal(t, day(2024, 11, 2), f.Start)
		assert.Equal(t, day(2024, 11, 2), f.End)
	})
}

func TestFestivalIntervalContains(t *testing.T) {
	f := NewFestivalInterval("Carnival", day(2024, 2, 10), day(2024, 2, 13))

	assert.True(t, f.Contains(day(2024, 2, 10)), "start boundary is inclusive")
	assert.True(t, f.Contains(day(2024, 2, 13)), "end boundary is inclusive")
	assert.True(t, f.Contains(time.Date(2024, 2, 11, 18, 30, 0, 0, time.UTC)))
	assert.True(t, f.Contains(time.Date(2024, 2, 13, 21, 0, 1, 0, time.UTC)),
		"daytime calls on the last day are inside")
	assert.False(t, f.Contains(day(2024, 2, 9)))
	assert.False(t, f.Contains(time.Date(2024, 2, 14, 0, 0, 1, 0, time.UTC)))
}

func TestOverlapWindow(t *testing.T) {
	catalog := []FestivalInterval{
		NewFestivalInterval("January Fair", day(2024, 1, 5), day(2024, 1, 8)),
		NewFestivalInterval("Carnival", day(2024, 2, 10), day(2024, 2, 13)),
		NewFestivalInterval("Shigmo", day(2024, 3, 24), day(2024, 3, 26)),
	}

	t.Run("restricts to the window, keeping order", func(t *testing.T) {
		active := OverlapWindow(catalog, day(2024, 2, 12), day(2024, 3, 25))
		require.Len(t, active, 2)
		assert.Equal(t, "Carnival", active[0].Name)
		assert.Equal(t, "Shigmo", active[1].Name)
	})

	t.Run("partial overlap counts", func(t *testing.T) {
		active := OverlapWindow(catalog, day(2024, 1, 8), day(2024, 1, 20))
		require.Len(t, active, 1)
		assert.Equal(t, "January Fair", active[0].Name)
	})

	t.Run("no overlap", func(t *testing.T) {
		assert.Empty(t, OverlapWindow(catalog, day(2024, 6, 1), day(2024, 6, 30)))
	})
}

func TestTagFestivals(t *testing.T) {
	carnival := NewFestivalInterval("Carnival", day(2024, 2, 10), day(2024, 2, 13))
	shigmo := NewFestivalInterval("Shigmo", day(2024, 2, 12), day(2024, 2, 15))

	t.Run("containment assigns the festival", func(t *testing.T) {
		records := []CallRecord{
			recordAt(time.Date(2024, 2, 11, 20, 0, 0, 0, time.UTC), "crime"),
			recordAt(time.Date(2024, 2, 20, 9, 0, 0, 0, time.UTC), "medical"),
		}
		tagged := TagFestivals(records, []FestivalInterval{carnival})

		assert.Equal(t, "Carnival", tagged[0].FestivalName)
		assert.Equal(t, NonFestival, tagged[1].FestivalName)
	})

	t.Run("first matching interval in catalog order wins", func(t *testing.T) {
		overlap := recordAt(time.Date(2024, 2, 12, 12, 0, 0, 0, time.UTC), "crime")

		tagged := TagFestivals([]CallRecord{overlap}, []FestivalInterval{carnival, shigmo})
		assert.Equal(t, "Carnival", tagged[0].FestivalName)

		tagged = TagFestivals([]CallRecord{overlap}, []FestivalInterval{shigmo, carnival})
		assert.Equal(t, "Shigmo", tagged[0].FestivalName)
	})

	t.Run("invalid timestamps are always Non-Festival", func(t *testing.T) {
		rec := CallRecord{ID: "bad", ValidTime: false}
		tagged := TagFestivals([]CallRecord{rec}, []FestivalInterval{carnival})
		assert.Equal(t, NonFestival, tagged[0].FestivalName)
	})

	t.Run("empty catalog tags every record Non-Festival", func(t *testing.T) {
		records := make([]CallRecord, 0, 50)
		base := time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
		for i := 0; i < 50; i++ {
			records = append(records, recordAt(base.AddDate(0, 0, i%28), "crime"))
		}

		tagged := TagFestivals(records, nil)
		for _, rec := range tagged {
			assert.Equal(t, NonFestival, rec.FestivalName)
		}
	})

	t.Run("input slice is not mutated", func(t *testing.T) {
		records := []CallRecord{recordAt(time.Date(2024, 2, 11, 20, 0, 0, 0, time.UTC), "crime")}
		_ = TagFestivals(records, []FestivalInterval{carnival})
		assert.Empty(t, records[0].FestivalName)
	})
}
