// Command genmock generates a synthetic emergency call log CSV, plus an
// optional iCalendar file of made-up festivals, for demos and test fixtures.
// It runs the generated rows through the actual domain normalization so the
// output is guaranteed to load cleanly, and prints aggregate stats useful for
// updating test assertions.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/calls.csv \
//	  -ics-out data/mock/festivals.ics \
//	  -days 90 -seed 42
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/couchcryptid/helpline-analytics/internal/domain"
)

var baseDate = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

var jurisdictions = []string{"Panaji", "Margao", "Mapusa", "Vasco", "Ponda"}

// festivalDef places a festival at a day offset from the base date, with a
// surge multiplier applied to call volume on its days.
type festivalDef struct {
	name   string
	offset int
	length int
	surge  float64
}

var festivalDefs = []festivalDef{
	{name: "Harvest Fair", offset: 20, length: 1, surge: 1.8},
	{name: "Carnival", offset: 45, length: 3, surge: 2.2},
	{name: "Feast of the Three Kings", offset: 74, length: 1, surge: 1.4},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the call log CSV")
	icsOut := flag.String("ics-out", "", "optional output path for the festival ICS file")
	days := flag.Int("days", 90, "number of days of call history")
	perDay := flag.Int("per-day", 40, "mean calls per day")
	seed := flag.Int64("seed", 42, "random seed for reproducible output")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(*seed))

	table := generate(rng, *days, *perDay)
	if err := writeCSV(*out, table); err != nil {
		return fmt.Errorf("writing call log: %w", err)
	}
	log.Printf("wrote %d rows: %s", len(table.Rows), *out)

	if *icsOut != "" {
		if err := writeICS(*icsOut, *days); err != nil {
			return fmt.Errorf("writing festival feed: %w", err)
		}
		log.Printf("wrote festival feed: %s", *icsOut)
	}

	// Run the real normalization to catch generator bugs early.
	records, err := domain.NormalizeTable(table)
	if err != nil {
		return fmt.Errorf("generated table failed normalization: %w", err)
	}

	printStats(records)
	return nil
}

func generate(rng *rand.Rand, days, perDay int) domain.RawTable {
	table := domain.RawTable{
		Columns: append(append([]string{}, domain.RequiredColumns...), domain.ColResponseTS),
	}

	n := 0
	for d := 0; d < days; d++ {
		date := baseDate.AddDate(0, 0, d)
		volume := dayVolume(rng, date, d, perDay)

		for i := 0; i < volume; i++ {
			n++
			callTime := date.Add(time.Duration(hourOfDay(rng)) * time.Hour).
				Add(time.Duration(rng.Intn(3600)) * time.Second)
			responseTime := callTime.Add(time.Duration(3+rng.Intn(25)) * time.Minute)

			// Latitude/longitude jittered around central Goa.
			lat := 15.35 + rng.Float64()*0.35
			lon := 73.80 + rng.Float64()*0.30

			table.Rows = append(table.Rows, domain.RawRecord{
				CallID:       fmt.Sprintf("GC-%06d", n),
				CallTS:       callTime.Format("2006-01-02 15:04:05"),
				Lat:          fmt.Sprintf("%.5f", lat),
				Lon:          fmt.Sprintf("%.5f", lon),
				Category:     pickCategory(rng),
				Jurisdiction: jurisdictions[rng.Intn(len(jurisdictions))],
				ResponseTS:   responseTime.Format("2006-01-02 15:04:05"),
			})
		}
	}
	return table
}

// dayVolume draws the number of calls for a day: a base level, a weekend
// bump, and a surge multiplier on festival days.
func dayVolume(rng *rand.Rand, date time.Time, dayOffset, perDay int) int {
	volume := float64(perDay) * (0.8 + rng.Float64()*0.4)
	if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
		volume *= 1.2
	}
	for _, f := range festivalDefs {
		if dayOffset >= f.offset && dayOffset < f.offset+f.length {
			volume *= f.surge
		}
	}
	return int(volume)
}

// hourOfDay skews call times toward the evening, where real volume peaks.
func hourOfDay(rng *rand.Rand) int {
	if rng.Float64() < 0.4 {
		return 17 + rng.Intn(6) // 17:00 to 22:59
	}
	return rng.Intn(24)
}

// pickCategory draws a category with crime the most common, matching the
// rough shape of the real distribution.
func pickCategory(rng *rand.Rand) string {
	r := rng.Float64()
	switch {
	case r < 0.35:
		return "crime"
	case r < 0.60:
		return "medical"
	case r < 0.75:
		return "accident"
	case r < 0.87:
		return "fire"
	default:
		return "other"
	}
}

func writeCSV(path string, table domain.RawTable) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := []string{
			row.CallID, row.CallTS, row.Lat, row.Lon,
			row.Category, row.Jurisdiction, row.ResponseTS,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeICS emits the festival definitions as all-day VEVENTs. DTEND is
// exclusive per RFC 5545, hence the extra day.
func writeICS(path string, days int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//helpline-analytics//genmock//EN\r\n")
	for _, f := range festivalDefs {
		if f.offset >= days {
			continue
		}
		start := baseDate.AddDate(0, 0, f.offset)
		end := start.AddDate(0, 0, f.length)
		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "SUMMARY:%s\r\n", f.name)
		fmt.Fprintf(&b, "DTSTART;VALUE=DATE:%s\r\n", start.Format("20060102"))
		fmt.Fprintf(&b, "DTEND;VALUE=DATE:%s\r\n", end.Format("20060102"))
		b.WriteString("END:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")

	return os.WriteFile(path, []byte(b.String()), 0o600)
}

type categoryCount struct {
	name  string
	count int
}

func printStats(records []domain.CallRecord) {
	byCategory := map[string]int{}
	byJurisdiction := map[string]int{}
	byDate := map[string]int{}
	weekend := 0
	for i := range records {
		r := &records[i]
		byCategory[r.Category]++
		byJurisdiction[r.Jurisdiction]++
		byDate[r.Date.Format("2006-01-02")]++
		if r.IsWeekend {
			weekend++
		}
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total: %d\n", len(records))
	fmt.Printf("Weekend share: %.1f%%\n", 100*float64(weekend)/float64(len(records)))

	printCounts("By category", byCategory)
	printCounts("By jurisdiction", byJurisdiction)

	for _, f := range festivalDefs {
		total := 0
		for d := 0; d < f.length; d++ {
			day := baseDate.AddDate(0, 0, f.offset+d)
			total += byDate[day.Format("2006-01-02")]
		}
		fmt.Printf("%s (%d day(s)): %d calls\n", f.name, f.length, total)
	}
}

func printCounts(label string, counts map[string]int) {
	cc := make([]categoryCount, 0, len(counts))
	for name, count := range counts {
		cc = append(cc, categoryCount{name, count})
	}
	sort.Slice(cc, func(i, j int) bool { return cc[i].count > cc[j].count })
	fmt.Printf("%s: ", label)
	for _, c := range cc {
		fmt.Printf("%s=%d ", c.name, c.count)
	}
	fmt.Println()
}
