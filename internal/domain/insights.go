package domain

import "fmt"

const noDataInsight = "No data available for selected period."

// InterpretDaySeries generates textual insights for a calls-per-day series.
// Ties resolve to the earliest row so output is stable across runs.
func InterpretDaySeries(series []DayCount) []string {
	if len(series) == 0 {
		return []string{noDataInsight}
	}

	peak, low := series[0], series[0]
	total := 0
	for _, row := range series {
		if row.Count > peak.Count {
			peak = row
		}
		if row.Count < low.Count {
			low = row
		}
		total += row.Count
	}

	insights := []string{
		fmt.Sprintf("Peak day: %s with %d calls.", peak.Date.Format("2006-01-02"), peak.Count),
		fmt.Sprintf("Lowest day: %s with only %d calls.", low.Date.Format("2006-01-02"), low.Count),
	}

	avg := float64(total) / float64(len(series))
	last := float64(series[len(series)-1].Count)
	switch {
	case last > avg*1.5:
		insights = append(insights, "Recent days show a surge in calls above the period average.")
	case last < avg*0.5:
		insights = append(insights, "Recent days show a significant drop in calls compared to average.")
	}
	return insights
}

// InterpretHourly generates textual insights for an hourly distribution.
func InterpretHourly(series []HourCount) []string {
	if len(series) == 0 {
		return []string{noDataInsight}
	}

	peak, low := series[0], series[0]
	for _, row := range series {
		if row.Count > peak.Count {
			peak = row
		}
		if row.Count < low.Count {
			low = row
		}
	}

	insights := []string{
		fmt.Sprintf("Peak hour: %d with %d calls.", peak.Hour, peak.Count),
		fmt.Sprintf("Quietest hour: %d with only %d calls.", low.Hour, low.Count),
	}

	if peak.Hour >= 18 && peak.Hour <= 23 {
		insights = append(insights, "Evening hours are consistently busy — likely crime and safety-related.")
	}
	if peak.Hour >= 6 && peak.Hour <= 8 {
		insights = append(insights, "Morning hours see high call activity — possibly accidents and medical emergencies.")
	}
	return insights
}
