package output

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bizdash/logbook"
)

// OtherClients labels the folded tail of TopClients.
const OtherClients = "Altri"

type HoursRow struct {
	Key   string
	Hours float64
}

type TimelinePoint struct {
	Date          time.Time
	MacroActivity string
	Hours         float64
}

func HoursByCollaborator(entries []logbook.Entry) map[string]float64 {
	return hoursBy(entries, func(entry logbook.Entry) string { return entry.Collaborator })
}

func HoursByClient(entries []logbook.Entry) map[string]float64 {
	return hoursBy(entries, func(entry logbook.Entry) string { return entry.Client })
}

// HoursByDepartment groups through the department field bound to table.
func HoursByDepartment(table logbook.Table, entries []logbook.Entry) map[string]float64 {
	field := table.ResolveDepartmentField()
	return hoursBy(entries, field.Department)
}

func hoursBy(entries []logbook.Entry, key func(logbook.Entry) string) map[string]float64 {
	minutes := make(map[string]float64)
	for _, entry := range entries {
		minutes[key(entry)] += entry.Minutes
	}
	hours := make(map[string]float64, len(minutes))
	for k, v := range minutes {
		hours[k] = v / 60
	}
	return hours
}

// RankedHours orders a grouping by hours descending, then by key.
func RankedHours(hours map[string]float64) []HoursRow {
	rows := make([]HoursRow, 0, len(hours))
	for key, value := range hours {
		rows = append(rows, HoursRow{Key: key, Hours: value})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Hours == rows[j].Hours {
			return rows[i].Key < rows[j].Key
		}
		return rows[i].Hours > rows[j].Hours
	})
	return rows
}

// TopClients ranks client hours. With more than limit clients the first
// limit-1 are kept and the rest are summed under OtherClients.
func TopClients(entries []logbook.Entry, limit int) []HoursRow {
	rows := RankedHours(HoursByClient(entries))
	if limit < 2 || len(rows) <= limit {
		return rows
	}

	other := HoursRow{Key: OtherClients}
	for _, row := range rows[limit-1:] {
		other.Hours += row.Hours
	}
	top := append([]HoursRow(nil), rows[:limit-1]...)
	return append(top, other)
}

// ActivityTimeline sums hours per day and macro activity, ordered by date.
func ActivityTimeline(entries []logbook.Entry) []TimelinePoint {
	type key struct {
		day   string
		macro string
	}

	points := make(map[key]*TimelinePoint)
	for _, entry := range entries {
		if entry.Date.IsZero() {
			continue
		}
		k := key{day: entry.Date.Format("2006-01-02"), macro: entry.MacroActivity}
		point, ok := points[k]
		if !ok {
			point = &TimelinePoint{Date: entry.Date, MacroActivity: entry.MacroActivity}
			points[k] = point
		}
		point.Hours += entry.Hours()
	}

	out := make([]TimelinePoint, 0, len(points))
	for _, point := range points {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].MacroActivity < out[j].MacroActivity
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func formatNumber(value float64) string {
	return strings.TrimSuffix(strings.TrimRight(strconv.FormatFloat(value, 'f', 2, 64), "0"), ".")
}
