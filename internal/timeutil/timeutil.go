package timeutil

import (
	"strings"
	"time"
)

var monthLabels = [12]string{
	"Gennaio", "Febbraio", "Marzo", "Aprile", "Maggio", "Giugno",
	"Luglio", "Agosto", "Settembre", "Ottobre", "Novembre", "Dicembre",
}

var monthByName = func() map[string]time.Month {
	english := [12]string{
		"january", "february", "march", "april", "may", "june",
		"july", "august", "september", "october", "november", "december",
	}
	out := make(map[string]time.Month, 24)
	for i := range monthLabels {
		out[strings.ToLower(monthLabels[i])] = time.Month(i + 1)
		out[english[i]] = time.Month(i + 1)
	}
	return out
}()

func StartOfDay(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, value.Location())
}

// MonthLabel returns the Italian month name used as column key in the
// revenue and compensation sheets.
func MonthLabel(month time.Month) string {
	if month < time.January || month > time.December {
		return ""
	}
	return monthLabels[month-1]
}

// NormalizeMonthLabel maps Italian or English month names, in any case, to
// the canonical label.
func NormalizeMonthLabel(name string) (string, bool) {
	month, ok := ParseMonthName(name)
	if !ok {
		return "", false
	}
	return MonthLabel(month), true
}

func ParseMonthName(name string) (time.Month, bool) {
	month, ok := monthByName[strings.ToLower(strings.TrimSpace(name))]
	return month, ok
}
