package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; day-first comes first.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	// Timestamps exported as "2024-03-05 00:00:00" or RFC3339 keep only the date.
	if head, _, ok := strings.Cut(value, " "); ok {
		value = head
	}
	if head, _, ok := strings.Cut(value, "T"); ok && len(head) == len("2006-01-02") {
		value = head
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	// Single-digit day or month, e.g. "5/3/2024".
	if parsed, err := time.ParseInLocation("2/1/2006", value, time.Local); err == nil {
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// parseMinutes never fails: blank, garbled or negative input reads as 0.
func parseMinutes(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0
	}
	if strings.Contains(cleaned, ",") {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	minutes, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || minutes < 0 || math.IsNaN(minutes) || math.IsInf(minutes, 0) {
		return 0
	}
	return minutes
}
