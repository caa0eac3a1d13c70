package importer

import (
	"testing"
	"time"
)

func TestParseMinutes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "empty", input: "", want: 0},
		{name: "integer minutes", input: "120", want: 120},
		{name: "decimal dot", input: "7.5", want: 7.5},
		{name: "decimal comma", input: "7,5", want: 7.5},
		{name: "thousands and comma", input: "1.200,5", want: 1200.5},
		{name: "negative", input: "-1", want: 0},
		{name: "invalid", input: "abc", want: 0},
		{name: "not a number", input: "NaN", want: 0},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := parseMinutes(tc.input); got != tc.want {
				t.Fatalf("unexpected minutes for %q: want %v, got %v", tc.input, tc.want, got)
			}
		})
	}
}

func TestParseDateFormatsAgree(t *testing.T) {
	t.Parallel()

	want := time.Date(2024, 3, 25, 0, 0, 0, 0, time.Local)
	inputs := []string{
		"25/03/2024",
		"2024-03-25",
		"25-03-2024",
		"03/25/2024",
		"2024/03/25",
		"2024-03-25 00:00:00",
		"2024-03-25T00:00:00Z",
	}

	for _, input := range inputs {
		got, err := parseDate(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if !got.Equal(want) {
			t.Fatalf("parseDate(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestParseDateDayFirstWins(t *testing.T) {
	t.Parallel()

	got, err := parseDate("05/03/2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("expected 5 March, got %v", got)
	}

	got, err = parseDate("5/3/2024")
	if err != nil {
		t.Fatalf("unexpected error for single digit date: %v", err)
	}
	if got.Month() != time.March || got.Day() != 5 {
		t.Fatalf("expected 5 March, got %v", got)
	}
}

func TestParseDateRejects(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "yesterday", "32/13/2024", "2024-02-30"} {
		if _, err := parseDate(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}
