package logbook

import (
	"strings"
	"time"
)

// DepartmentUnspecified marks entries without a department value.
const DepartmentUnspecified = "unspecified"

type Entry struct {
	RowNumber     int
	Collaborator  string
	Date          time.Time
	MonthLabel    string
	Department    string
	DepartmentAlt string
	MacroActivity string
	MicroActivity string
	Client        string
	Minutes       float64
	Note          string
}

func (e Entry) Hours() float64 {
	return e.Minutes / 60
}

// DepartmentField names which entry field carries the department of a table.
type DepartmentField int

const (
	FieldNone DepartmentField = iota
	FieldDepartment
	FieldDepartmentAlt
)

func (f DepartmentField) String() string {
	switch f {
	case FieldDepartment:
		return "Reparto"
	case FieldDepartmentAlt:
		return "Reparto1"
	default:
		return "none"
	}
}

type Table struct {
	Entries         []Entry
	DepartmentField DepartmentField
}

// Department returns the value of the given department field.
func (f DepartmentField) Department(e Entry) string {
	var value string
	switch f {
	case FieldDepartment:
		value = e.Department
	case FieldDepartmentAlt:
		value = e.DepartmentAlt
	default:
		return DepartmentUnspecified
	}
	if strings.TrimSpace(value) == "" {
		return DepartmentUnspecified
	}
	return value
}

// DepartmentOf reads the department through the field bound at load time.
// Tables built by hand without a binding are probed once per call.
func (t Table) DepartmentOf(e Entry) string {
	return t.ResolveDepartmentField().Department(e)
}

// ResolveDepartmentField returns the bound field or, when unbound, the
// first field that carries any value: primary before alternate.
func (t Table) ResolveDepartmentField() DepartmentField {
	if t.DepartmentField != FieldNone {
		return t.DepartmentField
	}
	return DetectDepartmentField(t.Entries)
}

func DetectDepartmentField(entries []Entry) DepartmentField {
	hasAlt := false
	for _, entry := range entries {
		if strings.TrimSpace(entry.Department) != "" {
			return FieldDepartment
		}
		if strings.TrimSpace(entry.DepartmentAlt) != "" {
			hasAlt = true
		}
	}
	if hasAlt {
		return FieldDepartmentAlt
	}
	return FieldNone
}

// Len reports the number of entries.
func (t Table) Len() int {
	return len(t.Entries)
}

// Bounds returns the earliest and latest entry dates.
func (t Table) Bounds() (time.Time, time.Time, bool) {
	var minDate, maxDate time.Time
	for _, entry := range t.Entries {
		if entry.Date.IsZero() {
			continue
		}
		if minDate.IsZero() || entry.Date.Before(minDate) {
			minDate = entry.Date
		}
		if maxDate.IsZero() || entry.Date.After(maxDate) {
			maxDate = entry.Date
		}
	}
	return minDate, maxDate, !minDate.IsZero()
}
