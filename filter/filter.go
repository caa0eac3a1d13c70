package filter

import (
	"strings"

	"bizdash/logbook"
)

// Criteria is a compound predicate over time entries. Empty selectors
// impose no restriction.
type Criteria struct {
	Period          logbook.Period
	Collaborators   []string
	Departments     []string
	MacroActivities []string
	Clients         []string
}

// WithoutCollaborators drops the collaborator selector, keeping the rest.
func (c Criteria) WithoutCollaborators() Criteria {
	c.Collaborators = nil
	return c
}

// PeriodOnly keeps only the date window.
func (c Criteria) PeriodOnly() Criteria {
	return Criteria{Period: c.Period}
}

// ForCollaborators keeps the date window and restricts to names.
func (c Criteria) ForCollaborators(names ...string) Criteria {
	return Criteria{Period: c.Period, Collaborators: names}
}

// Apply returns the entries of table matching every active selector. The
// result is a fresh slice, never nil; table is not modified.
func Apply(table logbook.Table, c Criteria) []logbook.Entry {
	field := table.ResolveDepartmentField()
	collaborators := toSet(c.Collaborators)
	departments := toSet(c.Departments)
	macros := toSet(c.MacroActivities)
	clients := toSet(c.Clients)

	out := make([]logbook.Entry, 0, len(table.Entries))
	for _, entry := range table.Entries {
		if !c.Period.Contains(entry.Date) {
			continue
		}
		if !matches(collaborators, entry.Collaborator) {
			continue
		}
		if !matches(departments, field.Department(entry)) {
			continue
		}
		if !matches(macros, entry.MacroActivity) {
			continue
		}
		if !matches(clients, entry.Client) {
			continue
		}
		out = append(out, entry)
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[strings.TrimSpace(value)] = struct{}{}
	}
	return set
}

func matches(set map[string]struct{}, value string) bool {
	if set == nil {
		return true
	}
	_, ok := set[value]
	return ok
}
