// Package query implements the faceted filter and sort engine. Every
// screen that renders a task list goes through the same evaluation:
// the engine is a pure function of the task snapshot, the filter state
// and an explicitly supplied clock value.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/noah-vh/masterlist/internal/models"
)

// options selects the engine variant. The today list is the same
// algorithm with a status ladder and a title pre-filter switched on.
type options struct {
	statusLadder bool
	titleSearch  string
}

// Filter evaluates state against tasks and returns a filtered,
// deterministically ordered copy. The input slice is never mutated.
func Filter(tasks []models.Task, state models.FilterState, now time.Time) []models.Task {
	return run(tasks, state, now, options{})
}

// TodayList is the specialized evaluation used by the today screen: a
// case-insensitive title substring pre-filter plus a status-priority
// ladder between the completion key and the timestamp key.
func TodayList(tasks []models.Task, state models.FilterState, now time.Time, search string) []models.Task {
	return run(tasks, state, now, options{statusLadder: true, titleSearch: search})
}

func run(tasks []models.Task, state models.FilterState, now time.Time, opts options) []models.Task {
	search := strings.ToLower(strings.TrimSpace(opts.titleSearch))

	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if passes(&t, state, now) {
			out = append(out, t)
		}
	}

	sortTasks(out, opts.statusLadder)
	return out
}

// passes applies the facets. They combine with AND; an empty
// selection on any facet passes every task.
func passes(t *models.Task, state models.FilterState, now time.Time) bool {
	return passesStatus(t, state.Status) &&
		passesTags(t, state.Tags) &&
		passesScope(t, state.DateScope, now) &&
		passesRange(t, state.ActionDateRange)
}

func passesStatus(t *models.Task, selected []models.Status) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if t.Status == s {
			return true
		}
	}
	return false
}

// passesTags is conjunctive: the task must carry every selected tag,
// not just one. This is what lets a user narrow a large tag set to an
// intersection.
func passesTags(t *models.Task, selected []string) bool {
	for _, tag := range selected {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}

func passesScope(t *models.Task, scope models.DateScope, now time.Time) bool {
	target := effectiveDate(t)
	today := calendarDay(now)

	switch scope {
	case models.ScopeToday:
		return calendarDay(target).Equal(today)
	case models.ScopeThisWeek:
		end := today.AddDate(0, 0, 7)
		return !target.Before(today) && !target.After(end)
	case models.ScopeOverdue:
		// Completed tasks are never overdue, regardless of date.
		return calendarDay(target).Before(today) && !t.IsCompleted
	default:
		return true
	}
}

func passesRange(t *models.Task, r *models.DateRange) bool {
	if r == nil {
		return true
	}
	target := effectiveDate(t)
	if r.From != nil && target.Before(*r.From) {
		return false
	}
	if r.To != nil && target.After(*r.To) {
		return false
	}
	return true
}

// sortTasks orders the filtered slice with a stable, total comparator:
// incomplete before completed, then the status ladder when enabled,
// then the effective timestamp descending.
func sortTasks(tasks []models.Task, ladder bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := &tasks[i], &tasks[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		if ladder {
			ra, rb := statusRank(a.Status), statusRank(b.Status)
			if ra != rb {
				return ra < rb
			}
		}
		return effectiveDate(a).After(effectiveDate(b))
	})
}

// effectiveDate is the single ordering and scoping key for a task:
// the action date when present, otherwise the creation timestamp.
func effectiveDate(t *models.Task) time.Time {
	if t.ActionDate != nil {
		return *t.ActionDate
	}
	return t.CreatedAt
}

// statusRank is the fixed priority ladder used by the today list.
func statusRank(s models.Status) int {
	switch s {
	case models.StatusActive:
		return 0
	case models.StatusWaitingOn:
		return 1
	case models.StatusSomedayMaybe:
		return 2
	case models.StatusArchived:
		return 3
	default:
		return 4
	}
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
