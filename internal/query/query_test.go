package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-vh/masterlist/internal/models"
)

var now = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

func day(offset int) *time.Time {
	d := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	return &d
}

func task(id string, mut func(*models.Task)) models.Task {
	t := models.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    models.StatusActive,
		CreatedAt: now.Add(-24 * time.Hour),
		Tags:      []string{},
	}
	if mut != nil {
		mut(&t)
	}
	return t
}

func ids(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestTagFacetIsConjunctive(t *testing.T) {
	tasks := []models.Task{
		task("a", func(t *models.Task) { t.Tags = []string{"work"} }),
		task("b", func(t *models.Task) { t.Tags = []string{"work", "deep-focus"} }),
	}
	state := models.FilterState{Tags: []string{"work", "deep-focus"}, DateScope: models.ScopeAll}

	got := Filter(tasks, state, now)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID, "only the task carrying all selected tags passes")
}

func TestEmptySelectionsPassEverything(t *testing.T) {
	tasks := []models.Task{
		task("a", nil),
		task("b", func(t *models.Task) { t.Status = models.StatusArchived; t.Tags = []string{"x"} }),
	}
	got := Filter(tasks, models.FilterState{DateScope: models.ScopeAll}, now)
	assert.Len(t, got, 2, "empty facet selections are valid inputs, not error states")
}

func TestStatusFacet(t *testing.T) {
	tasks := []models.Task{
		task("a", func(t *models.Task) { t.Status = models.StatusActive }),
		task("b", func(t *models.Task) { t.Status = models.StatusWaitingOn }),
		task("c", func(t *models.Task) { t.Status = models.StatusArchived }),
	}
	state := models.FilterState{
		Status:    []models.Status{models.StatusActive, models.StatusWaitingOn},
		DateScope: models.ScopeAll,
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids(Filter(tasks, state, now)))
}

func TestDateScopes(t *testing.T) {
	tests := []struct {
		name  string
		scope models.DateScope
		mut   func(*models.Task)
		want  bool
	}{
		{"today passes same calendar day", models.ScopeToday, func(t *models.Task) { t.ActionDate = day(0) }, true},
		{"today rejects tomorrow", models.ScopeToday, func(t *models.Task) { t.ActionDate = day(1) }, false},
		{"today falls back to created_at", models.ScopeToday, func(t *models.Task) { t.CreatedAt = now.Add(-time.Hour) }, true},
		{"this_week includes today", models.ScopeThisWeek, func(t *models.Task) { t.ActionDate = day(0) }, true},
		{"this_week includes day seven", models.ScopeThisWeek, func(t *models.Task) { t.ActionDate = day(7) }, true},
		{"this_week rejects day eight", models.ScopeThisWeek, func(t *models.Task) { t.ActionDate = day(8) }, false},
		{"this_week rejects yesterday", models.ScopeThisWeek, func(t *models.Task) { t.ActionDate = day(-1) }, false},
		{"overdue passes past incomplete", models.ScopeOverdue, func(t *models.Task) { t.ActionDate = day(-1) }, true},
		{"overdue rejects today", models.ScopeOverdue, func(t *models.Task) { t.ActionDate = day(0) }, false},
		{"all always passes", models.ScopeAll, func(t *models.Task) { t.ActionDate = day(-100) }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := []models.Task{task("x", tt.mut)}
			got := Filter(tasks, models.FilterState{DateScope: tt.scope}, now)
			if tt.want {
				assert.Len(t, got, 1)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestCompletedTaskIsNeverOverdue(t *testing.T) {
	tasks := []models.Task{
		task("done", func(t *models.Task) { t.ActionDate = day(-1); t.IsCompleted = true }),
		task("open", func(t *models.Task) { t.ActionDate = day(-1) }),
	}
	got := Filter(tasks, models.FilterState{DateScope: models.ScopeOverdue}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "open", got[0].ID)
}

func TestSortIncompleteBeforeCompleted(t *testing.T) {
	tasks := []models.Task{
		task("done", func(t *models.Task) { t.IsCompleted = true; t.ActionDate = day(5) }),
		task("open", func(t *models.Task) { t.ActionDate = day(-5) }),
	}
	got := Filter(tasks, models.FilterState{DateScope: models.ScopeAll}, now)
	assert.Equal(t, []string{"open", "done"}, ids(got), "completed tasks never precede incomplete ones")
}

func TestSortByEffectiveTimestampDescending(t *testing.T) {
	t1 := now.Add(-48 * time.Hour)
	t2 := now.Add(-2 * time.Hour)
	tasks := []models.Task{
		task("older", func(t *models.Task) { t.CreatedAt = t1 }),
		task("newer", func(t *models.Task) { t.CreatedAt = t2 }),
		task("dated", func(t *models.Task) { t.CreatedAt = t1; t.ActionDate = day(3) }),
	}
	got := Filter(tasks, models.FilterState{DateScope: models.ScopeAll}, now)
	// The action date substitutes for created_at as a single ordering key.
	assert.Equal(t, []string{"dated", "newer", "older"}, ids(got))
}

func TestSortIsDeterministic(t *testing.T) {
	same := now.Add(-3 * time.Hour)
	tasks := []models.Task{
		task("a", func(t *models.Task) { t.CreatedAt = same }),
		task("b", func(t *models.Task) { t.CreatedAt = same }),
		task("c", func(t *models.Task) { t.CreatedAt = same }),
	}
	state := models.FilterState{DateScope: models.ScopeAll}

	first := Filter(tasks, state, now)
	second := Filter(tasks, state, now)
	assert.Equal(t, ids(first), ids(second), "equal inputs must yield identical order")
	assert.Equal(t, []string{"a", "b", "c"}, ids(first), "stable sort preserves input order on ties")
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{
		task("z", func(t *models.Task) { t.CreatedAt = now.Add(-time.Minute) }),
		task("a", func(t *models.Task) { t.CreatedAt = now.Add(-time.Hour) }),
	}
	Filter(tasks, models.FilterState{DateScope: models.ScopeAll}, now)
	assert.Equal(t, []string{"z", "a"}, ids(tasks), "input snapshot must not be reordered")
}

func TestTodayListStatusLadder(t *testing.T) {
	same := now.Add(-time.Hour)
	tasks := []models.Task{
		task("someday", func(t *models.Task) { t.Status = models.StatusSomedayMaybe; t.CreatedAt = same }),
		task("waiting", func(t *models.Task) { t.Status = models.StatusWaitingOn; t.CreatedAt = same }),
		task("active", func(t *models.Task) { t.Status = models.StatusActive; t.CreatedAt = same }),
		task("archived", func(t *models.Task) { t.Status = models.StatusArchived; t.CreatedAt = same }),
	}
	got := TodayList(tasks, models.FilterState{DateScope: models.ScopeAll}, now, "")
	assert.Equal(t, []string{"active", "waiting", "someday", "archived"}, ids(got))
}

func TestTodayListLadderRanksBelowCompletion(t *testing.T) {
	same := now.Add(-time.Hour)
	tasks := []models.Task{
		task("done-active", func(t *models.Task) { t.IsCompleted = true; t.CreatedAt = same }),
		task("open-archived", func(t *models.Task) { t.Status = models.StatusArchived; t.CreatedAt = same }),
	}
	got := TodayList(tasks, models.FilterState{DateScope: models.ScopeAll}, now, "")
	assert.Equal(t, []string{"open-archived", "done-active"}, ids(got))
}

func TestTodayListTitleSearch(t *testing.T) {
	tasks := []models.Task{
		task("a", func(t *models.Task) { t.Title = "Email the landlord" }),
		task("b", func(t *models.Task) { t.Title = "Water plants" }),
	}
	got := TodayList(tasks, models.FilterState{DateScope: models.ScopeAll}, now, "LANDLORD")
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID, "title search is case-insensitive substring match")
}

func TestActionDateRange(t *testing.T) {
	from := day(1)
	to := day(3)
	tasks := []models.Task{
		task("in", func(t *models.Task) { t.ActionDate = day(2) }),
		task("before", func(t *models.Task) { t.ActionDate = day(0) }),
		task("after", func(t *models.Task) { t.ActionDate = day(4) }),
	}
	state := models.FilterState{
		DateScope:       models.ScopeAll,
		ActionDateRange: &models.DateRange{From: from, To: to},
	}
	got := Filter(tasks, state, now)
	require.Len(t, got, 1)
	assert.Equal(t, "in", got[0].ID)
}

func TestFacetsCombineWithAnd(t *testing.T) {
	tasks := []models.Task{
		task("hit", func(t *models.Task) {
			t.Tags = []string{"work"}
			t.Status = models.StatusActive
			t.ActionDate = day(0)
		}),
		task("wrong-tag", func(t *models.Task) { t.Status = models.StatusActive; t.ActionDate = day(0) }),
		task("wrong-day", func(t *models.Task) { t.Tags = []string{"work"}; t.Status = models.StatusActive; t.ActionDate = day(2) }),
	}
	state := models.FilterState{
		Tags:      []string{"work"},
		Status:    []models.Status{models.StatusActive},
		DateScope: models.ScopeToday,
	}
	got := Filter(tasks, state, now)
	require.Len(t, got, 1)
	assert.Equal(t, "hit", got[0].ID)
}
