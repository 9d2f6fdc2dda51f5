// Package models defines the core domain types for MasterList.
package models

import "time"

// Status represents the workflow state of a task.
type Status string

const (
	StatusActive       Status = "active"
	StatusWaitingOn    Status = "waiting_on"
	StatusSomedayMaybe Status = "someday_maybe"
	StatusArchived     Status = "archived"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusWaitingOn, StatusSomedayMaybe, StatusArchived:
		return true
	}
	return false
}

// SourceType identifies where a captured item came from.
type SourceType string

const (
	SourceVoice      SourceType = "voice"
	SourceEmail      SourceType = "email"
	SourceTranscript SourceType = "transcript"
	SourceManual     SourceType = "manual"
)

// Source is the provenance tag carried by every normalized command.
type Source struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id,omitempty"`
}

// Screen names the view the user was on when input was captured. It is
// passed explicitly into normalization; defaulting rules depend on it.
type Screen string

const (
	ScreenList     Screen = "list"
	ScreenToday    Screen = "today"
	ScreenRoutines Screen = "routines"
	ScreenLibrary  Screen = "library"
	ScreenJournal  Screen = "journal"
)

// DateScope is a coarse temporal bucket applied to a task's effective date.
type DateScope string

const (
	ScopeAll      DateScope = "all"
	ScopeToday    DateScope = "today"
	ScopeThisWeek DateScope = "this_week"
	ScopeOverdue  DateScope = "overdue"
)

// Task is a single tracked item.
type Task struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	IsCompleted  bool       `json:"is_completed"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ActionDate   *time.Time `json:"action_date,omitempty"`
	Tags         []string   `json:"tags"`
	TimeEstimate string     `json:"time_estimate,omitempty"`
	Context      string     `json:"context,omitempty"`
	Participants []string   `json:"participants,omitempty"`
	OccurredDate *time.Time `json:"occurred_date,omitempty"`
	Source       *Source    `json:"source,omitempty"`
	IsRoutine    bool       `json:"is_routine,omitempty"`
	LinkedTasks  []string   `json:"linked_tasks,omitempty"`
	ParentTaskID string     `json:"parent_task_id,omitempty"`
}

// HasTag reports whether the task carries the given tag.
func (t *Task) HasTag(tag string) bool {
	for _, tt := range t.Tags {
		if tt == tag {
			return true
		}
	}
	return false
}

// DateRange bounds a task's effective date. A nil end leaves that side open.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// FilterState is the active facet selection for a screen. Empty slices
// mean "no selection" and pass every task; it is never an error state.
type FilterState struct {
	Tags            []string   `json:"tags"`
	Status          []Status   `json:"status"`
	DateScope       DateScope  `json:"date_scope"`
	ActionDateRange *DateRange `json:"action_date_range,omitempty"`
}

// Command is a validated instruction the rest of the system can act on
// without further interpretation. Exactly one of the three concrete
// types below is produced per normalization.
type Command interface {
	isCommand()
}

// CaptureTask creates a single task.
type CaptureTask struct {
	Title        string     `json:"title"`
	Tags         []string   `json:"tags"`
	Status       Status     `json:"status"`
	ActionDate   *time.Time `json:"action_date,omitempty"`
	TimeEstimate string     `json:"time_estimate,omitempty"`
	Context      string     `json:"context,omitempty"`
	Participants []string   `json:"participants,omitempty"`
	OccurredDate *time.Time `json:"occurred_date,omitempty"`
	Source       Source     `json:"source"`
	IsRoutine    bool       `json:"is_routine,omitempty"`
}

// CaptureTaskBatch creates several tasks at once. It is only produced
// when at least two semantically distinct items survived normalization.
type CaptureTaskBatch struct {
	Items []CaptureTask `json:"items"`
}

// ApplyView activates a named, reusable filter selection.
type ApplyView struct {
	ViewName    string      `json:"view_name"`
	Description string      `json:"description,omitempty"`
	Filters     FilterState `json:"filters"`
}

func (CaptureTask) isCommand()      {}
func (CaptureTaskBatch) isCommand() {}
func (ApplyView) isCommand()        {}

// CommandKind returns a stable string name for a command's variant,
// used in API responses and audit entries.
func CommandKind(c Command) string {
	switch c.(type) {
	case CaptureTask:
		return "capture_task"
	case CaptureTaskBatch:
		return "capture_task_batch"
	case ApplyView:
		return "apply_view"
	default:
		return "unknown"
	}
}
