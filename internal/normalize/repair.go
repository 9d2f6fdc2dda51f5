package normalize

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/noah-vh/masterlist/internal/models"
)

// maxTitleLen bounds titles backfilled from free text.
const maxTitleLen = 120

// fieldAliases maps each canonical field to the alternate names the
// model is known to emit. An alias only fills a gap; a value already
// present under the canonical name always wins.
var fieldAliases = map[string][]string{
	"title":         {"name", "task_title", "text"},
	"tags":          {"labels", "categories"},
	"action_date":   {"due", "due_date", "deadline", "when"},
	"time_estimate": {"estimate", "duration", "time_needed"},
	"participants":  {"people", "with", "attendees"},
	"context":       {"location", "place"},
	"occurred_date": {"occurred", "happened_on", "event_date"},
	"source":        {"origin", "via"},
	"is_routine":    {"routine", "recurring"},
	"status":        {"state"},
	"view_name":     {"view_title"},
	"date_scope":    {"timeframe"},
}

// sourceAliases maps loose source labels onto the four canonical
// source types. Unrecognized labels fall back to manual.
var sourceAliases = map[string]models.SourceType{
	"voice":      models.SourceVoice,
	"audio":      models.SourceVoice,
	"dictation":  models.SourceVoice,
	"email":      models.SourceEmail,
	"mail":       models.SourceEmail,
	"transcript": models.SourceTranscript,
	"meeting":    models.SourceTranscript,
	"call":       models.SourceTranscript,
	"manual":     models.SourceManual,
	"typed":      models.SourceManual,
	"keyboard":   models.SourceManual,
}

// statusAliases tolerates the spellings the model produces for the
// four workflow statuses.
var statusAliases = map[string]models.Status{
	"active":        models.StatusActive,
	"todo":          models.StatusActive,
	"open":          models.StatusActive,
	"waiting":       models.StatusWaitingOn,
	"waiting_on":    models.StatusWaitingOn,
	"waiting-on":    models.StatusWaitingOn,
	"blocked":       models.StatusWaitingOn,
	"someday":       models.StatusSomedayMaybe,
	"someday_maybe": models.StatusSomedayMaybe,
	"maybe":         models.StatusSomedayMaybe,
	"archived":      models.StatusArchived,
	"archive":       models.StatusArchived,
	"done":          models.StatusArchived,
}

// scopeAliases tolerates loose date scope spellings.
var scopeAliases = map[string]models.DateScope{
	"all":       models.ScopeAll,
	"any":       models.ScopeAll,
	"today":     models.ScopeToday,
	"this_week": models.ScopeThisWeek,
	"thisweek":  models.ScopeThisWeek,
	"week":      models.ScopeThisWeek,
	"overdue":   models.ScopeOverdue,
	"late":      models.ScopeOverdue,
}

// screenRule captures how a screen changes defaulting. Defaults are
// context-sensitive but only ever fill gaps, never override explicit
// values; keeping them in one table keeps the rule set auditable.
type screenRule struct {
	fillActionDateToday bool
	routineByDefault    bool
}

var screenRules = map[models.Screen]screenRule{
	models.ScreenToday:    {fillActionDateToday: true},
	models.ScreenRoutines: {routineByDefault: true},
}

// mergeAliases folds alternate field names into their canonical field.
// The canonical field wins when both are present.
func mergeAliases(item map[string]any) {
	for canonical, aliases := range fieldAliases {
		if _, ok := item[canonical]; ok {
			continue
		}
		for _, alias := range aliases {
			if v, ok := item[alias]; ok {
				item[canonical] = v
				break
			}
		}
	}
}

// normalizeItem repairs one task-shaped object into a CaptureTask.
// position and inBatch select the title placeholder for batch members.
func normalizeItem(item map[string]any, freeText string, screen models.Screen, now time.Time, position int, inBatch bool) models.CaptureTask {
	if item == nil {
		item = map[string]any{}
	}
	mergeAliases(item)
	rule := screenRules[screen]

	title := strings.TrimSpace(firstString(item, "title"))
	if title == "" {
		if inBatch {
			title = fmt.Sprintf("Task %d", position+1)
		} else {
			title = boundedTitle(freeText)
		}
		if title == "" {
			title = "Untitled task"
		}
		log.Printf("normalize: title missing, backfilled %q", title)
	}

	status := models.StatusActive
	if s, ok := rawString(item["status"]); ok {
		if parsed, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
			status = parsed
		} else {
			log.Printf("normalize: unrecognized status %q, defaulting to active", s)
		}
	}

	actionDate := parseDate(item["action_date"], now)
	if actionDate == nil && rule.fillActionDateToday {
		d := calendarDay(now)
		actionDate = &d
	}

	isRoutine := rule.routineByDefault
	if b, ok := rawBool(item["is_routine"]); ok {
		isRoutine = b
	}

	return models.CaptureTask{
		Title:        title,
		Tags:         coerceTags(item["tags"]),
		Status:       status,
		ActionDate:   actionDate,
		TimeEstimate: strings.TrimSpace(firstString(item, "time_estimate")),
		Context:      strings.TrimSpace(firstString(item, "context")),
		Participants: coerceStrings(item["participants"]),
		OccurredDate: parseDate(item["occurred_date"], now),
		Source:       coerceSource(item["source"]),
		IsRoutine:    isRoutine,
	}
}

// coerceSource repairs the source field. It accepts an object with a
// type, a loose string label, or nothing; everything unrecognized is
// manual.
func coerceSource(v any) models.Source {
	switch s := v.(type) {
	case map[string]any:
		src := models.Source{Type: models.SourceManual}
		if label, ok := rawString(s["type"]); ok {
			if mapped, ok := sourceAliases[strings.ToLower(strings.TrimSpace(label))]; ok {
				src.Type = mapped
			}
		}
		if id, ok := rawString(s["id"]); ok {
			src.ID = strings.TrimSpace(id)
		}
		return src
	case string:
		if mapped, ok := sourceAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
			return models.Source{Type: mapped}
		}
		log.Printf("normalize: unrecognized source label %q, defaulting to manual", s)
	}
	return models.Source{Type: models.SourceManual}
}

// coerceTags coerces to a deduplicated string set. Non-array input
// yields an empty set; tags are never implicitly defaulted.
func coerceTags(v any) []string {
	tags := coerceStrings(v)
	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// coerceStrings extracts the string elements of an array value.
// Absent or non-array input yields an empty slice.
func coerceStrings(v any) []string {
	list, ok := rawSlice(v)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, el := range list {
		if s, ok := rawString(el); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// coerceStatuses parses a status selection for a view's filters,
// dropping anything unrecognized.
func coerceStatuses(v any) []models.Status {
	out := []models.Status{}
	for _, s := range coerceStrings(v) {
		if parsed, ok := statusAliases[strings.ToLower(s)]; ok {
			out = append(out, parsed)
		} else {
			log.Printf("normalize: dropping unrecognized filter status %q", s)
		}
	}
	return out
}

// coerceScope parses a date scope, defaulting to all.
func coerceScope(s string) models.DateScope {
	if scope, ok := scopeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return scope
	}
	return models.ScopeAll
}

// dateLayouts are the accepted absolute date formats, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate parses a date value from the raw object. Relative words
// resolve against now; anything unparseable is treated as absent.
func parseDate(v any, now time.Time) *time.Time {
	s, ok := rawString(v)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	switch strings.ToLower(s) {
	case "today":
		d := calendarDay(now)
		return &d
	case "tomorrow":
		d := calendarDay(now).AddDate(0, 0, 1)
		return &d
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	log.Printf("normalize: unparseable date %q, leaving unset", s)
	return nil
}

// calendarDay truncates a timestamp to its calendar date.
func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// boundedTitle derives a title from free text, truncated to a bounded
// length on a rune boundary.
func boundedTitle(freeText string) string {
	title := strings.TrimSpace(freeText)
	runes := []rune(title)
	if len(runes) <= maxTitleLen {
		return title
	}
	return strings.TrimSpace(string(runes[:maxTitleLen]))
}

// firstString returns the first non-empty string among the given keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rawString(m[k]); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

func rawString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func rawSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func rawMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// rawBool tolerates booleans and their common string spellings.
func rawBool(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}
