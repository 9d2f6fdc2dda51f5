// Package normalize turns the raw, weakly-typed object produced by the
// language-model step into exactly one validated command. It never
// rejects malformed input: missing or aliased fields are repaired and
// the result degrades to the most conservative safe command. Repairs
// are logged, never surfaced.
package normalize

import (
	"log"
	"strings"
	"time"

	"github.com/noah-vh/masterlist/internal/models"
)

// Intent values recognized on the raw object. Anything else falls back
// to shape inference with a bias toward task capture.
const (
	intentCaptureTask  = "CAPTURE_TASK"
	intentCaptureTasks = "CAPTURE_TASKS"
	intentGenerateView = "GENERATE_VIEW"
)

// Normalize converts a raw object plus the original free text and the
// screen the user was on into a command. It is total: any input,
// including nil, yields a usable command.
func Normalize(raw map[string]any, freeText string, screen models.Screen, now time.Time) models.Command {
	if raw == nil {
		raw = map[string]any{}
	}

	if recoverIntent(raw) == intentGenerateView {
		return normalizeView(raw, freeText)
	}
	return normalizeCapture(raw, freeText, screen, now)
}

// recoverIntent reads the intent field, falling back to shape
// inference. Most input is task capture, not a view query, so capture
// is the default when nothing matches.
func recoverIntent(raw map[string]any) string {
	if s, ok := rawString(raw["intent"]); ok {
		switch strings.ToUpper(strings.TrimSpace(s)) {
		case intentCaptureTask, intentCaptureTasks, "CAPTURE", "CREATE_TASK":
			return intentCaptureTask
		case intentGenerateView, "APPLY_VIEW", "VIEW", "FILTER":
			return intentGenerateView
		}
		log.Printf("normalize: unrecognized intent %q, inferring from shape", s)
	}

	if hasAnyKey(raw, "task", "tasks", "items", "title") {
		return intentCaptureTask
	}
	if hasAnyKey(raw, "view", "view_name", "filters") {
		return intentGenerateView
	}
	return intentCaptureTask
}

// normalizeCapture resolves the candidate item list and produces either
// a single CaptureTask or a CaptureTaskBatch.
func normalizeCapture(raw map[string]any, freeText string, screen models.Screen, now time.Time) models.Command {
	if items, ok := candidateItems(raw); ok {
		items = dropBlankTitles(items)
		items = dedupeByTitle(items)

		switch len(items) {
		case 0:
			// Batch discarded entirely; degrade to a single capture
			// built from the free text alone.
			log.Printf("normalize: candidate list empty after repair, falling back to free text")
		case 1:
			// A batch of one is not a batch.
			return normalizeItem(items[0], freeText, screen, now, 0, false)
		default:
			batch := models.CaptureTaskBatch{Items: make([]models.CaptureTask, 0, len(items))}
			for i, it := range items {
				batch.Items = append(batch.Items, normalizeItem(it, freeText, screen, now, i, true))
			}
			return batch
		}
	}

	item, _ := singularItem(raw)
	return normalizeItem(item, freeText, screen, now, 0, false)
}

// candidateItems extracts the list of candidate task objects, if one is
// present. Bare string elements are tolerated and treated as titles.
func candidateItems(raw map[string]any) ([]map[string]any, bool) {
	for _, key := range []string{"tasks", "items", "subtasks"} {
		list, ok := rawSlice(raw[key])
		if !ok {
			continue
		}
		items := make([]map[string]any, 0, len(list))
		for _, el := range list {
			switch v := el.(type) {
			case map[string]any:
				items = append(items, v)
			case string:
				items = append(items, map[string]any{"title": v})
			default:
				log.Printf("normalize: dropping non-object candidate item %T", el)
			}
		}
		return items, true
	}
	return nil, false
}

// singularItem picks the single task-shaped object: an explicit "task"
// field when present, otherwise the raw object itself.
func singularItem(raw map[string]any) (map[string]any, bool) {
	if m, ok := rawMap(raw["task"]); ok {
		return m, true
	}
	return raw, false
}

// dropBlankTitles removes items whose title is empty after trimming.
func dropBlankTitles(items []map[string]any) []map[string]any {
	out := items[:0]
	for _, it := range items {
		mergeAliases(it)
		title, _ := rawString(it["title"])
		if strings.TrimSpace(title) == "" {
			log.Printf("normalize: dropping candidate item with blank title")
			continue
		}
		out = append(out, it)
	}
	return out
}

// dedupeByTitle keeps the first occurrence of each case-insensitive,
// trimmed title.
func dedupeByTitle(items []map[string]any) []map[string]any {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, it := range items {
		title, _ := rawString(it["title"])
		key := strings.ToLower(strings.TrimSpace(title))
		if seen[key] {
			log.Printf("normalize: dropping duplicate candidate title %q", strings.TrimSpace(title))
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out
}

// normalizeView repairs a view-shaped object into an ApplyView command.
// Filter arrays default to empty and the date scope defaults to "all".
func normalizeView(raw map[string]any, freeText string) models.Command {
	view := raw
	if m, ok := rawMap(raw["view"]); ok {
		view = m
	}
	mergeAliases(view)

	name := firstString(view, "view_name", "name", "title")
	if strings.TrimSpace(name) == "" {
		name = boundedTitle(freeText)
		if name == "" {
			name = "Custom View"
		}
		log.Printf("normalize: view name missing, using %q", name)
	}

	filters := view
	for _, key := range []string{"filters", "filter", "criteria"} {
		if m, ok := rawMap(view[key]); ok {
			filters = m
			break
		}
	}
	mergeAliases(filters)

	state := models.FilterState{
		Tags:      coerceTags(filters["tags"]),
		Status:    coerceStatuses(filters["status"]),
		DateScope: coerceScope(firstString(filters, "date_scope", "scope", "range")),
	}

	return models.ApplyView{
		ViewName:    strings.TrimSpace(name),
		Description: strings.TrimSpace(firstString(view, "description", "summary")),
		Filters:     state,
	}
}

func hasAnyKey(raw map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return true
		}
	}
	return false
}
