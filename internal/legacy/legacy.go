// Package legacy maps the old categorical attribute model onto the
// flat tag vocabulary. It is consumed by the one-time migration pass,
// not the live capture path. Every mapping is total: unknown values
// simply contribute no tags.
package legacy

import (
	"strconv"
	"strings"

	"github.com/noah-vh/masterlist/internal/vocab"
)

// Attributes is the old four-axis categorical model.
type Attributes struct {
	Area         string // professional, personal, family, health, finance
	Energy       string // high, medium, low
	Location     string // office, home, errands, anywhere
	ItemType     string // task, idea, errand, note
	TimeEstimate string // free text, e.g. "30 min", "2 hours"
}

var areaTags = map[string][]string{
	"professional": {vocab.TagWork},
	"personal":     {vocab.TagPersonal},
	"family":       {vocab.TagFamily},
	"health":       {vocab.TagHealth},
	"finance":      {vocab.TagAdmin},
}

var energyTags = map[string][]string{
	"high":   {vocab.TagHighEnergy},
	"medium": {},
	"low":    {vocab.TagLowEnergy},
}

var locationTags = map[string][]string{
	"office":   {vocab.TagWork},
	"home":     {},
	"errands":  {vocab.TagErrands},
	"anywhere": {},
}

var itemTypeTags = map[string][]string{
	"task":   {},
	"idea":   {vocab.TagCreative},
	"errand": {vocab.TagErrands},
	"note":   {},
}

// MapToTags converts a legacy record's attributes into canonical tags.
// The four axes map independently through their tables; two compound
// heuristics and a coarse duration scan are layered on top. The result
// is deduplicated and order-preserving.
func MapToTags(a Attributes) []string {
	area := strings.ToLower(strings.TrimSpace(a.Area))
	energy := strings.ToLower(strings.TrimSpace(a.Energy))

	var tags []string
	tags = append(tags, areaTags[area]...)
	tags = append(tags, energyTags[energy]...)
	tags = append(tags, locationTags[strings.ToLower(strings.TrimSpace(a.Location))]...)
	tags = append(tags, itemTypeTags[strings.ToLower(strings.TrimSpace(a.ItemType))]...)

	// Compound heuristics from the old model's usage patterns.
	if area == "professional" && energy == "high" {
		tags = append(tags, vocab.TagDeepFocus)
	}
	if energy == "low" {
		tags = append(tags, vocab.TagAdmin)
	}

	if d := durationTag(a.TimeEstimate); d != "" {
		tags = append(tags, d)
	}

	return dedupe(tags)
}

// durationTag scans an estimate string for minute/hour vocabulary and
// returns a coarse duration tag, or "" when nothing matches.
func durationTag(estimate string) string {
	s := strings.ToLower(strings.TrimSpace(estimate))
	if s == "" {
		return ""
	}

	switch {
	case strings.Contains(s, "hour"), strings.Contains(s, "hr"):
		return vocab.TagLong
	case strings.Contains(s, "min"):
		if minutes := leadingNumber(s); minutes > 0 && minutes <= 15 {
			return vocab.TagQuick
		}
		return vocab.TagShort
	}
	return ""
}

// leadingNumber extracts the first integer in the string, or 0.
func leadingNumber(s string) int {
	start := -1
	for i, r := range s {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			n, _ := strconv.Atoi(s[start:i])
			return n
		}
	}
	if start >= 0 {
		n, _ := strconv.Atoi(s[start:])
		return n
	}
	return 0
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
