// Package vocab holds the fixed tag vocabulary: the catalog of
// canonical tag strings grouped by semantic category, with display
// metadata. The catalog is immutable; lookups never fail hard, since
// unknown tags are still valid opaque strings for filtering.
package vocab

// Category is one semantic axis of the vocabulary.
type Category string

const (
	CategoryHeadspace Category = "headspace"
	CategoryEnergy    Category = "energy"
	CategoryDuration  Category = "duration"
	CategoryDomain    Category = "domain"
)

// Entry is one canonical tag with its display metadata.
type Entry struct {
	Tag      string   `json:"tag"`
	Label    string   `json:"label"`
	Color    string   `json:"color"`
	Category Category `json:"category"`
}

// Canonical tag strings. Anything else appearing in task or filter tags
// is treated as an opaque user tag.
const (
	TagDeepFocus = "deep-focus"
	TagCreative  = "creative"
	TagSocial    = "social"
	TagAdmin     = "admin"

	TagHighEnergy = "high-energy"
	TagLowEnergy  = "low-energy"

	TagQuick = "quick"
	TagShort = "short"
	TagLong  = "long"

	TagWork     = "work"
	TagPersonal = "personal"
	TagFamily   = "family"
	TagHealth   = "health"
	TagErrands  = "errands"
)

var catalog = map[Category][]Entry{
	CategoryHeadspace: {
		{Tag: TagDeepFocus, Label: "Deep Focus", Color: "#5B8DEF", Category: CategoryHeadspace},
		{Tag: TagCreative, Label: "Creative", Color: "#9B59B6", Category: CategoryHeadspace},
		{Tag: TagSocial, Label: "Social", Color: "#F39C12", Category: CategoryHeadspace},
		{Tag: TagAdmin, Label: "Admin", Color: "#95A5A6", Category: CategoryHeadspace},
	},
	CategoryEnergy: {
		{Tag: TagHighEnergy, Label: "High Energy", Color: "#E74C3C", Category: CategoryEnergy},
		{Tag: TagLowEnergy, Label: "Low Energy", Color: "#3498DB", Category: CategoryEnergy},
	},
	CategoryDuration: {
		{Tag: TagQuick, Label: "Quick Win", Color: "#2ECC71", Category: CategoryDuration},
		{Tag: TagShort, Label: "Short", Color: "#27AE60", Category: CategoryDuration},
		{Tag: TagLong, Label: "Long", Color: "#16A085", Category: CategoryDuration},
	},
	CategoryDomain: {
		{Tag: TagWork, Label: "Work", Color: "#34495E", Category: CategoryDomain},
		{Tag: TagPersonal, Label: "Personal", Color: "#E67E22", Category: CategoryDomain},
		{Tag: TagFamily, Label: "Family", Color: "#D35400", Category: CategoryDomain},
		{Tag: TagHealth, Label: "Health", Color: "#1ABC9C", Category: CategoryDomain},
		{Tag: TagErrands, Label: "Errands", Color: "#7F8C8D", Category: CategoryDomain},
	},
}

// byTag is derived from catalog at init for O(1) lookup.
var byTag = func() map[string]Entry {
	m := make(map[string]Entry)
	for _, entries := range catalog {
		for _, e := range entries {
			m[e.Tag] = e
		}
	}
	return m
}()

// Categories returns the categories in their fixed display order.
func Categories() []Category {
	return []Category{CategoryHeadspace, CategoryEnergy, CategoryDuration, CategoryDomain}
}

// Entries returns the entries for a category in catalog order. The
// returned slice is a copy; callers may not mutate the catalog.
func Entries(c Category) []Entry {
	src := catalog[c]
	out := make([]Entry, len(src))
	copy(out, src)
	return out
}

// All returns every entry, grouped by category in display order.
func All() []Entry {
	var out []Entry
	for _, c := range Categories() {
		out = append(out, catalog[c]...)
	}
	return out
}

// Lookup resolves a canonical tag to its entry.
func Lookup(tag string) (Entry, bool) {
	e, ok := byTag[tag]
	return e, ok
}

// Has reports whether tag is part of the canonical vocabulary.
func Has(tag string) bool {
	_, ok := byTag[tag]
	return ok
}
