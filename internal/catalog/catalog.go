// Package catalog defines the static community catalog used for UI rendering
// independent of backend state.
package catalog

// Entry is a statically defined community description. Entries are fixed at
// build time; their LocalID is what routes and client state key on.
type Entry struct {
	LocalID     string `json:"id"`
	DisplayName string `json:"name"`
	Description string `json:"description"`
	IconGlyph   string `json:"icon"`
	ColorToken  string `json:"color"`
}

// Entries is the built-in community catalog.
var Entries = []Entry{
	{
		LocalID:     "technology",
		DisplayName: "テクノロジー",
		Description: "テクノロジーについての最新情報と議論",
		IconGlyph:   "💻",
		ColorToken:  "bg-blue-500",
	},
	{
		LocalID:     "art",
		DisplayName: "アート",
		Description: "アートとクリエイティブな作品について",
		IconGlyph:   "🎨",
		ColorToken:  "bg-purple-500",
	},
	{
		LocalID:     "business",
		DisplayName: "ビジネス",
		Description: "ビジネスと起業家精神について",
		IconGlyph:   "💼",
		ColorToken:  "bg-green-500",
	},
	{
		LocalID:     "education",
		DisplayName: "教育",
		Description: "教育と学習に関するトピック",
		IconGlyph:   "📚",
		ColorToken:  "bg-yellow-500",
	},
	{
		LocalID:     "health",
		DisplayName: "健康",
		Description: "健康とウェルネスについて",
		IconGlyph:   "🏥",
		ColorToken:  "bg-red-500",
	},
}

// canonicalNames maps a LocalID to the canonical remote-facing community
// name. Entries absent from this table seed and match under their raw
// DisplayName.
var canonicalNames = map[string]string{
	"technology": "Technology",
	"art":        "Art",
	"business":   "Business",
	"education":  "Education",
	"health":     "Health",
}

// CanonicalName returns the remote-facing name for an entry.
func CanonicalName(e Entry) string {
	if name, ok := canonicalNames[e.LocalID]; ok {
		return name
	}
	return e.DisplayName
}

// ByLocalID returns the catalog entry with the given id, if any.
func ByLocalID(localID string) (Entry, bool) {
	for _, e := range Entries {
		if e.LocalID == localID {
			return e, true
		}
	}
	return Entry{}, false
}
