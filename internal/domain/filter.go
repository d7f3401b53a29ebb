package domain

import "strings"

// FilterAll is the UI sentinel meaning "no filter" for category and difficulty.
const FilterAll = "All"

// TopicFilter narrows the catalog. All set fields are combined with AND.
type TopicFilter struct {
	Query      string     `json:"query,omitempty"`
	Category   string     `json:"category,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
}

// Normalize maps the "All" sentinel and surrounding whitespace to empty fields.
func (f TopicFilter) Normalize() TopicFilter {
	out := TopicFilter{
		Query:      strings.TrimSpace(f.Query),
		Category:   strings.TrimSpace(f.Category),
		Difficulty: Difficulty(strings.TrimSpace(string(f.Difficulty))),
	}
	if strings.EqualFold(out.Category, FilterAll) {
		out.Category = ""
	}
	if strings.EqualFold(string(out.Difficulty), FilterAll) {
		out.Difficulty = ""
	}
	return out
}

func (f TopicFilter) IsZero() bool {
	n := f.Normalize()
	return n.Query == "" && n.Category == "" && n.Difficulty == ""
}
