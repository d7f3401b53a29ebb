package query

import (
	"strings"

	"pathportal/internal/domain"
)

// Totals is the summed size of a set of topics.
type Totals struct {
	Videos          int    `json:"totalVideos"`
	DurationMinutes int    `json:"totalDurationMinutes"`
	Duration        string `json:"totalDuration"`
}

func SumTotals(topics []domain.Topic) Totals {
	var t Totals
	for _, topic := range topics {
		t.Videos += topic.VideoCount
		t.DurationMinutes += ParseDuration(topic.EstimatedDuration)
	}
	t.Duration = FormatDuration(t.DurationMinutes)
	return t
}

// NoteWords counts whitespace-separated words in the notes of the given
// topics. Blank notes count zero.
func NoteWords(topics []domain.Topic, notes domain.NoteMap) int {
	words := 0
	for _, t := range topics {
		if note := notes[t.ID]; domain.HasNote(note) {
			words += len(strings.Fields(note))
		}
	}
	return words
}
