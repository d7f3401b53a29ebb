package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pathportal/internal/catalog"
	"pathportal/internal/domain"
)

func ids(topics []domain.Topic) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		out = append(out, t.ID)
	}
	return out
}

func TestContinueWatching(t *testing.T) {
	topics := catalog.Default().Topics()
	require.Len(t, topics, 19)

	progress := domain.ProgressMap{
		"12":   40,
		"2":    10,
		"17":   99.9,
		"5":    0.5,
		"1":    0,
		"3":    100,
		"gone": 50,
	}

	got := ContinueWatching(topics, progress, DefaultContinueWatchingLimit)
	assert.Equal(t, []string{"2", "5", "12", "17"}, ids(got))

	got = ContinueWatching(topics, progress, 2)
	assert.Equal(t, []string{"2", "5"}, ids(got))

	got = ContinueWatching(topics, progress, 0)
	assert.Len(t, got, 4)
}

func TestContinueWatchingExcludesBoundaries(t *testing.T) {
	topics := catalog.Default().Topics()
	progress := domain.ProgressMap{}
	for i, topic := range topics {
		progress[topic.ID] = []float64{0, 100, 100}[i%3]
	}
	assert.Empty(t, ContinueWatching(topics, progress, 0))
	assert.NotNil(t, ContinueWatching(topics, nil, 4))
}

func TestSearch(t *testing.T) {
	topics := catalog.Default().Topics()

	tests := []struct {
		name   string
		filter domain.TopicFilter
		want   []string
	}{
		{"empty matches all", domain.TopicFilter{}, ids(topics)},
		{"title case-insensitive", domain.TopicFilter{Query: "NEOPLASIA"}, []string{"3"}},
		{"description", domain.TopicFilter{Query: "coagulation"}, []string{"4"}},
		{"category text", domain.TopicFilter{Query: "hematology"}, []string{"4", "5", "6"}},
		{"category filter", domain.TopicFilter{Category: "Fundamentals"}, []string{"1", "2", "3"}},
		{"all sentinel", domain.TopicFilter{Category: "All", Difficulty: "All", Query: "  "}, ids(topics)},
		{"difficulty filter", domain.TopicFilter{Category: "Hematology", Difficulty: domain.DifficultyAdvanced}, []string{"6"}},
		{"and semantics", domain.TopicFilter{Query: "neoplasms", Category: "Systems"}, []string{"10"}},
		{"no match", domain.TopicFilter{Query: "virology"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Search(topics, tt.filter)))
		})
	}
}

func TestSearchFoldsUnicode(t *testing.T) {
	topics := []domain.Topic{
		{ID: "a", Title: "Straße Pathology", Category: "X", Difficulty: domain.DifficultyBeginner},
		{ID: "b", Title: "ÉCOLE", Category: "X", Difficulty: domain.DifficultyBeginner},
	}
	assert.Equal(t, []string{"a"}, ids(Search(topics, domain.TopicFilter{Query: "STRASSE"})))
	assert.Equal(t, []string{"b"}, ids(Search(topics, domain.TopicFilter{Query: "école"})))
}

func TestSearchTitles(t *testing.T) {
	topics := catalog.Default().Topics()

	assert.Equal(t, []string{"3"}, ids(SearchTitles(topics, "NEOPLASIA")))
	assert.Equal(t, []string{"5", "6"}, ids(SearchTitles(topics, "blood cell")))
	// "neoplasms" only occurs in a description.
	assert.Empty(t, SearchTitles(topics, "neoplasms"))
	assert.Len(t, SearchTitles(topics, ""), 19)
	assert.Len(t, SearchTitles(topics, "   "), 19)
}

func TestBookmarkedAndWithNotes(t *testing.T) {
	topics := catalog.Default().Topics()

	got := Bookmarked(topics, []domain.TopicID{"9", "2", "stale", "2"})
	assert.Equal(t, []string{"2", "9"}, ids(got))

	notes := domain.NoteMap{"7": "valves", "1": "  ", "4": "", "stale": "old"}
	assert.Equal(t, []string{"7"}, ids(WithNotes(topics, notes)))
}

func TestFeaturedRelatedCategories(t *testing.T) {
	topics := catalog.Default().Topics()

	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, ids(Featured(topics)))
	assert.Equal(t, []string{"Fundamentals", "Hematology", "Systems"}, Categories(topics))

	five, _ := catalog.Default().Lookup("5")
	assert.Equal(t, []string{"4", "6"}, ids(Related(topics, five, DefaultRelatedLimit)))

	seven, _ := catalog.Default().Lookup("7")
	assert.Equal(t, []string{"8", "9", "10"}, ids(Related(topics, seven, DefaultRelatedLimit)))
}

func TestParseAndFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2h 15m", 135},
		{"4h 0m", 240},
		{"3h", 180},
		{"45m", 45},
		{"", 0},
		{"soon", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDuration(tt.in), tt.in)
	}

	assert.Equal(t, "2h 15m", FormatDuration(135))
	assert.Equal(t, "0h 0m", FormatDuration(-3))
	assert.Equal(t, "90h 20m", FormatDuration(5420))
}

func TestComputeStats(t *testing.T) {
	topics := catalog.Default().Topics()
	snap := domain.Snapshot{
		Progress:  domain.ProgressMap{"1": 0, "2": 50, "3": 100, "stale": 40},
		Bookmarks: []domain.TopicID{"4", "5", "stale"},
		Notes:     domain.NoteMap{"1": "two words", "2": "   ", "3": "", "stale": "x"},
	}

	st := ComputeStats(topics, snap)
	assert.Equal(t, 19, st.TotalTopics)
	assert.Equal(t, 112, st.TotalVideos)
	assert.Equal(t, 5365, st.TotalDurationMinutes)
	assert.Equal(t, "89h 25m", st.TotalDuration)
	assert.Equal(t, 2, st.Bookmarked)
	assert.Equal(t, 1, st.WithNotes)
	assert.Equal(t, 2, st.NoteWords)
	assert.Equal(t, 3, st.WithProgress)
	assert.Equal(t, 1, st.InProgress)
	assert.Equal(t, 1, st.Completed)
}

func TestSumTotals(t *testing.T) {
	topics := catalog.Default().Topics()

	got := SumTotals(Bookmarked(topics, []domain.TopicID{"7", "3", "stale"}))
	assert.Equal(t, Totals{Videos: 11, DurationMinutes: 490, Duration: "8h 10m"}, got)

	assert.Equal(t, Totals{Duration: "0h 0m"}, SumTotals(nil))
}

func TestNoteWords(t *testing.T) {
	topics := catalog.Default().Topics()
	notes := domain.NoteMap{
		"1":     "  hyperplasia\tand  metaplasia\n",
		"2":     "   ",
		"3":     "",
		"stale": "not counted at all",
	}
	assert.Equal(t, 3, NoteWords(topics, notes))
	assert.Zero(t, NoteWords(topics, nil))
}

func TestHomeView(t *testing.T) {
	topics := catalog.Default().Topics()
	snap := domain.Snapshot{Progress: domain.ProgressMap{"8": 30, "11": 60}}

	h := HomeView(topics, snap, "", DefaultContinueWatchingLimit)
	assert.Len(t, h.Featured, 6)
	assert.Equal(t, []string{"8", "11"}, ids(h.ContinueWatching))
	assert.Empty(t, h.Results)

	h = HomeView(topics, snap, " cardiac ", DefaultContinueWatchingLimit)
	assert.Equal(t, "cardiac", h.Query)
	assert.Equal(t, []string{"8"}, ids(h.Results))
	assert.Empty(t, h.Featured)
	assert.Empty(t, h.ContinueWatching)
}

func TestQueriesArePure(t *testing.T) {
	topics := catalog.Default().Topics()
	snap := domain.Snapshot{
		Progress:  domain.ProgressMap{"2": 50},
		Bookmarks: []domain.TopicID{"4"},
		Notes:     domain.NoteMap{"1": "n"},
	}
	first := ComputeStats(topics, snap)
	second := ComputeStats(topics, snap)
	assert.Equal(t, first, second)
	assert.Equal(t, domain.ProgressMap{"2": 50}, snap.Progress)
}

func TestAnnotateAndDetail(t *testing.T) {
	c := catalog.Default()
	snap := domain.Snapshot{
		Progress:  domain.ProgressMap{"4": 33},
		Bookmarks: []domain.TopicID{"4"},
		Notes:     domain.NoteMap{"4": "vWF", "5": " "},
	}

	views := Annotate(c.Topics(), snap)
	require.Len(t, views, 19)
	assert.Equal(t, 33.0, views[3].Progress)
	assert.True(t, views[3].Bookmarked)
	assert.True(t, views[3].HasNote)
	assert.False(t, views[4].HasNote)

	four, _ := c.Lookup("4")
	d := Detail(c.Topics(), four, snap)
	assert.Equal(t, "vWF", d.Note)
	assert.Equal(t, []string{"5", "6"}, ids(d.Related))
}
