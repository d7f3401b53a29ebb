package query

import (
	"strings"

	"pathportal/internal/domain"
)

// Home is the landing view. Without a query it carries the featured topics
// and the continue-watching row; with one it carries only search results.
type Home struct {
	Query            string         `json:"query,omitempty"`
	Featured         []domain.Topic `json:"featured,omitempty"`
	ContinueWatching []domain.Topic `json:"continueWatching,omitempty"`
	Results          []domain.Topic `json:"results,omitempty"`
	Stats            domain.Stats   `json:"stats"`
}

func HomeView(topics []domain.Topic, snap domain.Snapshot, query string, limit int) Home {
	query = strings.TrimSpace(query)
	h := Home{Query: query, Stats: ComputeStats(topics, snap)}
	if query != "" {
		h.Results = Search(topics, domain.TopicFilter{Query: query})
		return h
	}
	h.Featured = Featured(topics)
	h.ContinueWatching = ContinueWatching(topics, snap.Progress, limit)
	return h
}
