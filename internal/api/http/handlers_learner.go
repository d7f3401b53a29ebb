package apihttp

import (
	"encoding/json"
	"net/http"

	"pathportal/internal/domain"
	"pathportal/internal/query"
)

type bookmarkResponse struct {
	TopicID    domain.TopicID `json:"topicId"`
	Bookmarked bool           `json:"bookmarked"`
}

type bookmarkListResponse struct {
	Topics        []query.TopicView `json:"topics"`
	Count         int               `json:"count"`
	TotalVideos   int               `json:"totalVideos"`
	TotalDuration string            `json:"totalDuration"`
}

type noteResponse struct {
	TopicID domain.TopicID `json:"topicId"`
	Text    string         `json:"text"`
	HasNote bool           `json:"hasNote"`
}

type noteListResponse struct {
	Topics    []query.TopicView `json:"topics"`
	Count     int               `json:"count"`
	WordCount int               `json:"wordCount"`
}

// handleBookmarks lists bookmarked topics, optionally narrowed by ?q=.
func (s *Server) handleBookmarks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.state.Snapshot()
	bookmarked := query.Bookmarked(s.catalog.Topics(), snap.Bookmarks)

	totals := query.SumTotals(bookmarked)

	topics := query.Search(bookmarked, domain.TopicFilter{Query: r.URL.Query().Get("q")})
	writeJSON(w, http.StatusOK, bookmarkListResponse{
		Topics:        query.Annotate(topics, snap),
		Count:         len(topics),
		TotalVideos:   totals.Videos,
		TotalDuration: totals.Duration,
	})
}

func (s *Server) handleBookmarkByID(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitIDPath(r.URL.Path, "/bookmarks/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !s.knownTopic(id) {
		writeTopicNotFound(w)
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, bookmarkResponse{TopicID: id, Bookmarked: s.state.Bookmarks.IsBookmarked(id)})
	case action == "toggle" && r.Method == http.MethodPost:
		s.state.Bookmarks.Toggle(id)
		writeJSON(w, http.StatusOK, bookmarkResponse{TopicID: id, Bookmarked: s.state.Bookmarks.IsBookmarked(id)})
	case action == "" || action == "toggle":
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}

// handleNotes lists topics that carry a note. With ?q= it searches titles
// across the whole catalog instead, and hasNote marks which results have one.
// wordCount always covers every note.
func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.state.Snapshot()
	all := s.catalog.Topics()

	topics := query.WithNotes(all, snap.Notes)
	if params := r.URL.Query(); params.Has("q") {
		topics = query.SearchTitles(all, params.Get("q"))
	}
	writeJSON(w, http.StatusOK, noteListResponse{
		Topics:    query.Annotate(topics, snap),
		Count:     len(topics),
		WordCount: query.NoteWords(all, snap.Notes),
	})
}

func (s *Server) handleNoteByID(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitIDPath(r.URL.Path, "/notes/")
	if !ok || action != "" {
		http.NotFound(w, r)
		return
	}
	if !s.knownTopic(id) {
		writeTopicNotFound(w)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, newNoteResponse(id, s.state.Notes.Get(id)))

	case http.MethodPut:
		var body struct {
			Text *string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
			return
		}
		if body.Text == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "text is required")
			return
		}
		s.state.Notes.Update(id, *body.Text)
		writeJSON(w, http.StatusOK, newNoteResponse(id, s.state.Notes.Get(id)))

	case http.MethodDelete:
		s.state.Notes.Update(id, "")
		writeJSON(w, http.StatusOK, newNoteResponse(id, ""))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newNoteResponse(id domain.TopicID, text string) noteResponse {
	return noteResponse{TopicID: id, Text: text, HasNote: domain.HasNote(text)}
}
