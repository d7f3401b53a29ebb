package apihttp

import (
	"net/http"

	"pathportal/internal/domain"
	"pathportal/internal/query"
)

type topicListResponse struct {
	Topics []query.TopicView  `json:"topics"`
	Count  int                `json:"count"`
	Filter domain.TopicFilter `json:"filter"`
}

type categoriesResponse struct {
	Categories   []string `json:"categories"`
	Difficulties []string `json:"difficulties"`
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	filter := domain.TopicFilter{
		Query:      q.Get("q"),
		Category:   q.Get("category"),
		Difficulty: domain.Difficulty(q.Get("difficulty")),
	}.Normalize()
	if filter.Difficulty != "" && !filter.Difficulty.Valid() {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid difficulty")
		return
	}

	topics := query.Search(s.catalog.Topics(), filter)
	writeJSON(w, http.StatusOK, topicListResponse{
		Topics: query.Annotate(topics, s.state.Snapshot()),
		Count:  len(topics),
		Filter: filter,
	})
}

func (s *Server) handleTopicByID(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitIDPath(r.URL.Path, "/topics/")
	if !ok || action != "" {
		writeTopicNotFound(w)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	detail, err := s.topicDetail.Execute(id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	home := query.HomeView(s.catalog.Topics(), s.state.Snapshot(), r.URL.Query().Get("q"), s.continueLimit)
	writeJSON(w, http.StatusOK, home)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	resp := categoriesResponse{
		Categories:   append([]string{domain.FilterAll}, query.Categories(s.catalog.Topics())...),
		Difficulties: []string{domain.FilterAll},
	}
	for _, d := range domain.Difficulties {
		resp.Difficulties = append(resp.Difficulties, string(d))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContinueWatching(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	limit, err := parsePositiveInt(r.URL.Query().Get("limit"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	if limit <= 0 {
		limit = s.continueLimit
	}

	snap := s.state.Snapshot()
	topics := query.ContinueWatching(s.catalog.Topics(), snap.Progress, limit)
	writeJSON(w, http.StatusOK, query.Annotate(topics, snap))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, query.ComputeStats(s.catalog.Topics(), s.state.Snapshot()))
}
