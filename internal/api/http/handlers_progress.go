package apihttp

import (
	"encoding/json"
	"net/http"

	"pathportal/internal/domain"
)

type progressResponse struct {
	TopicID domain.TopicID `json:"topicId"`
	Percent float64        `json:"percent"`
}

type progressListResponse struct {
	Progress domain.ProgressMap `json:"progress"`
	Version  uint64             `json:"version"`
}

type resumeResponse struct {
	TopicID  domain.TopicID `json:"topicId"`
	Position float64        `json:"position"`
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	snap := s.state.Snapshot()
	writeJSON(w, http.StatusOK, progressListResponse{Progress: snap.Progress, Version: snap.ProgressVersion})
}

func (s *Server) handleProgressByID(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitIDPath(r.URL.Path, "/progress/")
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
		writeJSON(w, http.StatusOK, progressResponse{TopicID: id, Percent: s.state.Progress.Get(id)})

	case http.MethodPut:
		var body struct {
			Percent *float64 `json:"percent"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
			return
		}
		if body.Percent == nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "percent is required")
			return
		}
		s.state.Progress.Update(id, *body.Percent)
		writeJSON(w, http.StatusOK, progressResponse{TopicID: id, Percent: s.state.Progress.Get(id)})

	case http.MethodDelete:
		s.state.Progress.Reset(id)
		writeJSON(w, http.StatusOK, progressResponse{TopicID: id, Percent: 0})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePlayback(w http.ResponseWriter, r *http.Request) {
	id, action, ok := splitIDPath(r.URL.Path, "/playback/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	switch action {
	case "timeupdate":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var body struct {
			Position float64 `json:"position"`
			Duration float64 `json:"duration"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid json")
			return
		}
		result, err := s.trackPlayback.Execute(id, body.Position, body.Duration)
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "resume":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		duration, err := parseFloatQuery(r.URL.Query().Get("duration"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid duration")
			return
		}
		position, err := s.resumePosition.Execute(id, duration)
		if err != nil {
			writeUseCaseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resumeResponse{TopicID: id, Position: position})

	default:
		http.NotFound(w, r)
	}
}
