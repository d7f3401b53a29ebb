package apihttp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"pathportal/internal/domain"
	"pathportal/internal/usecase"
)

type errorEnvelope struct {
	Error errorPayload `json:"error"`
}

type errorPayload struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Recovery string `json:"recovery,omitempty"`
}

// writeTopicNotFound is the one user-visible failure: it carries a link
// back to the catalog.
func writeTopicNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, errorEnvelope{Error: errorPayload{
		Code:     "not_found",
		Message:  "topic not found",
		Recovery: "/topics",
	}})
}

func writeUseCaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeTopicNotFound(w)
		return
	}
	if errors.Is(err, usecase.ErrStorage) {
		writeError(w, http.StatusInternalServerError, "storage_error", err.Error())
		return
	}

	writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorPayload{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// splitIDPath parses "<prefix><id>[/<action>]".
func splitIDPath(path, prefix string) (id, action string, ok bool) {
	tail := strings.TrimPrefix(path, prefix)
	if tail == path || tail == "" {
		return "", "", false
	}
	parts := strings.SplitN(tail, "/", 2)
	if parts[0] == "" {
		return "", "", false
	}
	if len(parts) == 2 {
		if parts[1] == "" || strings.Contains(parts[1], "/") {
			return "", "", false
		}
		return parts[0], parts[1], true
	}
	return parts[0], "", true
}

func parsePositiveInt(value string, requirePositive bool) (int, error) {
	if strings.TrimSpace(value) == "" {
		return -1, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if requirePositive && parsed <= 0 {
		return 0, errors.New("must be > 0")
	}
	if !requirePositive && parsed < 0 {
		return 0, errors.New("must be >= 0")
	}
	return parsed, nil
}

func parseFloatQuery(value string) (float64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("missing value")
	}
	return strconv.ParseFloat(trimmed, 64)
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func (s *Server) knownTopic(id domain.TopicID) bool {
	_, ok := s.catalog.Lookup(id)
	return ok
}
