package apihttp

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"pathportal/internal/domain"
	"pathportal/internal/domain/ports"
	"pathportal/internal/query"
	"pathportal/internal/store"
	"pathportal/internal/usecase"
)

type TrackPlaybackUseCase interface {
	Execute(id domain.TopicID, positionSec, durationSec float64) (usecase.PlaybackProgress, error)
}

type ResumePositionUseCase interface {
	Execute(id domain.TopicID, durationSec float64) (float64, error)
}

type TopicDetailUseCase interface {
	Execute(id domain.TopicID) (query.TopicDetail, error)
}

type Server struct {
	catalog        ports.Catalog
	state          *store.State
	trackPlayback  TrackPlaybackUseCase
	resumePosition ResumePositionUseCase
	topicDetail    TopicDetailUseCase
	continueLimit  int
	allowedOrigins []string
	rateRPS        float64
	rateBurst      int
	logger         *slog.Logger
	handler        http.Handler
	wsHub          *wsHub
	unsubscribe    func()
}

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithTrackPlayback(uc TrackPlaybackUseCase) ServerOption {
	return func(s *Server) {
		s.trackPlayback = uc
	}
}

func WithResumePosition(uc ResumePositionUseCase) ServerOption {
	return func(s *Server) {
		s.resumePosition = uc
	}
}

func WithTopicDetail(uc TopicDetailUseCase) ServerOption {
	return func(s *Server) {
		s.topicDetail = uc
	}
}

// WithContinueWatchingLimit sets the default length of the continue
// watching row.
func WithContinueWatchingLimit(limit int) ServerOption {
	return func(s *Server) {
		if limit > 0 {
			s.continueLimit = limit
		}
	}
}

// WithAllowedOrigins configures the CORS allowed origins whitelist.
// When empty (default), any origin is permitted.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 && burst > 0 {
			s.rateRPS = rps
			s.rateBurst = burst
		}
	}
}

func NewServer(catalog ports.Catalog, state *store.State, opts ...ServerOption) *Server {
	s := &Server{
		catalog:       catalog,
		state:         state,
		continueLimit: query.DefaultContinueWatchingLimit,
		rateRPS:       100,
		rateBurst:     200,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.trackPlayback == nil {
		s.trackPlayback = usecase.TrackPlayback{Progress: state.Progress, Catalog: catalog}
	}
	if s.resumePosition == nil {
		s.resumePosition = usecase.ResumePosition{Progress: state.Progress, Catalog: catalog}
	}
	if s.topicDetail == nil {
		s.topicDetail = usecase.GetTopicDetail{Catalog: catalog, State: state}
	}

	s.wsHub = newWSHub(s.logger)
	go s.wsHub.run()
	s.unsubscribe = state.Subscribe(s.broadcastChange)

	mux := http.NewServeMux()
	mux.HandleFunc("/topics", s.handleTopics)
	mux.HandleFunc("/topics/", s.handleTopicByID)
	mux.HandleFunc("/home", s.handleHome)
	mux.HandleFunc("/categories", s.handleCategories)
	mux.HandleFunc("/continue-watching", s.handleContinueWatching)
	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/progress", s.handleProgress)
	mux.HandleFunc("/progress/", s.handleProgressByID)
	mux.HandleFunc("/playback/", s.handlePlayback)
	mux.HandleFunc("/bookmarks", s.handleBookmarks)
	mux.HandleFunc("/bookmarks/", s.handleBookmarkByID)
	mux.HandleFunc("/notes", s.handleNotes)
	mux.HandleFunc("/notes/", s.handleNoteByID)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/ws", s.handleWS)

	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), "pathportal",
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/healthz" && p != "/ws"
		}),
	)
	s.handler = recoveryMiddleware(s.logger, rateLimitMiddleware(s.rateRPS, s.rateBurst, metricsMiddleware(corsMiddleware(s.allowedOrigins, traced))))
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close stops forwarding store changes and disconnects all WebSocket
// clients.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.wsHub != nil {
		s.wsHub.Close()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"topics":    len(s.catalog.Topics()),
		"wsClients": s.wsHub.clientCount(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.wsHub == nil {
		http.Error(w, "websocket not available", http.StatusServiceUnavailable)
		return
	}
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("ws upgrade failed", slog.String("error", err.Error()))
		return
	}
	client := newWSClient(s.wsHub, conn)
	if payload, err := encodeWSMessage("snapshot", s.state.Snapshot()); err == nil {
		client.send <- payload
	}
	select {
	case s.wsHub.register <- client:
	case <-s.wsHub.done:
		conn.Close()
		return
	}
	go client.writePump()
	go client.readPump()
}
