package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aleister1102/futwatch/internal/feed"
	"github.com/aleister1102/futwatch/internal/generator"
	"github.com/aleister1102/futwatch/internal/models"
)

// TickSource reports when the last detection cycle started.
type TickSource interface {
	LastTick() time.Time
}

// Server exposes the rolling feed over HTTP.
type Server struct {
	feed   *feed.Feed
	cards  *generator.CardRenderer
	ticks  TickSource
	logger zerolog.Logger
	http   *http.Server
}

// NewServer creates the API server. ticks may be nil when no scheduler runs.
func NewServer(listenAddress string, eventFeed *feed.Feed, ticks TickSource, logger zerolog.Logger) *Server {
	s := &Server{
		feed:   eventFeed,
		cards:  generator.NewCardRenderer(),
		ticks:  ticks,
		logger: logger.With().Str("module", "Server").Logger(),
	}
	s.http = &http.Server{
		Addr:              listenAddress,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", s.handleEvents)
		r.Get("/health", s.handleHealth)
		r.Get("/summary/{topic}", s.handleSummary)
		r.Get("/summary/{topic}/card.png", s.handleSummaryCard)
	})
	return r
}

// Start runs the HTTP server until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info().Str("address", s.http.Addr).Msg("API server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// handleEvents serves the filtered feed, oldest first.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	query := feed.Query{
		Kind:     models.EventKind(r.URL.Query().Get("kind")),
		Topic:    models.Topic(r.URL.Query().Get("topic")),
		Severity: models.Severity(r.URL.Query().Get("severity")),
		Search:   r.URL.Query().Get("q"),
	}

	events := s.feed.Events(query)
	if events == nil {
		events = []models.ChangeEvent{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// handleHealth reports liveness and basic feed statistics.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]interface{}{
		"status": "ok",
		"events": s.feed.Len(),
	}
	if s.ticks != nil {
		if last := s.ticks.LastTick(); !last.IsZero() {
			health["last_tick"] = last.Format(time.RFC3339)
		}
	}
	s.writeJSON(w, http.StatusOK, health)
}

// handleSummary serves the latest change event for one topic.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	event, ok := s.latestForTopic(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, event)
}

// handleSummaryCard renders the latest change for one topic as a PNG card.
func (s *Server) handleSummaryCard(w http.ResponseWriter, r *http.Request) {
	event, ok := s.latestForTopic(w, r)
	if !ok {
		return
	}

	card, err := s.cards.Render(event.Headline, event.Summary)
	if err != nil {
		s.logger.Error().Err(err).Str("topic", string(event.Topic)).Msg("Failed to render card")
		s.writeError(w, http.StatusInternalServerError, "failed to render card")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(card)
}

// latestForTopic resolves the {topic} parameter and finds its latest change.
// It writes the error response itself when resolution fails.
func (s *Server) latestForTopic(w http.ResponseWriter, r *http.Request) (models.ChangeEvent, bool) {
	topic, ok := parseTopic(chi.URLParam(r, "topic"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown topic")
		return models.ChangeEvent{}, false
	}

	event, found := s.feed.LatestChange(topic)
	if !found {
		s.writeError(w, http.StatusNotFound, "no changes recorded for topic")
		return models.ChangeEvent{}, false
	}
	return event, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

var knownTopics = []models.Topic{
	models.TopicEvolutions,
	models.TopicSBC,
	models.TopicPacks,
	models.TopicObjectives,
	models.TopicLocales,
	models.TopicBundles,
	models.TopicFlags,
	models.TopicOther,
}

// parseTopic matches the path parameter case-insensitively
func parseTopic(raw string) (models.Topic, bool) {
	for _, topic := range knownTopics {
		if strings.EqualFold(raw, string(topic)) {
			return topic, true
		}
	}
	return "", false
}
