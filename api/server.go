package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"news-portal/store"
)

// Server exposes the portal core over HTTP.
type Server struct {
	prefs      PreferenceStore
	articles   ArticleStore
	catalog    Catalog
	summarizer Summarizer
	answerer   Answerer
	fetcher    PageFetcher
	auth       Authenticator
}

// Deps holds all injectable dependencies for the Server.
type Deps struct {
	Prefs      PreferenceStore
	Articles   ArticleStore
	Catalog    Catalog
	Summarizer Summarizer
	Answerer   Answerer
	Fetcher    PageFetcher
	Auth       Authenticator
}

// New creates a Server with the given dependencies. A nil Auth falls back to
// header-based identity.
func New(deps Deps) *Server {
	s := &Server{
		prefs:      deps.Prefs,
		articles:   deps.Articles,
		catalog:    deps.Catalog,
		summarizer: deps.Summarizer,
		answerer:   deps.Answerer,
		fetcher:    deps.Fetcher,
		auth:       deps.Auth,
	}
	if s.auth == nil {
		s.auth = HeaderAuth{}
	}
	return s
}

// RegisterHTTP registers all endpoints on the given chi router.
func (s *Server) RegisterHTTP(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(s.identity)
		r.Get("/feed", s.handleFeed)
		r.Get("/articles", s.handleListArticles)
		r.Get("/articles/{article_id}", s.handleGetArticle)
		r.Post("/articles/summarize", s.handleSummarize)
		r.Post("/articles/ask", s.handleAsk)
		r.Post("/articles/{article_id}/feedback", s.handleFeedback)
		r.Get("/interests", s.handleInterests)
		r.Get("/sources", s.handleSources)
		r.Put("/users/preferences", s.handleSetPreferences)
	})
}

// HeaderAuth resolves identity from the X-User-ID header set by the
// authenticating front layer.
type HeaderAuth struct{}

// UserID returns the authenticated user ID for the request.
func (HeaderAuth) UserID(r *http.Request) (string, error) {
	id := r.Header.Get("X-User-ID")
	if id == "" {
		return "", fmt.Errorf("missing user identity")
	}
	return id, nil
}

type ctxKey int

const userIDKey ctxKey = 0

// identity resolves the request's user and stores it in the context.
func (s *Server) identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := s.auth.UserID(r)
		if err != nil {
			http.Error(w, "Could not validate credentials", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

func userID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// storeError maps store failures to status codes: missing records are 404,
// anything else means the store collaborator is unavailable.
func storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	slog.Error("store unavailable", "error", err)
	http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
}
