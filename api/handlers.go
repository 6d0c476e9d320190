package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"news-portal/feed"
	"news-portal/gen"
	"news-portal/store"
)

type articleJSON struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	SourceName string     `json:"source_name"`
	URL        string     `json:"url"`
	Categories []string   `json:"categories"`
	Summary    string     `json:"summary,omitempty"`
	Content    string     `json:"content,omitempty"`
	Published  *time.Time `json:"published,omitempty"`
	Trending   bool       `json:"trending"`
}

func toArticleJSON(a store.Article) articleJSON {
	categories := a.Categories
	if categories == nil {
		categories = []string{}
	}
	return articleJSON{
		ID:         a.ID,
		Title:      a.Title,
		SourceName: a.SourceName,
		URL:        a.URL,
		Categories: categories,
		Summary:    a.Summary,
		Content:    a.Content,
		Published:  a.Published,
		Trending:   a.Trending,
	}
}

func toFeedArticle(a store.Article) feed.Article {
	return feed.Article{
		ID:         a.ID,
		Title:      a.Title,
		Categories: a.Categories,
		Content:    a.Content,
		Summary:    a.Summary,
		Published:  a.Published,
		Trending:   a.Trending,
	}
}

// handleFeed returns the user's personalized feed: candidates filtered by
// interests when any exist (whole corpus otherwise), ordered by the ranker.
// GET /api/feed
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.prefs.GetPreferences(userID(r))
	if err != nil {
		storeError(w, err)
		return
	}

	candidates, err := s.articles.ListArticles(prefs.Interests)
	if err != nil {
		storeError(w, err)
		return
	}
	// An interest filter that matches nothing falls back to the whole corpus,
	// so a narrow profile still gets a feed.
	if len(candidates) == 0 && len(prefs.Interests) > 0 {
		candidates, err = s.articles.ListArticles(nil)
		if err != nil {
			storeError(w, err)
			return
		}
	}

	feedback := make(map[string]feed.Feedback, len(prefs.Feedback))
	for id, fb := range prefs.Feedback {
		feedback[id] = feed.Feedback(fb)
	}
	feedArticles := make([]feed.Article, len(candidates))
	byID := make(map[string]store.Article, len(candidates))
	for i, a := range candidates {
		feedArticles[i] = toFeedArticle(a)
		byID[a.ID] = a
	}

	ranked := feed.Rank(feed.Preferences{Interests: prefs.Interests, Feedback: feedback}, feedArticles)

	out := make([]articleJSON, len(ranked))
	for i, entry := range ranked {
		out[i] = toArticleJSON(byID[entry.Article.ID])
	}
	respondJSON(w, http.StatusOK, out)
}

// handleListArticles lists articles with optional category and trending
// filters. GET /api/articles?categories=a,b&trending=true
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	var categories []string
	if raw := r.URL.Query().Get("categories"); raw != "" {
		categories = strings.Split(raw, ",")
	}

	articles, err := s.articles.ListArticles(categories)
	if err != nil {
		storeError(w, err)
		return
	}

	if raw := r.URL.Query().Get("trending"); raw != "" {
		wantTrending := raw == "true"
		filtered := articles[:0]
		for _, a := range articles {
			if a.Trending == wantTrending {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}

	out := make([]articleJSON, len(articles))
	for i, a := range articles {
		out[i] = toArticleJSON(a)
	}
	respondJSON(w, http.StatusOK, out)
}

// handleGetArticle returns a single article. GET /api/articles/{article_id}
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.articles.GetArticle(chi.URLParam(r, "article_id"))
	if err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toArticleJSON(*article))
}

type summarizeRequest struct {
	ArticleID      string `json:"article_id"`
	URL            string `json:"url"`
	Content        string `json:"content"`
	KnowledgeLevel string `json:"knowledge_level"`
}

// handleSummarize produces a knowledge-level-calibrated summary. The text
// comes from a stored article (resolved content), inline content, or a
// fetched URL, in that order of precedence. POST /api/articles/summarize
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	level := gen.KnowledgeLevel(req.KnowledgeLevel)
	if req.KnowledgeLevel == "" {
		prefs, err := s.prefs.GetPreferences(userID(r))
		if err != nil {
			storeError(w, err)
			return
		}
		level = gen.KnowledgeLevel(prefs.KnowledgeLevel)
	}
	if !gen.ValidLevel(level) {
		http.Error(w, "Invalid knowledge level", http.StatusBadRequest)
		return
	}

	var text string
	switch {
	case req.ArticleID != "":
		article, err := s.articles.GetArticle(req.ArticleID)
		if err != nil {
			storeError(w, err)
			return
		}
		// Absent resolution flows through: the summarizer answers with its
		// no-content sentinel instead of calling the backend.
		text = feed.Resolve(toFeedArticle(*article)).Text
	case strings.TrimSpace(req.Content) != "":
		text = req.Content
	case req.URL != "":
		fetched, err := s.fetcher.Extract(r.Context(), req.URL)
		if err != nil {
			http.Error(w, "Failed to fetch article content", http.StatusBadRequest)
			return
		}
		text = fetched
	default:
		http.Error(w, "Either article_id, url or content must be provided", http.StatusBadRequest)
		return
	}

	summary := s.summarizer.Summarize(r.Context(), text, level)
	respondJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

type askRequest struct {
	Query     string `json:"query"`
	ArticleID string `json:"article_id"`
	Context   string `json:"context"`
}

// handleAsk answers a question grounded in a stored article or caller
// context. POST /api/articles/ask
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var grounding gen.Grounding
	if req.ArticleID != "" {
		article, err := s.articles.GetArticle(req.ArticleID)
		if err != nil {
			storeError(w, err)
			return
		}
		grounding = gen.ArticleGrounding(toFeedArticle(*article)).WithFallback(req.Context)
	} else {
		grounding = gen.RawGrounding(req.Context)
	}

	answer, err := s.answerer.Answer(r.Context(), req.Query, grounding)
	switch {
	case errors.Is(err, gen.ErrEmptyQuery):
		http.Error(w, "Query must not be empty", http.StatusBadRequest)
		return
	case errors.Is(err, gen.ErrNoGrounding):
		http.Error(w, "No grounding available", http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

type feedbackRequest struct {
	Type string `json:"type"`
}

// handleFeedback records a like/dislike for the authenticated user.
// POST /api/articles/{article_id}/feedback
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	articleID := chi.URLParam(r, "article_id")

	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	fb := store.Feedback(req.Type)
	if !store.ValidFeedback(fb) {
		http.Error(w, "Feedback type must be like or dislike", http.StatusBadRequest)
		return
	}

	if _, err := s.articles.GetArticle(articleID); err != nil {
		storeError(w, err)
		return
	}
	if err := s.prefs.SetFeedback(userID(r), articleID, fb); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Feedback recorded"})
}

type categoryJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type sourceJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Category string `json:"category,omitempty"`
	Enabled  bool   `json:"enabled"`
}

// handleInterests lists the interest category catalog. GET /api/interests
func (s *Server) handleInterests(w http.ResponseWriter, r *http.Request) {
	categories, err := s.catalog.ListCategories()
	if err != nil {
		storeError(w, err)
		return
	}
	out := make([]categoryJSON, len(categories))
	for i, c := range categories {
		out[i] = categoryJSON{ID: c.ID, Name: c.Name, Description: c.Description}
	}
	respondJSON(w, http.StatusOK, out)
}

// handleSources lists the news source catalog. GET /api/sources
func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.catalog.ListSources()
	if err != nil {
		storeError(w, err)
		return
	}
	out := make([]sourceJSON, len(sources))
	for i, src := range sources {
		out[i] = sourceJSON{ID: src.ID, Name: src.Name, URL: src.URL, Category: src.Category, Enabled: src.Enabled}
	}
	respondJSON(w, http.StatusOK, out)
}

type preferencesRequest struct {
	Interests      []string `json:"interests"`
	KnowledgeLevel string   `json:"knowledge_level"`
}

// handleSetPreferences updates the user's interests and knowledge level,
// completing onboarding. PUT /api/users/preferences
func (s *Server) handleSetPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !gen.ValidLevel(gen.KnowledgeLevel(req.KnowledgeLevel)) {
		http.Error(w, "Invalid knowledge level", http.StatusBadRequest)
		return
	}

	if err := s.prefs.SetPreferences(userID(r), req.Interests, req.KnowledgeLevel); err != nil {
		storeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
