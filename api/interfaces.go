package api

import (
	"context"
	"net/http"

	"news-portal/gen"
	"news-portal/store"
)

// PreferenceStore reads and writes user personalization state.
type PreferenceStore interface {
	GetPreferences(userID string) (*store.Preferences, error)
	SetPreferences(userID string, interests []string, level string) error
	SetFeedback(userID, articleID string, fb store.Feedback) error
}

// ArticleStore reads stored articles.
type ArticleStore interface {
	GetArticle(id string) (*store.Article, error)
	ListArticles(categories []string) ([]store.Article, error)
}

// Catalog reads the interest category and news source catalogs.
type Catalog interface {
	ListCategories() ([]store.Category, error)
	ListSources() ([]store.Source, error)
}

// Summarizer produces knowledge-level-calibrated summaries.
type Summarizer interface {
	Summarize(ctx context.Context, text string, level gen.KnowledgeLevel) string
}

// Answerer answers grounded questions.
type Answerer interface {
	Answer(ctx context.Context, query string, g gen.Grounding) (string, error)
}

// PageFetcher extracts readable text from a URL.
type PageFetcher interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Authenticator yields the user identity behind a request. Transport-level
// auth lives outside the core; implementations only surface its result.
type Authenticator interface {
	UserID(r *http.Request) (string, error)
}
