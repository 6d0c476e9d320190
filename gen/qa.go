package gen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"news-portal/feed"
)

// Validation and resolution failures surfaced by the Q&A engine. Both are
// reported before any backend call, so callers can tell "nothing to answer
// from" apart from "answering failed".
var (
	ErrEmptyQuery  = errors.New("query is empty")
	ErrNoGrounding = errors.New("no grounding available")
)

// AnswerFailedMessage is returned when the backend fails mid-answer.
const AnswerFailedMessage = "I'm sorry, I couldn't process that question at the moment."

// Grounding is the tagged context source for a question: a stored article,
// caller-supplied raw text, or both. When both are present the article takes
// precedence and raw text is only a fallback.
type Grounding struct {
	article *feed.Article
	raw     string
}

// ArticleGrounding grounds a question in a stored article.
func ArticleGrounding(a feed.Article) Grounding {
	return Grounding{article: &a}
}

// RawGrounding grounds a question in ad-hoc caller-supplied text.
func RawGrounding(text string) Grounding {
	return Grounding{raw: text}
}

// WithFallback attaches raw text used only if the article resolves to absent.
func (g Grounding) WithFallback(text string) Grounding {
	g.raw = text
	return g
}

// Engine answers free-text questions grounded in resolved article content.
type Engine struct {
	backend Backend
}

// NewEngine creates a Q&A engine over the given backend.
func NewEngine(backend Backend) *Engine {
	return &Engine{backend: backend}
}

// Answer responds to query using the grounding source as context. Empty
// queries fail with ErrEmptyQuery and an unresolvable grounding with
// ErrNoGrounding, both before any backend call. Backend failures are logged
// and converted to a fixed failure message with a nil error.
func (e *Engine) Answer(ctx context.Context, query string, g Grounding) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	grounding := ""
	if g.article != nil {
		if res := feed.Resolve(*g.article); res.Kind != feed.KindAbsent {
			grounding = res.Text
		}
	}
	if grounding == "" {
		grounding = strings.TrimSpace(g.raw)
	}
	if grounding == "" {
		return "", ErrNoGrounding
	}
	if len(grounding) > maxPromptContent {
		grounding = grounding[:maxPromptContent]
	}

	prompt := fmt.Sprintf(`Please answer the following question.
Be accurate, helpful, and concise.

Question: %s

Context (use this information to help with your answer):
%s`, query, grounding)

	out, err := e.backend.Generate(ctx, prompt)
	if err != nil {
		slog.Error("question answering failed", "error", err)
		return AnswerFailedMessage, nil
	}
	return out, nil
}
