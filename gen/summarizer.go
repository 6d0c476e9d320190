package gen

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// KnowledgeLevel controls the register of generated explanations.
type KnowledgeLevel string

const (
	Beginner     KnowledgeLevel = "Beginner"
	Intermediate KnowledgeLevel = "Intermediate"
	Expert       KnowledgeLevel = "Expert"
)

// ValidLevel reports whether l is one of the known knowledge levels.
func ValidLevel(l KnowledgeLevel) bool {
	return l == Beginner || l == Intermediate || l == Expert
}

// Fixed user-facing messages. Summarization failures are reported, not
// propagated: the caller always gets a sentence it can show.
const (
	NoContentMessage     = "There is no article content available to summarize."
	SummaryFailedMessage = "An error occurred during summarization."
)

// maxPromptContent caps the article text included in a prompt.
const maxPromptContent = 4000

// Summarizer produces knowledge-level-calibrated explanations of article text.
type Summarizer struct {
	backend Backend
}

// NewSummarizer creates a Summarizer over the given backend.
func NewSummarizer(backend Backend) *Summarizer {
	return &Summarizer{backend: backend}
}

// Summarize explains text at the given knowledge level. Blank text
// short-circuits with a fixed sentinel and never reaches the backend.
// Backend failures are logged and converted to a fixed failure message.
func (s *Summarizer) Summarize(ctx context.Context, text string, level KnowledgeLevel) string {
	if strings.TrimSpace(text) == "" {
		return NoContentMessage
	}

	if len(text) > maxPromptContent {
		text = text[:maxPromptContent]
	}

	prompt := fmt.Sprintf(`Please summarize the following article for a %s reader.
%s
Keep the summary clear and concise (2-5 sentences).

Article content:
%s`, level, levelInstruction(level), text)

	out, err := s.backend.Generate(ctx, prompt)
	if err != nil {
		slog.Error("summarization failed", "level", level, "error", err)
		return SummaryFailedMessage
	}
	return out
}

// levelInstruction returns the register directive for a knowledge level.
func levelInstruction(level KnowledgeLevel) string {
	switch level {
	case Beginner:
		return "Use plain language and simple explanations. Avoid jargon entirely."
	case Expert:
		return "Use precise technical terminology. Do not simplify."
	default:
		return "Use moderate technical terms, adding brief context where needed."
	}
}
