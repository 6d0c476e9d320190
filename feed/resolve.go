package feed

import "strings"

// ResolvedKind identifies which text field backs a resolution.
type ResolvedKind int

const (
	KindAbsent ResolvedKind = iota
	KindFull
	KindSummary
)

// Resolved is the text selected for downstream generation.
type Resolved struct {
	Kind ResolvedKind
	Text string
}

// Resolve picks the best available text for an article: full content if
// present, else the stored summary, else absent. Whitespace-only fields
// count as missing so generation never receives effectively empty context.
func Resolve(a Article) Resolved {
	if strings.TrimSpace(a.Content) != "" {
		return Resolved{Kind: KindFull, Text: a.Content}
	}
	if strings.TrimSpace(a.Summary) != "" {
		return Resolved{Kind: KindSummary, Text: a.Summary}
	}
	return Resolved{Kind: KindAbsent}
}
