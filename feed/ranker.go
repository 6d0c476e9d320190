package feed

import (
	"sort"
	"time"
)

// Scoring constants. Chosen so that a single interest match always outranks
// a bare trending article, and a dislike outweighs any realistic combination
// of boosts.
const (
	interestWeight     = 1.0
	trendingBonus      = 0.5
	dislikePenalty     = 2.0
	likedCategoryBonus = 0.25
)

// Feedback is a user's reaction to an article.
type Feedback string

const (
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// Article holds the article data needed for ranking and content resolution.
type Article struct {
	ID         string
	Title      string
	Categories []string
	Content    string
	Summary    string
	Published  *time.Time
	Trending   bool
}

// Preferences is a snapshot of a user's personalization state.
type Preferences struct {
	Interests []string
	Feedback  map[string]Feedback // article ID -> like/dislike
}

// Ranked pairs an article with its computed score for one response.
type Ranked struct {
	Article Article
	Score   float64
}

// Rank scores and orders candidate articles against the user's preferences.
// The result is a permutation of the input: zero-overlap and disliked articles
// are ranked low, never dropped. With an empty interest set the overlap axis
// contributes nothing and the ordering degrades to trending-then-recency.
//
// Score = overlap*1.0 + trending*0.5 - disliked*2.0 + likedSiblings*0.25,
// where likedSiblings counts categories shared with articles the user liked
// among the candidates. Ties break by published time descending (articles
// without a timestamp last), then by ID ascending.
func Rank(prefs Preferences, articles []Article) []Ranked {
	interests := make(map[string]bool, len(prefs.Interests))
	for _, c := range prefs.Interests {
		interests[c] = true
	}

	// Categories of liked candidates boost sibling articles sharing them.
	likedCategories := make(map[string]bool)
	for _, a := range articles {
		if prefs.Feedback[a.ID] == FeedbackLike {
			for _, c := range a.Categories {
				likedCategories[c] = true
			}
		}
	}

	ranked := make([]Ranked, len(articles))
	for i, a := range articles {
		score := 0.0
		for _, c := range a.Categories {
			if interests[c] {
				score += interestWeight
			}
			if likedCategories[c] {
				score += likedCategoryBonus
			}
		}
		if a.Trending {
			score += trendingBonus
		}
		if prefs.Feedback[a.ID] == FeedbackDislike {
			score -= dislikePenalty
		}
		ranked[i] = Ranked{Article: a, Score: score}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		pi, pj := ranked[i].Article.Published, ranked[j].Article.Published
		switch {
		case pi != nil && pj != nil && !pi.Equal(*pj):
			return pi.After(*pj)
		case pi != nil && pj == nil:
			return true
		case pi == nil && pj != nil:
			return false
		}
		return ranked[i].Article.ID < ranked[j].Article.ID
	})

	return ranked
}
