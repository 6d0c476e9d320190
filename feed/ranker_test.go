package feed

import (
	"testing"
	"time"
)

func ts(s string) *time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func ids(ranked []Ranked) []string {
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.Article.ID
	}
	return out
}

func TestRank_InterestOverlapBeatsTrending(t *testing.T) {
	// A single interest match (+1.0) must outrank a bare trending bonus (+0.5).
	prefs := Preferences{Interests: []string{"nlp"}}
	articles := []Article{
		{ID: "a2", Categories: []string{}, Trending: true},
		{ID: "a1", Categories: []string{"nlp"}, Trending: false},
	}

	ranked := Rank(prefs, articles)

	if got := ids(ranked); got[0] != "a1" || got[1] != "a2" {
		t.Errorf("expected [a1 a2], got %v", got)
	}
	if ranked[0].Score != 1.0 {
		t.Errorf("expected score 1.0 for interest match, got %.2f", ranked[0].Score)
	}
	if ranked[1].Score != 0.5 {
		t.Errorf("expected score 0.5 for trending, got %.2f", ranked[1].Score)
	}
}

func TestRank_IsPermutation(t *testing.T) {
	prefs := Preferences{Interests: []string{"ml"}}
	articles := []Article{
		{ID: "a", Categories: []string{"ml"}},
		{ID: "b", Categories: []string{"vision"}, Trending: true},
		{ID: "c", Categories: nil},
		{ID: "d", Categories: []string{"ml", "nlp"}},
	}

	ranked := Rank(prefs, articles)

	if len(ranked) != len(articles) {
		t.Fatalf("expected %d results, got %d", len(articles), len(ranked))
	}
	seen := make(map[string]bool)
	for _, r := range ranked {
		seen[r.Article.ID] = true
	}
	for _, a := range articles {
		if !seen[a.ID] {
			t.Errorf("article %s missing from ranked output", a.ID)
		}
	}
}

func TestRank_EmptyCandidates(t *testing.T) {
	ranked := Rank(Preferences{Interests: []string{"nlp"}}, nil)
	if len(ranked) != 0 {
		t.Errorf("expected empty result, got %d entries", len(ranked))
	}
}

func TestRank_EmptyInterestsTrendingFirst(t *testing.T) {
	// With no interests the overlap axis is flat, so trending articles rank
	// at or above non-trending articles of equal recency.
	when := ts("2025-06-01T12:00:00Z")
	prefs := Preferences{}
	articles := []Article{
		{ID: "plain", Categories: []string{"nlp"}, Published: when},
		{ID: "hot", Categories: []string{}, Trending: true, Published: when},
	}

	ranked := Rank(prefs, articles)

	if ranked[0].Article.ID != "hot" {
		t.Errorf("expected trending article first, got %s", ranked[0].Article.ID)
	}
}

func TestRank_DislikedRanksBelowEqualUndisliked(t *testing.T) {
	prefs := Preferences{
		Interests: []string{"ml"},
		Feedback:  map[string]Feedback{"bad": FeedbackDislike},
	}
	articles := []Article{
		{ID: "bad", Categories: []string{"ml"}},
		{ID: "good", Categories: []string{"ml"}},
	}

	ranked := Rank(prefs, articles)

	if ranked[0].Article.ID != "good" {
		t.Errorf("expected undisliked article first, got %s", ranked[0].Article.ID)
	}
	if ranked[1].Article.ID != "bad" {
		t.Errorf("disliked article must stay in the feed, got %v", ids(ranked))
	}
}

func TestRank_DislikedStillIncluded(t *testing.T) {
	prefs := Preferences{Feedback: map[string]Feedback{"only": FeedbackDislike}}
	ranked := Rank(prefs, []Article{{ID: "only"}})
	if len(ranked) != 1 {
		t.Fatalf("disliked article was dropped")
	}
	if ranked[0].Score != -dislikePenalty {
		t.Errorf("expected score %.2f, got %.2f", -dislikePenalty, ranked[0].Score)
	}
}

func TestRank_LikedCategoryBoostsSiblings(t *testing.T) {
	prefs := Preferences{Feedback: map[string]Feedback{"liked": FeedbackLike}}
	when := ts("2025-06-01T12:00:00Z")
	articles := []Article{
		{ID: "other", Categories: []string{"vision"}, Published: when},
		{ID: "sibling", Categories: []string{"robotics"}, Published: when},
		{ID: "liked", Categories: []string{"robotics"}, Published: when},
	}

	ranked := Rank(prefs, articles)

	// Both robotics articles carry the liked-category bonus; the
	// vision article carries nothing.
	if ranked[2].Article.ID != "other" {
		t.Errorf("expected unboosted article last, got %v", ids(ranked))
	}
	for _, r := range ranked[:2] {
		if r.Score != likedCategoryBonus {
			t.Errorf("article %s: expected score %.2f, got %.2f", r.Article.ID, likedCategoryBonus, r.Score)
		}
	}
}

func TestRank_TieBreakNewestFirstThenID(t *testing.T) {
	prefs := Preferences{}
	articles := []Article{
		{ID: "c", Published: ts("2025-01-01T00:00:00Z")},
		{ID: "b", Published: ts("2025-03-01T00:00:00Z")},
		{ID: "z"},
		{ID: "a", Published: ts("2025-03-01T00:00:00Z")},
		{ID: "y"},
	}

	ranked := Rank(prefs, articles)

	want := []string{"a", "b", "c", "y", "z"}
	got := ids(ranked)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestRank_ScoreFormula(t *testing.T) {
	prefs := Preferences{
		Interests: []string{"ml", "nlp"},
		Feedback:  map[string]Feedback{"x": FeedbackLike},
	}
	articles := []Article{
		{ID: "x", Categories: []string{"ml"}, Trending: true},
	}

	ranked := Rank(prefs, articles)

	// One interest match + trending + own liked-category bonus.
	want := interestWeight + trendingBonus + likedCategoryBonus
	if ranked[0].Score != want {
		t.Errorf("expected score %.2f, got %.2f", want, ranked[0].Score)
	}
}

func TestRank_EmptyCategorySetMatchesNothing(t *testing.T) {
	prefs := Preferences{Interests: []string{"nlp", "ml"}}
	ranked := Rank(prefs, []Article{{ID: "bare", Categories: []string{}}})
	if ranked[0].Score != 0 {
		t.Errorf("article with no categories must score zero on overlap, got %.2f", ranked[0].Score)
	}
}
