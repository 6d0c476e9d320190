package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateUser_DefaultPreferences(t *testing.T) {
	s := newTestStore(t)

	u, err := s.CreateUser("ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated user ID")
	}

	p, err := s.GetPreferences(u.ID)
	if err != nil {
		t.Fatalf("getting preferences: %v", err)
	}
	if len(p.Interests) != 0 {
		t.Errorf("expected empty interests, got %v", p.Interests)
	}
	if p.KnowledgeLevel != "Intermediate" {
		t.Errorf("expected default level Intermediate, got %s", p.KnowledgeLevel)
	}
	if len(p.Feedback) != 0 {
		t.Errorf("expected no feedback, got %v", p.Feedback)
	}
}

func TestGetPreferences_UnknownUser(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetPreferences("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPreferences_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	u, _ := s.CreateUser("ada@example.com", "Ada")

	if err := s.SetPreferences(u.ID, []string{"NLP", "Robotics"}, "Expert"); err != nil {
		t.Fatalf("setting preferences: %v", err)
	}

	p, err := s.GetPreferences(u.ID)
	if err != nil {
		t.Fatalf("getting preferences: %v", err)
	}
	if len(p.Interests) != 2 || p.Interests[0] != "NLP" {
		t.Errorf("unexpected interests: %v", p.Interests)
	}
	if p.KnowledgeLevel != "Expert" {
		t.Errorf("unexpected level: %s", p.KnowledgeLevel)
	}
}

func TestSetFeedback_LastWriteWins(t *testing.T) {
	s := newTestStore(t)
	u, _ := s.CreateUser("ada@example.com", "Ada")

	if err := s.SetFeedback(u.ID, "art1", FeedbackLike); err != nil {
		t.Fatalf("setting feedback: %v", err)
	}
	if err := s.SetFeedback(u.ID, "art1", FeedbackDislike); err != nil {
		t.Fatalf("overwriting feedback: %v", err)
	}

	p, _ := s.GetPreferences(u.ID)
	if len(p.Feedback) != 1 {
		t.Fatalf("expected one feedback entry, got %d", len(p.Feedback))
	}
	if p.Feedback["art1"] != FeedbackDislike {
		t.Errorf("expected dislike after overwrite, got %s", p.Feedback["art1"])
	}
}

func TestSaveArticle_RoundTrip(t *testing.T) {
	s := newTestStore(t)

	published := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := &Article{
		Title:      "Transformers Revisited",
		SourceName: "AI News",
		URL:        "https://example.com/t",
		Categories: []string{"NLP", "AI Research"},
		Content:    "full body",
		Summary:    "brief",
		Published:  &published,
	}
	if err := s.SaveArticle(a); err != nil {
		t.Fatalf("saving article: %v", err)
	}
	if a.ID == "" {
		t.Fatal("expected generated article ID")
	}

	got, err := s.GetArticle(a.ID)
	if err != nil {
		t.Fatalf("getting article: %v", err)
	}
	if got.Title != a.Title || got.Content != "full body" || got.Summary != "brief" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if len(got.Categories) != 2 {
		t.Errorf("unexpected categories: %v", got.Categories)
	}
	if got.Published == nil || !got.Published.Equal(published) {
		t.Errorf("unexpected published time: %v", got.Published)
	}
}

func TestGetArticle_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetArticle("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListArticles_CategoryFilter(t *testing.T) {
	s := newTestStore(t)

	must := func(a *Article) {
		if err := s.SaveArticle(a); err != nil {
			t.Fatalf("saving article: %v", err)
		}
	}
	must(&Article{ID: "a1", Categories: []string{"NLP"}})
	must(&Article{ID: "a2", Categories: []string{"Robotics"}})
	must(&Article{ID: "a3", Categories: []string{"NLP", "Robotics"}})
	must(&Article{ID: "a4", Categories: []string{}})

	all, err := s.ListArticles(nil)
	if err != nil {
		t.Fatalf("listing all: %v", err)
	}
	if len(all) != 4 {
		t.Errorf("expected 4 articles, got %d", len(all))
	}

	nlp, err := s.ListArticles([]string{"NLP"})
	if err != nil {
		t.Fatalf("listing filtered: %v", err)
	}
	if len(nlp) != 2 {
		t.Errorf("expected 2 NLP articles, got %d", len(nlp))
	}
	for _, a := range nlp {
		if a.ID == "a2" || a.ID == "a4" {
			t.Errorf("article %s should be filtered out", a.ID)
		}
	}
}

func TestListArticles_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	s.SaveArticle(&Article{ID: "old", Published: &old})
	s.SaveArticle(&Article{ID: "new", Published: &recent})
	s.SaveArticle(&Article{ID: "undated"})

	articles, err := s.ListArticles(nil)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if articles[0].ID != "new" || articles[1].ID != "old" {
		t.Errorf("expected [new old undated], got %s %s %s", articles[0].ID, articles[1].ID, articles[2].ID)
	}
	if articles[2].ID != "undated" {
		t.Errorf("undated article should sort last, got %s", articles[2].ID)
	}
}

func TestMarkTrending_ReplacesPreviousSet(t *testing.T) {
	s := newTestStore(t)
	s.SaveArticle(&Article{ID: "a1"})
	s.SaveArticle(&Article{ID: "a2"})
	s.SaveArticle(&Article{ID: "a3"})

	if err := s.MarkTrending([]string{"a1", "a2"}); err != nil {
		t.Fatalf("marking trending: %v", err)
	}
	if err := s.MarkTrending([]string{"a3"}); err != nil {
		t.Fatalf("re-marking trending: %v", err)
	}

	for id, want := range map[string]bool{"a1": false, "a2": false, "a3": true} {
		a, err := s.GetArticle(id)
		if err != nil {
			t.Fatalf("getting %s: %v", id, err)
		}
		if a.Trending != want {
			t.Errorf("article %s trending = %v, want %v", id, a.Trending, want)
		}
	}
}

func TestRecentArticleIDs(t *testing.T) {
	s := newTestStore(t)
	s.SaveArticle(&Article{ID: "a1", AddedAt: 100})
	s.SaveArticle(&Article{ID: "a2", AddedAt: 300})
	s.SaveArticle(&Article{ID: "a3", AddedAt: 200})

	ids, err := s.RecentArticleIDs(2)
	if err != nil {
		t.Fatalf("recent ids: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a2" || ids[1] != "a3" {
		t.Errorf("expected [a2 a3], got %v", ids)
	}
}

func TestSeed_Idempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.Seed(); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if err := s.Seed(); err != nil {
		t.Fatalf("re-seeding: %v", err)
	}

	categories, err := s.ListCategories()
	if err != nil {
		t.Fatalf("listing categories: %v", err)
	}
	if len(categories) != len(defaultCategories) {
		t.Errorf("expected %d categories, got %d", len(defaultCategories), len(categories))
	}

	sources, err := s.ListSources()
	if err != nil {
		t.Fatalf("listing sources: %v", err)
	}
	if len(sources) != len(defaultSources) {
		t.Errorf("expected %d sources, got %d", len(defaultSources), len(sources))
	}
	for _, src := range sources {
		if !src.Enabled {
			t.Errorf("seeded source %s should be enabled", src.Name)
		}
	}
}
