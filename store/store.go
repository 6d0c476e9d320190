package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Feedback is a stored user reaction to an article.
type Feedback string

const (
	FeedbackLike    Feedback = "like"
	FeedbackDislike Feedback = "dislike"
)

// ValidFeedback reports whether f is a known feedback type.
func ValidFeedback(f Feedback) bool {
	return f == FeedbackLike || f == FeedbackDislike
}

// User is the minimal identity record behind the authenticated-request layer.
type User struct {
	ID        string
	Email     string
	Name      string
	CreatedAt int64 // Unix timestamp
}

// Preferences is a user's personalization snapshot.
type Preferences struct {
	UserID         string
	Interests      []string
	KnowledgeLevel string
	Feedback       map[string]Feedback // article ID -> like/dislike
}

// Article is a stored news article. The core only reads articles; the
// trending refresher is the sole writer of the Trending flag.
type Article struct {
	ID         string
	Title      string
	SourceName string
	URL        string
	Categories []string
	Content    string
	Summary    string
	Published  *time.Time
	Trending   bool
	AddedAt    int64 // Unix timestamp
}

// Category is an interest category users can subscribe to.
type Category struct {
	ID          string
	Name        string
	Description string
}

// Source is a news source in the read-only catalog.
type Source struct {
	ID       string
	Name     string
	URL      string
	Category string
	Enabled  bool
}

// Store provides SQLite-backed persistence for users, preferences, articles,
// feedback, and the category/source catalogs.
type Store struct {
	db *sql.DB
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT UNIQUE,
	name TEXT,
	created_at INTEGER
);

CREATE TABLE IF NOT EXISTS preferences (
	user_id TEXT PRIMARY KEY,
	interests TEXT,
	knowledge_level TEXT
);

CREATE TABLE IF NOT EXISTS feedback (
	user_id TEXT,
	article_id TEXT,
	type TEXT,
	created_at INTEGER,
	PRIMARY KEY (user_id, article_id)
);

CREATE TABLE IF NOT EXISTS articles (
	id TEXT PRIMARY KEY,
	title TEXT,
	source_name TEXT,
	url TEXT,
	categories TEXT,
	content TEXT,
	summary TEXT,
	published INTEGER,
	trending INTEGER DEFAULT 0,
	added_at INTEGER
);

CREATE TABLE IF NOT EXISTS categories (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE,
	description TEXT
);

CREATE TABLE IF NOT EXISTS sources (
	id TEXT PRIMARY KEY,
	name TEXT,
	url TEXT,
	category TEXT,
	enabled INTEGER DEFAULT 1
);
`

// New opens the SQLite database at dbPath, creates tables if they don't
// exist, and returns a Store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set WAL mode: %w", err)
	}

	if _, err := db.Exec(createTablesSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create tables: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new user and an empty preferences row with the
// default knowledge level. Returns the created user.
func (s *Store) CreateUser(email, name string) (*User, error) {
	u := User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := s.db.Exec(
		`INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Email, u.Name, u.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("store: create user: %w", err)
	}
	if _, err := s.db.Exec(
		`INSERT INTO preferences (user_id, interests, knowledge_level) VALUES (?, '[]', 'Intermediate')`,
		u.ID,
	); err != nil {
		return nil, fmt.Errorf("store: create user preferences: %w", err)
	}
	return &u, nil
}

// GetUser looks up a user by ID. Returns ErrNotFound if absent.
func (s *Store) GetUser(id string) (*User, error) {
	var u User
	err := s.db.QueryRow(
		`SELECT id, email, name, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: user %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user %q: %w", id, err)
	}
	return &u, nil
}

// GetPreferences returns the user's interests, knowledge level, and full
// feedback history. Returns ErrNotFound for an unknown user.
func (s *Store) GetPreferences(userID string) (*Preferences, error) {
	p := Preferences{UserID: userID, Feedback: make(map[string]Feedback)}

	var interestsJSON string
	err := s.db.QueryRow(
		`SELECT interests, knowledge_level FROM preferences WHERE user_id = ?`, userID,
	).Scan(&interestsJSON, &p.KnowledgeLevel)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: preferences for user %q: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get preferences for user %q: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(interestsJSON), &p.Interests); err != nil {
		return nil, fmt.Errorf("store: decode interests for user %q: %w", userID, err)
	}

	rows, err := s.db.Query(`SELECT article_id, type FROM feedback WHERE user_id = ?`, userID)
	if err != nil {
		return nil, fmt.Errorf("store: get feedback for user %q: %w", userID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var articleID, fbType string
		if err := rows.Scan(&articleID, &fbType); err != nil {
			return nil, fmt.Errorf("store: scan feedback: %w", err)
		}
		p.Feedback[articleID] = Feedback(fbType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate feedback: %w", err)
	}

	return &p, nil
}

// SetPreferences replaces a user's interests and knowledge level.
func (s *Store) SetPreferences(userID string, interests []string, level string) error {
	if interests == nil {
		interests = []string{}
	}
	interestsJSON, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("store: encode interests: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO preferences (user_id, interests, knowledge_level) VALUES (?, ?, ?)`,
		userID, string(interestsJSON), level,
	)
	if err != nil {
		return fmt.Errorf("store: set preferences for user %q: %w", userID, err)
	}
	return nil
}

// SetFeedback records a like/dislike for (user, article). Last write wins:
// repeated feedback for the same pair replaces the previous entry.
func (s *Store) SetFeedback(userID, articleID string, fb Feedback) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO feedback (user_id, article_id, type, created_at) VALUES (?, ?, ?, ?)`,
		userID, articleID, string(fb), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("store: set feedback for article %q: %w", articleID, err)
	}
	return nil
}

// SaveArticle inserts or replaces an article. A blank ID is assigned a new
// UUID; a zero AddedAt is stamped with the current time.
func (s *Store) SaveArticle(a *Article) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AddedAt == 0 {
		a.AddedAt = time.Now().Unix()
	}
	categoriesJSON, err := json.Marshal(a.Categories)
	if err != nil {
		return fmt.Errorf("store: encode categories: %w", err)
	}
	var published *int64
	if a.Published != nil {
		ts := a.Published.Unix()
		published = &ts
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO articles (id, title, source_name, url, categories, content, summary, published, trending, added_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.SourceName, a.URL, string(categoriesJSON), a.Content, a.Summary, published, boolToInt(a.Trending), a.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("store: save article %q: %w", a.ID, err)
	}
	return nil
}

// GetArticle looks up an article by ID. Returns ErrNotFound if absent.
func (s *Store) GetArticle(id string) (*Article, error) {
	row := s.db.QueryRow(
		`SELECT id, title, source_name, url, categories, content, summary, published, trending, added_at
		 FROM articles WHERE id = ?`, id,
	)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("store: article %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("store: get article %q: %w", id, err)
	}
	return a, nil
}

// ListArticles returns articles newest first. A non-empty category filter
// keeps articles sharing at least one category with it; an empty filter
// returns the whole corpus.
func (s *Store) ListArticles(categories []string) ([]Article, error) {
	rows, err := s.db.Query(
		`SELECT id, title, source_name, url, categories, content, summary, published, trending, added_at
		 FROM articles ORDER BY published DESC, added_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list articles: %w", err)
	}
	defer rows.Close()

	filter := make(map[string]bool, len(categories))
	for _, c := range categories {
		filter[c] = true
	}

	var articles []Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan article: %w", err)
		}
		if len(filter) > 0 && !matchesAny(a.Categories, filter) {
			continue
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate articles: %w", err)
	}
	return articles, nil
}

// RecentArticleIDs returns the IDs of the n most recently added articles.
func (s *Store) RecentArticleIDs(n int) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT id FROM articles ORDER BY added_at DESC, id LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("store: recent article ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan article id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate article ids: %w", err)
	}
	return ids, nil
}

// MarkTrending clears all trending flags and sets them on the given IDs.
func (s *Store) MarkTrending(ids []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin mark trending: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE articles SET trending = 0 WHERE trending = 1`); err != nil {
		return fmt.Errorf("store: clear trending: %w", err)
	}
	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE articles SET trending = 1 WHERE id = ?`, id); err != nil {
			return fmt.Errorf("store: mark trending %q: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit mark trending: %w", err)
	}
	return nil
}

// ListCategories returns all interest categories ordered by name.
func (s *Store) ListCategories() ([]Category, error) {
	rows, err := s.db.Query(`SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("store: scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate categories: %w", err)
	}
	return categories, nil
}

// ListSources returns all news sources ordered by name.
func (s *Store) ListSources() ([]Source, error) {
	rows, err := s.db.Query(`SELECT id, name, url, category, enabled FROM sources ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("store: list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		var src Source
		var enabled int
		if err := rows.Scan(&src.ID, &src.Name, &src.URL, &src.Category, &enabled); err != nil {
			return nil, fmt.Errorf("store: scan source: %w", err)
		}
		src.Enabled = enabled != 0
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate sources: %w", err)
	}
	return sources, nil
}

// scanner abstracts sql.Row and sql.Rows for scanArticle.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*Article, error) {
	var a Article
	var categoriesJSON string
	var published sql.NullInt64
	var trending int
	err := row.Scan(&a.ID, &a.Title, &a.SourceName, &a.URL, &categoriesJSON,
		&a.Content, &a.Summary, &published, &trending, &a.AddedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(categoriesJSON), &a.Categories); err != nil {
		return nil, fmt.Errorf("decode categories for article %q: %w", a.ID, err)
	}
	if published.Valid {
		t := time.Unix(published.Int64, 0).UTC()
		a.Published = &t
	}
	a.Trending = trending != 0
	return &a, nil
}

func matchesAny(categories []string, filter map[string]bool) bool {
	for _, c := range categories {
		if filter[c] {
			return true
		}
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
