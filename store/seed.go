package store

import (
	"fmt"

	"github.com/google/uuid"
)

// defaultCategories is the initial interest catalog offered at onboarding.
var defaultCategories = []Category{
	{Name: "Machine Learning", Description: "Machine learning algorithms and techniques"},
	{Name: "AI Research", Description: "Academic research in artificial intelligence"},
	{Name: "AI in Healthcare", Description: "Applications of AI in medical and healthcare fields"},
	{Name: "NLP", Description: "Natural Language Processing and large language models"},
	{Name: "Computer Vision", Description: "Image and video processing with AI"},
	{Name: "AI Ethics", Description: "Ethical considerations in AI development and deployment"},
	{Name: "AI Startups", Description: "News about AI startups and funding"},
	{Name: "AI Policy", Description: "Government policies and regulations related to AI"},
	{Name: "Robotics", Description: "AI in robotics and autonomous systems"},
}

// defaultSources is the initial news source catalog.
var defaultSources = []Source{
	{Name: "VentureBeat AI", URL: "https://venturebeat.com/category/ai/", Category: "AI News", Enabled: true},
	{Name: "MIT Technology Review AI", URL: "https://www.technologyreview.com/topic/artificial-intelligence/", Category: "AI Research", Enabled: true},
	{Name: "Google AI Blog", URL: "https://blog.research.google/", Category: "AI Research", Enabled: true},
	{Name: "AI News", URL: "https://www.artificialintelligence-news.com/", Category: "AI News", Enabled: true},
}

// Seed populates the category and source catalogs if they are empty.
// Existing data is never touched, so it is safe to call on every boot.
func (s *Store) Seed() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("store: count categories: %w", err)
	}
	if count == 0 {
		for _, c := range defaultCategories {
			if _, err := s.db.Exec(
				`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
				uuid.NewString(), c.Name, c.Description,
			); err != nil {
				return fmt.Errorf("store: seed category %q: %w", c.Name, err)
			}
		}
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&count); err != nil {
		return fmt.Errorf("store: count sources: %w", err)
	}
	if count == 0 {
		for _, src := range defaultSources {
			if _, err := s.db.Exec(
				`INSERT INTO sources (id, name, url, category, enabled) VALUES (?, ?, ?, ?, ?)`,
				uuid.NewString(), src.Name, src.URL, src.Category, boolToInt(src.Enabled),
			); err != nil {
				return fmt.Errorf("store: seed source %q: %w", src.Name, err)
			}
		}
	}

	return nil
}
