package trending

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// ArticleFlagger provides the store operations the refresher needs.
type ArticleFlagger interface {
	RecentArticleIDs(n int) ([]string, error)
	MarkTrending(ids []string) error
}

// Refresher periodically recomputes trending flags: the N most recently
// added articles are marked trending, replacing the previous set.
type Refresher struct {
	store ArticleFlagger
	count int
	cron  *cron.Cron
}

// New creates a Refresher that flags the count most recent articles.
func New(store ArticleFlagger, count int) *Refresher {
	return &Refresher{
		store: store,
		count: count,
		cron:  cron.New(),
	}
}

// Schedule registers the refresh to run every intervalHours hours.
func (r *Refresher) Schedule(intervalHours int) error {
	expr := fmt.Sprintf("0 */%d * * *", intervalHours)
	if _, err := r.cron.AddFunc(expr, func() {
		if err := r.Run(); err != nil {
			slog.Error("trending refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("adding trending cron entry: %w", err)
	}
	slog.Info("trending refresh scheduled", "cron", expr, "count", r.count)
	return nil
}

// Start begins the cron scheduler.
func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop halts the cron scheduler.
func (r *Refresher) Stop() {
	r.cron.Stop()
}

// Run recomputes trending flags once.
func (r *Refresher) Run() error {
	ids, err := r.store.RecentArticleIDs(r.count)
	if err != nil {
		return fmt.Errorf("fetching recent articles: %w", err)
	}
	if err := r.store.MarkTrending(ids); err != nil {
		return fmt.Errorf("marking trending: %w", err)
	}
	slog.Info("trending flags refreshed", "count", len(ids))
	return nil
}
