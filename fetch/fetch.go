package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// maxContentLength caps extracted text so downstream prompts stay bounded.
const maxContentLength = 4000

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher extracts readable article text from a URL. Used when a summarize
// request supplies a URL instead of content.
type Fetcher interface {
	Extract(ctx context.Context, url string) (string, error)
}

type httpFetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with the given timeout for HTTP requests.
func NewFetcher(timeout time.Duration) Fetcher {
	return &httpFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewFetcherWithClient creates a Fetcher with a custom HTTP client (for testing).
func NewFetcherWithClient(client *http.Client) Fetcher {
	return &httpFetcher{
		client: client,
	}
}

// Extract fetches the given URL and returns its readable text content,
// truncated to 4000 characters.
func (f *httpFetcher) Extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating fetch request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s returned status %d", url, resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, nil)
	if err != nil {
		return "", fmt.Errorf("extracting content from %s: %w", url, err)
	}

	content := article.TextContent
	if len(content) > maxContentLength {
		content = content[:maxContentLength]
	}

	return content, nil
}
