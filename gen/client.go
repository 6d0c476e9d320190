package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

const baseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// ErrBackend marks any generation backend failure: timeout, non-200 status,
// or a malformed response body.
var ErrBackend = errors.New("generation backend failure")

// Backend produces text from a prompt.
type Backend interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type geminiBackend struct {
	apiKey  string
	model   string
	client  *http.Client
	baseURL string
}

// NewBackend creates a Backend talking to the Gemini API. The caller supplies
// the HTTP client so the request timeout budget is set in one place.
func NewBackend(apiKey, model string, client *http.Client) Backend {
	return &geminiBackend{
		apiKey:  apiKey,
		model:   model,
		client:  client,
		baseURL: baseURL,
	}
}

// newBackendWithURL creates a Backend with a custom base URL for testing.
func newBackendWithURL(apiKey, model string, client *http.Client, url string) Backend {
	return &geminiBackend{
		apiKey:  apiKey,
		model:   model,
		client:  client,
		baseURL: url,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *geminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling request: %v", ErrBackend, err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrBackend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling Gemini API: %v", ErrBackend, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrBackend, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrBackend, resp.StatusCode, string(respBody))
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return "", fmt.Errorf("%w: parsing response: %v", ErrBackend, err)
	}

	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrBackend)
	}

	return gemResp.Candidates[0].Content.Parts[0].Text, nil
}
