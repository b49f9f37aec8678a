package drafting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel    = "gemini-2.0-flash"
)

// GeminiClient calls the generateContent REST endpoint.
type GeminiClient struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewGeminiClient creates a client. Empty model or endpoint fall back to
// the public defaults.
func NewGeminiClient(apiKey, model, endpoint string, logger *slog.Logger) *GeminiClient {
	if model == "" {
		model = defaultGeminiModel
	}
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiClient{
		apiKey:   apiKey,
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func (c *GeminiClient) WithHTTPClient(client *http.Client) *GeminiClient {
	if client != nil {
		c.client = client
	}
	return c
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig *struct {
		ResponseMimeType string `json:"responseMimeType,omitempty"`
	} `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate implements Generator.
func (c *GeminiClient) Generate(ctx context.Context, p Prompt) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: p.Text}}}},
	}
	if p.JSON {
		reqBody.GenerationConfig = &struct {
			ResponseMimeType string `json:"responseMimeType,omitempty"`
		}{ResponseMimeType: "application/json"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read generate response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("generate content failed: %s", strings.TrimSpace(string(body)))
	}

	var out geminiResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("generate content failed: %d %s", out.Error.Code, out.Error.Message)
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, part := range cand.Content.Parts {
			sb.WriteString(part.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	c.logger.Debug("generated content", "model", c.model, "bytes", len(text))
	return text, nil
}
