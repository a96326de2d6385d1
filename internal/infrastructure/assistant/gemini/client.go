package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"qmsevents/internal/bootstrap/logging"
	"qmsevents/internal/ports"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"
)

var errInvalidResponse = errors.New("Invalid response structure from AI service.")

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// Client calls the Gemini generateContent endpoint. It never retries.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	model      string
}

var _ ports.Assistant = (*Client)(nil)

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		model:      model,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "assistant.gemini"), slog.String("model", c.model))

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(generateContentRequest{
			Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		}).
		Post("/v1beta/models/" + url.PathEscape(c.model) + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("An error occurred: %w", err)
	}

	if resp.IsError() {
		logging.Warn(logCtx, "gemini returned error status", slog.Int("status_code", resp.StatusCode()))
		return "", fmt.Errorf("AI service request failed: %s", resp.String())
	}

	text, err := extractText(resp.Body())
	if err != nil {
		logging.Warn(logCtx, "gemini response did not match expected shape", slog.Int("status_code", resp.StatusCode()))
		return "", err
	}
	return text, nil
}

// extractText requires candidates[0].content.parts[0].text to be present and non-empty.
func extractText(body []byte) (string, error) {
	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", errInvalidResponse
	}
	if len(decoded.Candidates) == 0 {
		return "", errInvalidResponse
	}
	first := decoded.Candidates[0].Content
	if first == nil || len(first.Parts) == 0 || first.Parts[0].Text == "" {
		return "", errInvalidResponse
	}
	return first.Parts[0].Text, nil
}
