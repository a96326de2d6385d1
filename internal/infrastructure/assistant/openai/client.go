package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"qmsevents/internal/bootstrap/logging"
	"qmsevents/internal/ports"
)

const DefaultModel = "gpt-4o-mini"

var errInvalidResponse = errors.New("Invalid response structure from AI service.")

// Client relays prompts to an OpenAI compatible chat completion endpoint.
type Client struct {
	client sdk.Client
	model  string
}

var _ ports.Assistant = (*Client)(nil)

func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}

	return &Client{
		client: sdk.NewClient(opts...),
		model:  model,
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "assistant.openai"), slog.String("model", c.model))

	completion, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.model),
		Messages: []sdk.ChatCompletionMessageParamUnion{
			sdk.UserMessage(prompt),
		},
	})
	if err != nil {
		var apiErr *sdk.Error
		if errors.As(err, &apiErr) {
			logging.Warn(logCtx, "openai returned error status", slog.Int("status_code", apiErr.StatusCode))
			detail := strings.TrimSpace(apiErr.RawJSON())
			if detail == "" {
				detail = apiErr.Message
			}
			return "", fmt.Errorf("AI service request failed: %s", detail)
		}
		return "", fmt.Errorf("An error occurred: %w", err)
	}

	if completion == nil || len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		logging.Warn(logCtx, "openai response did not match expected shape")
		return "", errInvalidResponse
	}
	return completion.Choices[0].Message.Content, nil
}
