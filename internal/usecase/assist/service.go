package assist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"qmsevents/internal/bootstrap/logging"
	"qmsevents/internal/errs"
	"qmsevents/internal/ports"
)

const DefaultTimeout = 30 * time.Second

var ErrCredentialMissing = errs.E(errs.KindUpstream, "AI provider API key is not configured")

type Service struct {
	assistant ports.Assistant
	apiKey    string
	timeout   time.Duration
	now       func() time.Time
}

// NewService builds the relay. An empty apiKey is accepted here and reported
// on every Assist call, so the rest of the API keeps serving.
func NewService(assistant ports.Assistant, apiKey string, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		assistant: assistant,
		apiKey:    strings.TrimSpace(apiKey),
		timeout:   timeout,
		now:       time.Now,
	}
}

type AssistInput struct {
	Prompt        string
	EventsContext []map[string]any
}

func (s *Service) Assist(ctx context.Context, input AssistInput) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	logCtx := logging.WithAttrs(ctx, slog.String("component", "usecase.assist"))

	if s.apiKey == "" || s.assistant == nil {
		logging.Warn(logCtx, "assist requested without provider credential")
		return "", ErrCredentialMissing
	}

	prompt, err := BuildPrompt(s.now(), input.Prompt, input.EventsContext)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	answer, err := s.assistant.Generate(callCtx, prompt)
	if err != nil {
		logging.Error(logCtx, "assist provider call failed",
			slog.Any("err", errs.Loggable(err)),
			slog.Duration("elapsed", time.Since(start)),
		)
		return "", errs.WithKind(errs.KindUpstream, err)
	}

	logging.Info(logCtx, "assist provider call completed",
		slog.Int("context_events", len(input.EventsContext)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return answer, nil
}
