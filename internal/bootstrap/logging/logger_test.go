package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextAttrsAreMergedIntoRecords(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "debug"))
	ctx = WithAttrs(ctx, slog.String("component", "httpapi"))
	ctx = WithRequest(ctx, "req-1", "GET", "/api/events/{id}")
	ctx = WithAttrs(ctx, slog.String("component", "usecase.event"))

	Info(ctx, "event loaded", slog.Int64("event_id", 3))

	line := buf.String()
	for _, want := range []string{"component=usecase.event", "request_id=req-1", "method=GET", "route=/api/events/{id}", "event_id=3"} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line missing %q: %s", want, line)
		}
	}
	if strings.Count(line, "component=") != 1 {
		t.Fatalf("component attr duplicated: %s", line)
	}
}

func TestNewHonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), New(&buf, "warn"))

	Info(ctx, "hidden")
	Warn(ctx, "shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
	if ParseLevel("bogus") != slog.LevelInfo {
		t.Fatalf("ParseLevel(bogus) = %v, want info", ParseLevel("bogus"))
	}
}
