package assist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"qmsevents/internal/domain/event"
	"qmsevents/internal/errs"
)

const systemPromptTemplate = "You are an expert AI assistant for a Quality Management System (QMS) in a life sciences company. " +
	"Your role is to analyze the provided QMS event data and answer user questions accurately and concisely. " +
	"The current date is %s. The data is provided as a JSON list of events."

// dateKeys are normalized in every context event before serialization.
var dateKeys = []string{"event_date", "due_date", "date"}

func SystemPrompt(today time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, today.Format("January 02, 2006"))
}

// NormalizeContextEvents copies each event map with its date keys replaced by
// a YYYY-MM-DD string or nil. Input maps are not modified.
func NormalizeContextEvents(events []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(events))
	for _, src := range events {
		dst := make(map[string]any, len(src))
		for k, v := range src {
			dst[k] = v
		}
		for _, key := range dateKeys {
			value, ok := dst[key]
			if !ok {
				continue
			}
			if d := contextDate(value); d != nil {
				dst[key] = d.String()
			} else {
				dst[key] = nil
			}
		}
		out = append(out, dst)
	}
	return out
}

// contextDate also reads the zoned RFC 3339 timestamps the API returns in
// the "date" key.
func contextDate(value any) *event.Date {
	if d := event.NormalizeDate(value).Ptr(); d != nil {
		return d
	}
	if s, ok := value.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			d := event.DateOf(t.UTC())
			return &d
		}
	}
	return nil
}

// BuildPrompt assembles the full text sent to the provider. Map keys are
// serialized in sorted order so equal inputs give equal prompts.
func BuildPrompt(today time.Time, userPrompt string, events []map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(NormalizeContextEvents(events)); err != nil {
		return "", errs.WithKind(errs.KindValidation, errs.Wrap(err, "encode events context"))
	}

	var b strings.Builder
	b.WriteString(SystemPrompt(today))
	b.WriteString("\n\nHere is the current list of QMS events:\n")
	b.WriteString(strings.TrimRight(buf.String(), "\n"))
	b.WriteString("\n\nUser's request: '")
	b.WriteString(userPrompt)
	b.WriteString("'")
	return b.String(), nil
}
