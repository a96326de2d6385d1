package event

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// Date is a calendar date without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, fmt.Errorf("parse date %q: want %s", s, DateLayout)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts only strict YYYY-MM-DD strings.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string in %s format", DateLayout)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("date %q must use %s format", s, DateLayout)
	}
	*d = parsed
	return nil
}

// DateOutcome names the result of NormalizeDate.
type DateOutcome int

const (
	DateAbsent DateOutcome = iota
	DateParsed
	DateUnparseable
)

func (o DateOutcome) String() string {
	switch o {
	case DateParsed:
		return "parsed"
	case DateUnparseable:
		return "unparseable"
	default:
		return "absent"
	}
}

type NormalizedDate struct {
	Date    Date
	Outcome DateOutcome
}

// Ptr returns the date only when it was parsed.
func (n NormalizedDate) Ptr() *Date {
	if n.Outcome != DateParsed {
		return nil
	}
	d := n.Date
	return &d
}

// NormalizeDate converts a loosely typed date input into a calendar date.
// It never fails; inputs it cannot read come back as DateUnparseable.
func NormalizeDate(v any) NormalizedDate {
	switch value := v.(type) {
	case nil:
		return NormalizedDate{Outcome: DateAbsent}
	case Date:
		return NormalizedDate{Date: value, Outcome: DateParsed}
	case *Date:
		if value == nil {
			return NormalizedDate{Outcome: DateAbsent}
		}
		return NormalizedDate{Date: *value, Outcome: DateParsed}
	case time.Time:
		if value.IsZero() {
			return NormalizedDate{Outcome: DateAbsent}
		}
		return NormalizedDate{Date: DateOf(value), Outcome: DateParsed}
	case json.RawMessage:
		return normalizeRaw(value)
	case string:
		return normalizeString(value)
	case *string:
		if value == nil {
			return NormalizedDate{Outcome: DateAbsent}
		}
		return normalizeString(*value)
	default:
		return NormalizedDate{Outcome: DateUnparseable}
	}
}

func normalizeRaw(raw json.RawMessage) NormalizedDate {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return NormalizedDate{Outcome: DateAbsent}
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return NormalizedDate{Outcome: DateUnparseable}
	}
	return normalizeString(s)
}

func normalizeString(s string) NormalizedDate {
	if strings.TrimSpace(s) == "" {
		return NormalizedDate{Outcome: DateAbsent}
	}
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		// time.Parse tolerates trailing fractional seconds; strict means exact length.
		if len(s) != len(layout) {
			continue
		}
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizedDate{Date: DateOf(t), Outcome: DateParsed}
		}
	}
	return NormalizedDate{Outcome: DateUnparseable}
}
