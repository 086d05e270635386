package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var ErrUnparsableDate = errors.New("unparsable date")

func NewWhen() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDate accepts RFC3339, a plain 2006-01-02 date or a phrase such as
// "next friday 7pm", and returns the unix timestamp in UTC.
func ParseDate(w *when.Parser, raw string, now time.Time) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("ParseDate: %w", ErrUnparsableDate)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Unix(), nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t.UTC().Unix(), nil
	}
	if w == nil {
		return 0, fmt.Errorf("ParseDate: %w: %q", ErrUnparsableDate, raw)
	}
	result, err := w.Parse(raw, now)
	if err != nil {
		return 0, fmt.Errorf("ParseDate: %w", err)
	}
	if result == nil {
		return 0, fmt.Errorf("ParseDate: %w: %q", ErrUnparsableDate, raw)
	}
	return result.Time.UTC().Unix(), nil
}
