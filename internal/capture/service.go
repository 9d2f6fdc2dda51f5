// Package capture orchestrates a single free-text submission: one call
// to the language-model boundary, a tolerant parse of whatever came
// back, and normalization into a command. Only two failures ever reach
// the caller; everything else is repaired.
package capture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-vh/masterlist/internal/llm"
	"github.com/noah-vh/masterlist/internal/models"
	"github.com/noah-vh/masterlist/internal/normalize"
)

// Sentinel errors for the capture taxonomy. Shape anomalies in the
// model's output are never errors; these two cover the upstream call
// itself.
var (
	// ErrUnavailable means the language-model call could not be
	// completed or returned no content.
	ErrUnavailable = errors.New("language model unavailable")

	// ErrMalformed means the call succeeded but the content is not
	// parseable as structured data at all.
	ErrMalformed = errors.New("language model output not parseable")
)

// Service turns free text into commands.
type Service struct {
	client llm.Client
	now    func() time.Time
}

// New creates a capture service backed by the given client.
func New(client llm.Client) *Service {
	return &Service{client: client, now: time.Now}
}

// SetClock overrides the service clock, for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Capture runs one submission end to end. screen is the view the user
// was on; it only ever affects gap-filling defaults during
// normalization.
func (s *Service) Capture(ctx context.Context, freeText string, screen models.Screen) (models.Command, error) {
	resp, err := s.client.Generate(ctx, llm.Request{FreeText: freeText, ViewContext: screen})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(resp) == "" {
		return nil, fmt.Errorf("%w: empty response", ErrUnavailable)
	}

	raw, err := ParseRaw(resp)
	if err != nil {
		return nil, err
	}
	return normalize.Normalize(raw, freeText, screen, s.now()), nil
}

// NormalizeRaw skips the model call and normalizes an object the
// caller already holds, with the same clock and context rules.
func (s *Service) NormalizeRaw(raw map[string]any, freeText string, screen models.Screen) models.Command {
	return normalize.Normalize(raw, freeText, screen, s.now())
}

// ParseRaw extracts a JSON object from the model's response text. The
// model routinely wraps its JSON in a markdown code fence; that is
// stripped before parsing. A top-level array is tolerated and treated
// as a candidate item list.
func ParseRaw(resp string) (map[string]any, error) {
	text := stripFence(resp)

	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, nil
	}

	var list []any
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return map[string]any{"tasks": list}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrMalformed, snippet(text))
}

// stripFence removes a surrounding markdown code fence, if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop a language hint like "json" on the fence line.
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		first := strings.TrimSpace(s[:i])
		if len(first) <= 10 && !strings.ContainsAny(first, "{[") {
			s = s[i+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func snippet(s string) string {
	const max = 80
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
