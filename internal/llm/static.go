package llm

import (
	"context"
	"sync"
)

// Static is a scripted client: it replays a fixed sequence of
// responses, then repeats the last one. Used by tests and by the
// daemon's scripted configuration.
type Static struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

// NewStatic creates a scripted client replaying the given responses.
func NewStatic(responses ...string) *Static {
	return &Static{responses: responses}
}

// Fail makes the call at the given position (0-based) return err
// instead of a response.
func (s *Static) Fail(position int, err error) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.errs) <= position {
		s.errs = append(s.errs, nil)
	}
	s.errs[position] = err
	return s
}

// Name implements Client.
func (s *Static) Name() string { return "static" }

// Generate implements Client.
func (s *Static) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	call := s.calls
	s.calls++

	if call < len(s.errs) && s.errs[call] != nil {
		return "", s.errs[call]
	}
	if len(s.responses) == 0 {
		return "", ErrNoContent
	}
	if call >= len(s.responses) {
		call = len(s.responses) - 1
	}
	return s.responses[call], nil
}

// Calls returns how many times Generate was invoked.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
