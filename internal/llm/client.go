// Package llm defines the boundary to the external language-model
// service. The transport itself is opaque to this module; callers
// inject a Client and the capture service treats its output as
// untrusted. A failure here is the only error the capture path ever
// surfaces.
package llm

import (
	"context"
	"errors"

	"github.com/noah-vh/masterlist/internal/models"
)

// ErrNoContent is returned when the service answered but produced no
// usable content. Callers treat it the same as an unreachable service.
var ErrNoContent = errors.New("language model returned no content")

// Request is a single user submission. At most one request is
// outstanding per submission; there is no retry policy at this layer.
type Request struct {
	FreeText    string        `json:"free_text"`
	ViewContext models.Screen `json:"view_context,omitempty"`
}

// Client produces the raw structured-ish response for a request. The
// response schema is not contractually fixed; normalization exists
// precisely because it varies.
type Client interface {
	// Name returns the client identifier, used in logs and audit entries.
	Name() string

	// Generate performs one request and returns the raw response text.
	Generate(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a plain function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Name implements Client.
func (ClientFunc) Name() string { return "func" }

// Generate implements Client.
func (f ClientFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
