package domain

import (
	"errors"
	"strings"
)

// DefaultLayout is the brochure layout used when the caller does not ask
// for a specific one.
const DefaultLayout = "full_bleed"

// Validation errors for GenerationRequest
var (
	ErrBlankRequestName   = errors.New("brochure name is required")
	ErrBlankRequestPrompt = errors.New("prompt is required")
)

// GenerationRequest describes one brochure generation submission: a display
// name and a free-text prompt describing the property. Immutable once
// submitted.
type GenerationRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
	Layout string `json:"layout,omitempty"`
}

// Validate checks the request for the only synchronous failure mode the
// pipeline has: a blank name or prompt.
func (r *GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrBlankRequestName
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrBlankRequestPrompt
	}
	return nil
}

// EffectiveLayout returns the requested layout, or DefaultLayout when unset.
func (r *GenerationRequest) EffectiveLayout() string {
	if strings.TrimSpace(r.Layout) == "" {
		return DefaultLayout
	}
	return r.Layout
}
