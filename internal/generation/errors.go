package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when content generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate brochure content")

	// ErrInvalidResponse is returned when a backend response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from generation backend")

	// ErrEmptyResult is returned when a backend succeeds but produces no usable content
	ErrEmptyResult = errors.New("generation backend returned empty result")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during content generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
