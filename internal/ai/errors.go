package ai

import "errors"

// Sentinel errors for the AI formatting path.
var (
	ErrConfiguration = errors.New("AI formatter not configured")
	ErrUpstream      = errors.New("AI service reported failure")
	ErrEmptyResult   = errors.New("AI service returned no content")
	ErrTransport     = errors.New("AI service unreachable")
	ErrUnsafeMarkup  = errors.New("AI reply rejected by markup policy")
	ErrInvalidTone   = errors.New("invalid tone")
)
