// Package ai formats text through a remote generation model.
//
// A Client sends the user's content with a tone-specific instruction and
// returns sanitized markup restricted to the subset accepted by the markup
// package. Every failure is reported through one of the sentinel errors so
// callers can fall back to the rule-based formatter.
//
// Two clients are provided: GeminiClient calls the Gemini API directly and
// EndpointClient calls a deployed format-with-ai endpoint.
package ai
