package llm

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("LLM API key not configured")

// APICallError wraps a provider failure.
type APICallError struct {
	Provider Provider
	Model    string
	Cause    error
}

func (e *APICallError) Error() string {
	return fmt.Sprintf("%s call to %s failed: %v", e.Provider, e.Model, e.Cause)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// Stage identifies where structured output handling failed.
type Stage string

// Structured output stages.
const (
	StageParse  Stage = "parse"
	StageSchema Stage = "schema"
	StageDecode Stage = "decode"
)

// StructuredOutputError reports a reply that could not be turned into the expected value.
type StructuredOutputError struct {
	Stage  Stage
	Schema string
	Raw    string
	Cause  error
}

func (e *StructuredOutputError) Error() string {
	return fmt.Sprintf("structured output %s error for %s: %v", e.Stage, e.Schema, e.Cause)
}

func (e *StructuredOutputError) Unwrap() error {
	return e.Cause
}
